package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
)

const sampleCSV = "\ufeffSection,Question,Answer\n" +
	"Section 1: Company Profile & Strategic Alignment,Company Name,Acme Health\n" +
	"Section 1: Company Profile & Strategic Alignment,Annual Revenue,$10M - $50M\n" +
	"Section 1: Company Profile & Strategic Alignment,Number of Employees,250\n" +
	"Section 1: Company Profile & Strategic Alignment,Company Type,Healthcare\n" +
	"Section 1: Company Profile & Strategic Alignment,NAICS Codes,\"541511, 621111\"\n" +
	",,\n" +
	"Section 2: AI Capabilities & Technical Maturity,Do you have in-house ML engineers?,\"Yes, six\"\n" +
	"Section 2: AI Capabilities & Technical Maturity,Get-Well Plan AI Capabilities,Hire an MLOps lead\n" +
	"Section 3: AI Adoption & Compliance in Healthcare Settings,Get-Well Plan AI Adoption,\n" +
	"Section 6: Future Readiness & Differentiators,What differentiates you?,Clinical data partnerships\n"

func TestParseAssessment_CSV(t *testing.T) {
	p, err := ParseAssessment("acme.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, "Acme Health", p.Company.Name)
	assert.False(t, p.NameFromFile)
	assert.Equal(t, assessment.TypeHealthcare, p.Company.Type)
	assert.Equal(t, "$10M - $50M", p.Company.AnnualRevenue)
	assert.Equal(t, "250", p.Company.EmployeeCount)
	assert.Equal(t, "541511, 621111", p.Company.NAICSCodes)

	// blank row and both plan rows are not answers
	require.Len(t, p.Answers, 7)
	for i, a := range p.Answers {
		assert.Equal(t, i+1, a.Position)
	}
	assert.Equal(t, assessment.SectionCapabilities, p.Answers[5].Section)
	assert.Equal(t, "Yes, six", p.Answers[5].Answer)
	assert.Equal(t, assessment.SectionFuture, p.Answers[6].Section)

	// the blank plan row seeds nothing
	require.Len(t, p.Plans, 1)
	assert.Equal(t, assessment.SectionCapabilities, p.Plans[0].Section)
	assert.Equal(t, "Hire an MLOps lead", p.Plans[0].Text)
}

func TestParseAssessment_SyntheticName(t *testing.T) {
	csv := "Section,Question,Answer\n" +
		"Section 1: Company Profile,Company Name,We partner with AWS for hosting\n" +
		"Section 2: AI Capabilities,Question,Answer\n"
	p, err := ParseAssessment("uploads/company_42.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.True(t, p.NameFromFile)
	assert.Equal(t, "Company 42", p.Company.Name)
	assert.Equal(t, assessment.TypeGovernment, p.Company.Type)

	p, err = ParseAssessment("northwind_trading.csv", strings.NewReader("Section,Question,Answer\nSection 2,Q,A\n"))
	require.NoError(t, err)
	assert.True(t, p.NameFromFile)
	assert.Equal(t, "Northwind Trading", p.Company.Name)
}

func TestSyntheticName(t *testing.T) {
	assert.Equal(t, "Company 12", SyntheticName("company_12.csv"))
	assert.Equal(t, "Company 7", SyntheticName(`C:\fakepath\COMPANY_7.xlsx`))
	assert.Equal(t, "Acme Corp 2024", SyntheticName("acme_corp-2024.csv"))
	assert.Equal(t, "Untitled Company", SyntheticName(".csv"))
}

func TestParseAssessment_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		body     string
		contains string
	}{
		{"empty", "a.csv", "", "empty file"},
		{"missing columns", "a.csv", "Section,Prompt\nSection 1,x\n", "missing column(s) Question, Answer"},
		{"no rows", "a.csv", "Section,Question,Answer\n", "no data rows"},
		{"bad section", "a.csv", "Section,Question,Answer\nSection 1,Company Name,Acme\nIntro,Q,A\n", "row 3"},
		{"section out of range", "a.csv", "Section,Question,Answer\nSection 9,Q,A\n", "row 2"},
		{"unsupported type", "a.pdf", "Section,Question,Answer\n", "unsupported file type"},
		{"corrupt workbook", "a.xlsx", "not a zip", "open workbook"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAssessment(tt.filename, strings.NewReader(tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, assessment.ErrIngestion)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParseAssessment_XLSX(t *testing.T) {
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	rows := [][]any{
		{"Question", "Answer", "Section"},
		{"Company Name", "Globex", "Section 1: Company Profile & Strategic Alignment"},
		{"Company Type", "FS", "Section 1: Company Profile & Strategic Alignment"},
		{"Which models do you use?", "Open-weight models", "Section 2: AI Capabilities & Technical Maturity"},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))
	require.NoError(t, wb.Close())

	p, err := ParseAssessment("globex.xlsx", &buf)
	require.NoError(t, err)
	assert.Equal(t, "Globex", p.Company.Name)
	assert.Equal(t, assessment.TypeFinance, p.Company.Type)
	require.Len(t, p.Answers, 3)
	assert.Equal(t, "Open-weight models", p.Answers[2].Answer)
	assert.Equal(t, assessment.SectionCapabilities, p.Answers[2].Section)
}
