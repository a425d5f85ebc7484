package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	answersSheet = "Answers"
	plansSheet   = "Get-Well Plans"
)

// Workbook renders the report as an XLSX file with summary, answer and
// plan sheets.
func Workbook(d Data) ([]byte, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	bold, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	summary := [][]any{
		{"Company", d.Company.Name},
		{"Company Type", string(d.Company.Type)},
		{"Revenue", d.Company.AnnualRevenue},
		{"Employees", d.Company.EmployeeCount},
		{"NAICS Codes", d.Company.NAICSCodes},
		{"Overall Score", overallCell(d)},
		{},
		{"Section", "Score", "Stale"},
	}
	for _, s := range d.Sections {
		var score any = "N/A"
		if s.Scored {
			score = s.Score
		}
		summary = append(summary, []any{s.Title, score, s.Stale && s.Scored})
	}
	if err := writeRows(wb, summarySheet, summary); err != nil {
		return nil, err
	}
	headerRow := 8
	if err := wb.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", headerRow-2), bold); err != nil {
		return nil, err
	}
	if err := wb.SetRowStyle(summarySheet, headerRow, headerRow, bold); err != nil {
		return nil, err
	}
	if err := wb.SetColWidth(summarySheet, "A", "A", 62); err != nil {
		return nil, err
	}

	if _, err := wb.NewSheet(answersSheet); err != nil {
		return nil, err
	}
	answers := [][]any{{"Section", "Question", "Answer"}}
	for _, s := range d.Sections {
		for _, a := range s.Answers {
			answers = append(answers, []any{s.Title, a.Question, a.Answer})
		}
	}
	if err := writeRows(wb, answersSheet, answers); err != nil {
		return nil, err
	}
	if err := wb.SetRowStyle(answersSheet, 1, 1, bold); err != nil {
		return nil, err
	}
	if err := wb.SetColWidth(answersSheet, "A", "C", 60); err != nil {
		return nil, err
	}

	if len(d.Plans) > 0 {
		if _, err := wb.NewSheet(plansSheet); err != nil {
			return nil, err
		}
		plans := [][]any{{"Section", "Plan"}}
		for _, p := range d.Plans {
			plans = append(plans, []any{p.Title, p.Text})
		}
		if err := writeRows(wb, plansSheet, plans); err != nil {
			return nil, err
		}
		if err := wb.SetRowStyle(plansSheet, 1, 1, bold); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func overallCell(d Data) any {
	if !d.Overall.Scored {
		return "N/A"
	}
	return d.Overall.Value
}

func writeRows(wb *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
