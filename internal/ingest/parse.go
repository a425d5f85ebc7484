// Package ingest turns an uploaded questionnaire into a company profile,
// its answers and seeded get-well plans. Parsing has no side effects.
package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
)

// Parsed is the result of reading one questionnaire file
type Parsed struct {
	Company assessment.Company
	Answers []assessment.Answer
	Plans   []assessment.GetWellPlan
	// NameFromFile is set when the company name was derived from the filename.
	NameFromFile bool
}

// Row is one Section/Question/Answer record; Line is 1-based and counts the header.
type Row struct {
	Line     int
	Section  string
	Question string
	Answer   string
}

const planMarker = "get-well plan"

// boilerplate answers that show up in the Company Name cell of generated sample files
var boilerplate = []string{
	"Our internal R&D team",
	"We partner with AWS",
	"Minimal progress on model management",
	"We lack structured AI governance",
	"We plan to double our AI staff",
	"We are actively expanding",
}

// ParseAssessment reads a .csv or .xlsx questionnaire.
func ParseAssessment(filename string, r io.Reader) (*Parsed, error) {
	var (
		rows []Row
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", "":
		rows, err = ReadCSV(r)
	case ".xlsx":
		rows, err = ReadXLSX(r)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q (want .csv or .xlsx)", assessment.ErrIngestion, filepath.Ext(filename))
	}
	if err != nil {
		return nil, err
	}
	return Build(filename, rows)
}

// Build assembles the company, answers and plan seeds from parsed rows.
func Build(filename string, rows []Row) (*Parsed, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows", assessment.ErrIngestion)
	}

	p := &Parsed{}
	var rawType string
	for _, row := range rows {
		section, err := assessment.ParseSection(row.Section)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: section %q must start with \"Section N\" (1-6)",
				assessment.ErrIngestion, row.Line, row.Section)
		}
		question := strings.TrimSpace(row.Question)
		answer := strings.TrimSpace(row.Answer)

		if strings.Contains(strings.ToLower(question), planMarker) {
			if answer != "" {
				p.Plans = append(p.Plans, assessment.GetWellPlan{Section: section, Text: answer})
			}
			continue
		}

		if section == assessment.SectionProfile {
			q := strings.ToLower(question)
			switch {
			case q == "company name":
				if p.Company.Name == "" {
					p.Company.Name = answer
				}
			case strings.Contains(q, "revenue"):
				p.Company.AnnualRevenue = firstNonEmpty(p.Company.AnnualRevenue, answer)
			case strings.Contains(q, "employees"):
				p.Company.EmployeeCount = firstNonEmpty(p.Company.EmployeeCount, answer)
			case strings.Contains(q, "company type"):
				rawType = firstNonEmpty(rawType, answer)
			case strings.Contains(q, "naics"):
				p.Company.NAICSCodes = firstNonEmpty(p.Company.NAICSCodes, answer)
			}
		}

		p.Answers = append(p.Answers, assessment.Answer{
			Section:      section,
			SectionTitle: strings.TrimSpace(row.Section),
			Question:     question,
			Answer:       answer,
			Position:     len(p.Answers) + 1,
		})
	}

	if t, ok := assessment.NormalizeCompanyType(rawType); ok {
		p.Company.Type = t
	} else {
		p.Company.Type = assessment.TypeGovernment
	}

	if p.Company.Name == "" || isBoilerplate(p.Company.Name) {
		p.Company.Name = SyntheticName(filename)
		p.NameFromFile = true
	}
	return p, nil
}

func isBoilerplate(name string) bool {
	for _, b := range boilerplate {
		if strings.Contains(name, b) {
			return true
		}
	}
	return false
}

func firstNonEmpty(cur, next string) string {
	if cur != "" {
		return cur
	}
	return next
}

var (
	numberedFile = regexp.MustCompile(`(?i)^company_([^_.]+)`)
	separators   = regexp.MustCompile(`[_\-\s]+`)
)

// SyntheticName derives a company name from an upload filename:
// company_12.csv becomes "Company 12", acme_corp-2024.csv becomes "Acme Corp 2024".
func SyntheticName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if m := numberedFile.FindStringSubmatch(base); m != nil {
		return "Company " + m[1]
	}
	words := strings.TrimSpace(separators.ReplaceAllString(base, " "))
	if words == "" || words == "." {
		return "Untitled Company"
	}
	return cases.Title(language.English).String(words)
}
