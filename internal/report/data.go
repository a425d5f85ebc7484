// Package report renders a company's assessment as PDF or XLSX and
// produces the blank questionnaire template.
package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
)

// Data is everything a report shows for one company
type Data struct {
	Company     assessment.Company
	Overall     assessment.Overall
	Sections    []Section
	Plans       []Plan
	GeneratedAt time.Time
}

// Section is one questionnaire section with its score
type Section struct {
	Number  assessment.Section
	Title   string
	Score   int
	Scored  bool
	Stale   bool
	Answers []assessment.Answer
}

// ScoreText renders "7/10" or "N/A".
func (s Section) ScoreText() string {
	if !s.Scored {
		return "N/A"
	}
	return fmt.Sprintf("%d/10", s.Score)
}

type Plan struct {
	Section assessment.Section
	Title   string
	Text    string
}

// OverallText renders "7.4/10" or "N/A".
func (d Data) OverallText() string {
	if !d.Overall.Scored {
		return "N/A"
	}
	return d.Overall.String() + "/10"
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Filename builds the download name, e.g. report_Acme_Corp_20240102_150405.pdf.
func Filename(company string, at time.Time, ext string) string {
	name := strings.Trim(unsafeName.ReplaceAllString(company, "_"), "_")
	if name == "" {
		name = "company"
	}
	return fmt.Sprintf("report_%s_%s.%s", name, at.Format("20060102_150405"), ext)
}
