package prompt

import (
	"fmt"
	"strconv"
	"strings"

	domain "github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
)

// Template is an evaluation prompt with placeholders.
type Template struct {
	Key   string
	Title string
	Body  string
}

// QA is one question/answer pair fed into a template.
type QA struct {
	Question string
	Answer   string
}

// FormatResponses serializes pairs the way every template expects them.
func FormatResponses(pairs []QA) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("Q: ")
		b.WriteString(strings.TrimSpace(p.Question))
		b.WriteString("\nA: ")
		b.WriteString(strings.TrimSpace(p.Answer))
	}
	return b.String()
}

// Render fills the scoring placeholders.
func (t Template) Render(pairs []QA) string {
	return strings.ReplaceAll(t.Body, phResponses, FormatResponses(pairs))
}

// RenderPlan fills the plan placeholders.
func (t Template) RenderPlan(pairs []QA, score int, ct domain.CompanyType) string {
	kind := string(ct)
	if kind == "" {
		kind = "Unknown"
	}
	r := strings.NewReplacer(
		phResponses, FormatResponses(pairs),
		phScore, strconv.Itoa(score),
		phCompanyType, kind,
	)
	return r.Replace(t.Body)
}

// Table is one family of templates: fixed ones for sections 1, 2, 4 and 5
// and per-type ones for section 3. Fallback serves section 3 for any type
// without its own entry; a nil Fallback makes such lookups fail.
type Table struct {
	Fixed    map[domain.Section]Template
	Industry map[domain.CompanyType]Template
	Fallback *Template
}

// Resolver selects the scoring and plan templates for a section.
type Resolver struct {
	scoring Table
	plans   Table
}

// NewResolver builds a resolver over explicit tables.
func NewResolver(scoring, plans Table) *Resolver {
	return &Resolver{scoring: scoring, plans: plans}
}

// DefaultResolver carries the built-in questionnaire templates. Industrial
// companies get the generic business operations variant of section 3.
func DefaultResolver() *Resolver {
	scoring := Table{
		Fixed: map[domain.Section]Template{
			domain.SectionProfile:      scoreProfile,
			domain.SectionCapabilities: scoreCapabilities,
			domain.SectionPartnerships: scorePartnerships,
			domain.SectionTalent:       scoreTalent,
		},
		Industry: map[domain.CompanyType]Template{
			domain.TypeGovernment: scoreGovernment,
			domain.TypeHealthcare: scoreHealthcare,
			domain.TypeFinance:    scoreFinance,
		},
		Fallback: &scoreOperations,
	}
	return &Resolver{scoring: scoring, plans: planTable(scoring)}
}

// planTable derives a plan template for every scoring template.
func planTable(scoring Table) Table {
	conv := func(t Template) Template {
		return Template{Key: "getwell_" + t.Key, Title: t.Title, Body: fmt.Sprintf(planBody, t.Title)}
	}
	out := Table{
		Fixed:    make(map[domain.Section]Template, len(scoring.Fixed)),
		Industry: make(map[domain.CompanyType]Template, len(scoring.Industry)),
	}
	for s, t := range scoring.Fixed {
		out.Fixed[s] = conv(t)
	}
	for ct, t := range scoring.Industry {
		out.Industry[ct] = conv(t)
	}
	if scoring.Fallback != nil {
		fb := conv(*scoring.Fallback)
		out.Fallback = &fb
	}
	return out
}

// Resolve returns the scoring template for section s of a company of type ct.
func (r *Resolver) Resolve(s domain.Section, ct domain.CompanyType) (Template, error) {
	return r.scoring.lookup(s, ct)
}

// ResolvePlan returns the get-well plan template for section s.
func (r *Resolver) ResolvePlan(s domain.Section, ct domain.CompanyType) (Template, error) {
	return r.plans.lookup(s, ct)
}

func (t Table) lookup(s domain.Section, ct domain.CompanyType) (Template, error) {
	if err := domain.CheckScorable(s); err != nil {
		return Template{}, err
	}
	if s != domain.SectionIndustry {
		tpl, ok := t.Fixed[s]
		if !ok {
			return Template{}, fmt.Errorf("%w: no template for section %d", domain.ErrConfiguration, int(s))
		}
		return tpl, nil
	}
	if tpl, ok := t.Industry[ct]; ok {
		return tpl, nil
	}
	if t.Fallback != nil {
		return *t.Fallback, nil
	}
	return Template{}, fmt.Errorf("%w: no section 3 template for company type %q", domain.ErrConfiguration, string(ct))
}
