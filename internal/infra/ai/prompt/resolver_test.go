package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
)

func TestDefaultResolver_Resolve(t *testing.T) {
	r := DefaultResolver()

	tests := []struct {
		section domain.Section
		ct      domain.CompanyType
		key     string
	}{
		{domain.SectionProfile, domain.TypeGovernment, "section1"},
		{domain.SectionCapabilities, domain.TypeFinance, "section2"},
		{domain.SectionIndustry, domain.TypeGovernment, "section3_government"},
		{domain.SectionIndustry, domain.TypeHealthcare, "section3_healthcare"},
		{domain.SectionIndustry, domain.TypeFinance, "section3_finance"},
		{domain.SectionIndustry, domain.TypeIndustrial, "section3_default"},
		{domain.SectionIndustry, "", "section3_default"},
		{domain.SectionPartnerships, domain.TypeHealthcare, "section4"},
		{domain.SectionTalent, domain.TypeIndustrial, "section5"},
	}
	for _, tt := range tests {
		tpl, err := r.Resolve(tt.section, tt.ct)
		require.NoError(t, err)
		assert.Equal(t, tt.key, tpl.Key)

		plan, err := r.ResolvePlan(tt.section, tt.ct)
		require.NoError(t, err)
		assert.Equal(t, "getwell_"+tt.key, plan.Key)
		assert.Equal(t, tpl.Title, plan.Title)
	}
}

func TestResolver_SectionSixNeverResolves(t *testing.T) {
	r := DefaultResolver()
	_, err := r.Resolve(domain.SectionFuture, domain.TypeGovernment)
	assert.ErrorIs(t, err, domain.ErrInvalidSection)
	_, err = r.ResolvePlan(domain.SectionFuture, domain.TypeGovernment)
	assert.ErrorIs(t, err, domain.ErrInvalidSection)
}

func TestResolver_MissingTemplates(t *testing.T) {
	r := NewResolver(Table{
		Fixed:    map[domain.Section]Template{domain.SectionProfile: scoreProfile},
		Industry: map[domain.CompanyType]Template{domain.TypeHealthcare: scoreHealthcare},
	}, Table{})

	_, err := r.Resolve(domain.SectionIndustry, domain.TypeFinance)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = r.Resolve(domain.SectionTalent, domain.TypeFinance)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = r.ResolvePlan(domain.SectionProfile, domain.TypeFinance)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestTemplate_Render(t *testing.T) {
	pairs := []QA{
		{Question: " Company Name ", Answer: "Acme"},
		{Question: "Do you have an AI roadmap?", Answer: "Yes, a 3-year plan"},
	}
	tpl, err := DefaultResolver().Resolve(domain.SectionProfile, domain.TypeGovernment)
	require.NoError(t, err)

	out := tpl.Render(pairs)
	assert.Contains(t, out, "Q: Company Name\nA: Acme\nQ: Do you have an AI roadmap?\nA: Yes, a 3-year plan")
	assert.NotContains(t, out, phResponses)

	plan, err := DefaultResolver().ResolvePlan(domain.SectionIndustry, domain.TypeHealthcare)
	require.NoError(t, err)
	text := plan.RenderPlan(pairs, 4, domain.TypeHealthcare)
	assert.Contains(t, text, "(type: Healthcare) scored 4/10")
	assert.Contains(t, text, `"AI Adoption & Compliance in Healthcare Settings"`)
	assert.NotContains(t, text, "{{")

	assert.Contains(t, plan.RenderPlan(nil, 2, ""), "(type: Unknown)")
}

func TestSystemPrompts(t *testing.T) {
	assert.Contains(t, GetScoringSystemPrompt(), `"score"`)
	assert.Contains(t, GetPlanSystemPrompt(), "Get-Well Plans")
	assert.NotEqual(t, GetScoringSystemPrompt(), GetPlanSystemPrompt())
}
