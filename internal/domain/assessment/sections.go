package assessment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Section is the 1-based number of a questionnaire section
type Section int

const (
	SectionProfile      Section = 1
	SectionCapabilities Section = 2
	SectionIndustry     Section = 3
	SectionPartnerships Section = 4
	SectionTalent       Section = 5
	SectionFuture       Section = 6
)

// ScoredSections are the sections that contribute to the overall score.
var ScoredSections = []Section{SectionProfile, SectionCapabilities, SectionIndustry, SectionPartnerships, SectionTalent}

// AllSections are every section of the questionnaire, in order.
var AllSections = []Section{SectionProfile, SectionCapabilities, SectionIndustry, SectionPartnerships, SectionTalent, SectionFuture}

var fixedTitles = map[Section]string{
	SectionProfile:      "Section 1: Company Profile & Strategic Alignment",
	SectionCapabilities: "Section 2: AI Capabilities & Technical Maturity",
	SectionPartnerships: "Section 4: Partnerships, Ecosystem & Industry Engagement",
	SectionTalent:       "Section 5: AI Talent, Culture & Organizational Readiness",
	SectionFuture:       "Section 6: Future Readiness & Differentiators",
}

var industryTitles = map[CompanyType]string{
	TypeGovernment: "Section 3: Government AI Integration & Contract Performance",
	TypeHealthcare: "Section 3: AI Adoption & Compliance in Healthcare Settings",
	TypeFinance:    "Section 3: AI Integration & Financial Services Delivery",
	TypeIndustrial: "Section 3: AI Integration & Business Operations",
}

// Valid reports whether s is one of the six sections.
func (s Section) Valid() bool { return s >= SectionProfile && s <= SectionFuture }

// Scored reports whether s takes part in scoring and aggregation.
func (s Section) Scored() bool { return s >= SectionProfile && s <= SectionTalent }

// Title returns the display title of s for a company of type t.
func (s Section) Title(t CompanyType) string {
	if s == SectionIndustry {
		if title, ok := industryTitles[t]; ok {
			return title
		}
		return industryTitles[TypeIndustrial]
	}
	if title, ok := fixedTitles[s]; ok {
		return title
	}
	return fmt.Sprintf("Section %d", int(s))
}

// IndustryTitles returns every section 3 title, keyed by company type.
func IndustryTitles() map[CompanyType]string {
	out := make(map[CompanyType]string, len(industryTitles))
	for k, v := range industryTitles {
		out[k] = v
	}
	return out
}

// CheckScorable returns ErrInvalidSection unless s is one of sections 1..5.
func CheckScorable(s Section) error {
	if !s.Scored() {
		if s == SectionFuture {
			return fmt.Errorf("%w: section 6 (future readiness) is never scored", ErrInvalidSection)
		}
		return fmt.Errorf("%w: section %d", ErrInvalidSection, int(s))
	}
	return nil
}

var sectionPrefix = regexp.MustCompile(`(?i)^\s*section\s+(\d+)`)

// ParseSection extracts the section number from a label like
// "Section 3: AI Adoption ...".
func ParseSection(label string) (Section, error) {
	m := sectionPrefix.FindStringSubmatch(label)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSection, label)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || !Section(n).Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSection, label)
	}
	return Section(n), nil
}

// NormalizeCompanyType maps the questionnaire's free-form company type
// to a supported type. ok is false when the text is not recognised.
func NormalizeCompanyType(raw string) (CompanyType, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return "", false
	case s == "government", s == "govcon", s == "t&g", strings.Contains(s, "technology & government"), strings.Contains(s, "government"):
		return TypeGovernment, true
	case strings.Contains(s, "health"):
		return TypeHealthcare, true
	case s == "fs", s == "fts", strings.Contains(s, "financ"):
		return TypeFinance, true
	case s == "basic", strings.Contains(s, "industrial"):
		return TypeIndustrial, true
	}
	return "", false
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
