package assessment

import "time"

// CompanyID is the store-assigned identifier of a company
type CompanyID int64

// AnswerID identifies a single question/answer row
type AnswerID int64

// CompanyType selects the section 3 variant of the questionnaire
type CompanyType string

const (
	TypeGovernment CompanyType = "Government"
	TypeHealthcare CompanyType = "Healthcare"
	TypeFinance    CompanyType = "Finance"
	TypeIndustrial CompanyType = "Industrial"
)

// CompanyTypes lists every supported type in display order.
var CompanyTypes = []CompanyType{TypeGovernment, TypeHealthcare, TypeFinance, TypeIndustrial}

// Valid reports whether t is one of the supported types.
func (t CompanyType) Valid() bool {
	switch t {
	case TypeGovernment, TypeHealthcare, TypeFinance, TypeIndustrial:
		return true
	}
	return false
}

// Company aggregate root
type Company struct {
	ID            CompanyID   `json:"id"`
	Name          string      `json:"name"`
	Type          CompanyType `json:"company_type"`
	AnnualRevenue string      `json:"annual_revenue,omitempty"`
	EmployeeCount string      `json:"employee_count,omitempty"`
	NAICSCodes    string      `json:"naics_codes,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Revenue returns the parsed annual revenue.
func (c *Company) Revenue() Quantity { return ParseQuantity(c.AnnualRevenue) }

// Employees returns the parsed employee count.
func (c *Company) Employees() Quantity { return ParseQuantity(c.EmployeeCount) }

// Answer is one question/answer pair of a company's questionnaire
type Answer struct {
	ID           AnswerID  `json:"id"`
	CompanyID    CompanyID `json:"company_id"`
	Section      Section   `json:"section"`
	SectionTitle string    `json:"section_title"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	Position     int       `json:"position"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Answered reports whether the row carries a non-blank answer.
func (a Answer) Answered() bool { return !isBlank(a.Answer) }

// SectionScore is the stored 1..10 rating of one section.
// Value is 0 when the section has never been scored.
type SectionScore struct {
	CompanyID CompanyID `json:"company_id"`
	Section   Section   `json:"section"`
	Value     int       `json:"score"`
	Stale     bool      `json:"stale"`
	Rationale string    `json:"rationale,omitempty"`
	ScoredAt  time.Time `json:"scored_at"`
}

// Scored reports whether a value has ever been stored.
func (s SectionScore) Scored() bool { return s.Value >= MinScore && s.Value <= MaxScore }

// GetWellPlan is the improvement guidance attached to a section
type GetWellPlan struct {
	CompanyID CompanyID `json:"company_id"`
	Section   Section   `json:"section"`
	Text      string    `json:"plan_text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AnswerUpdate is a single answer edit
type AnswerUpdate struct {
	ID     AnswerID `json:"assessment_id"`
	Answer string   `json:"answer"`
}
