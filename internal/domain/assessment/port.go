package assessment

import "context"

// Repository port (persistence for companies and their questionnaires)
type Repository interface {
	GetCompany(ctx context.Context, id CompanyID) (*Company, error)
	FindCompanyByName(ctx context.Context, name string) (*Company, error)
	ListCompanies(ctx context.Context) ([]*Company, error)

	// ReplaceCompany creates the company or, when one with the same name
	// exists, overwrites its profile and drops its answers, scores and
	// plans before inserting the new ones. It runs in one transaction.
	ReplaceCompany(ctx context.Context, c *Company, answers []Answer, plans []GetWellPlan) (CompanyID, error)

	// Answers returns the company's answers in upload order; section 0
	// returns every section.
	Answers(ctx context.Context, id CompanyID, section Section) ([]Answer, error)
	CountAnswers(ctx context.Context, id CompanyID) (int, error)
	GetAnswer(ctx context.Context, id AnswerID) (*Answer, error)

	// UpdateAnswers writes the edits and marks the score of every touched
	// section stale, in one transaction.
	UpdateAnswers(ctx context.Context, updates []AnswerUpdate) ([]Answer, error)

	Scores(ctx context.Context, id CompanyID) (map[Section]SectionScore, error)
	SaveScore(ctx context.Context, s SectionScore) error

	Plans(ctx context.Context, id CompanyID) ([]GetWellPlan, error)
	SavePlan(ctx context.Context, p GetWellPlan) error
}

// ArtifactStore port (archive for generated reports and raw uploads)
type ArtifactStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}
