package scoring

import (
	"context"

	"github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
)

// Repository port for the scoring audit log
type Repository interface {
	SaveRun(ctx context.Context, r *Run) error
	RunsByCompany(ctx context.Context, id assessment.CompanyID, limit int) ([]*Run, error)
}
