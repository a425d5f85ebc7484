package scoring

import (
	"time"

	"github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
)

// RunID identifier type
type RunID string

// Run is the audit record of one call to the scoring provider
type Run struct {
	ID         RunID                `json:"id"`
	CompanyID  assessment.CompanyID `json:"company_id"`
	Section    assessment.Section   `json:"section"`
	Provider   string               `json:"provider"`
	Response   string               `json:"response,omitempty"`
	Score      int                  `json:"score,omitempty"`
	Error      string               `json:"error,omitempty"`
	DurationMS int64                `json:"duration_ms"`
	CreatedAt  time.Time            `json:"created_at"`
}

// Succeeded reports whether the run produced a stored score.
func (r *Run) Succeeded() bool { return r.Error == "" && r.Score > 0 }
