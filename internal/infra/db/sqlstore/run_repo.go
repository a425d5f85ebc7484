package sqlstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
	"github.com/bryanwahyu/ai-readiness/internal/domain/scoring"
)

// RunRepository persists the scoring audit log.
type RunRepository struct {
	s *Store
}

// Runs returns the scoring.Repository view of the store.
func (s *Store) Runs() *RunRepository { return &RunRepository{s: s} }

// SaveRun insert
func (r *RunRepository) SaveRun(ctx context.Context, run *scoring.Run) error {
	if run.ID == "" {
		run.ID = scoring.RunID(uuid.NewString())
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	q := r.s.d.rebind(`
INSERT INTO score_runs (id, company_id, section, provider, response, score, error, duration_ms, created_at)
VALUES (?,?,?,?,?,?,?,?,?)`)
	_, err := r.s.db.ExecContext(ctx, q,
		string(run.ID), run.CompanyID, int(run.Section), stringOrDash(run.Provider),
		run.Response, run.Score, run.Error, run.DurationMS, run.CreatedAt)
	return err
}

// RunsByCompany newest first
func (r *RunRepository) RunsByCompany(ctx context.Context, id assessment.CompanyID, limit int) ([]*scoring.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.s.db.QueryContext(ctx, r.s.d.rebind(`
SELECT id, company_id, section, provider, response, score, error, duration_ms, created_at
FROM score_runs WHERE company_id=? ORDER BY created_at DESC, id LIMIT ?`), id, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*scoring.Run
	for rows.Next() {
		var run scoring.Run
		var rid string
		var section int
		if err := rows.Scan(&rid, &run.CompanyID, &section, &run.Provider, &run.Response,
			&run.Score, &run.Error, &run.DurationMS, &run.CreatedAt); err != nil {
			return nil, err
		}
		run.ID = scoring.RunID(rid)
		run.Section = assessment.Section(section)
		out = append(out, &run)
	}
	return out, rows.Err()
}
