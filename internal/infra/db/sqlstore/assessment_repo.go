package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
)

// Store implements assessment.Repository and scoring.Repository on database/sql.
type Store struct {
	db *sql.DB
	d  Dialect
}

func NewStore(db *sql.DB, d Dialect) *Store {
	return &Store{db: db, d: d}
}

// DB exposes the handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect reports the SQL flavour the store was opened with.
func (s *Store) Dialect() Dialect { return s.d }

const companyCols = `id, name, company_type, annual_revenue, employee_count, naics_codes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*domain.Company, error) {
	var c domain.Company
	var typ string
	if err := row.Scan(&c.ID, &c.Name, &typ, &c.AnnualRevenue, &c.EmployeeCount, &c.NAICSCodes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Type = domain.CompanyType(typ)
	return &c, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	return err
}

// GetCompany by ID
func (s *Store) GetCompany(ctx context.Context, id domain.CompanyID) (*domain.Company, error) {
	q := s.d.rebind(`SELECT ` + companyCols + ` FROM companies WHERE id=?`)
	c, err := scanCompany(s.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("company %d", id))
	}
	return c, nil
}

// FindCompanyByName matches the exact stored name.
func (s *Store) FindCompanyByName(ctx context.Context, name string) (*domain.Company, error) {
	q := s.d.rebind(`SELECT ` + companyCols + ` FROM companies WHERE name=?`)
	c, err := scanCompany(s.db.QueryRowContext(ctx, q, name))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("company %q", name))
	}
	return c, nil
}

// ListCompanies ordered by name
func (s *Store) ListCompanies(ctx context.Context) ([]*domain.Company, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+companyCols+` FROM companies ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ReplaceCompany upserts the company by name and swaps its questionnaire.
func (s *Store) ReplaceCompany(ctx context.Context, c *domain.Company, answers []domain.Answer, plans []domain.GetWellPlan) (domain.CompanyID, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	var id int64
	err = tx.QueryRowContext(ctx, s.d.rebind(`SELECT id FROM companies WHERE name=?`), c.Name).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id, err = s.d.insertID(ctx, tx, s.d.rebind(`
INSERT INTO companies (name, company_type, annual_revenue, employee_count, naics_codes, created_at, updated_at)
VALUES (?,?,?,?,?,?,?)`),
			c.Name, string(c.Type), c.AnnualRevenue, c.EmployeeCount, c.NAICSCodes, now, now)
		if err != nil {
			return 0, fmt.Errorf("insert company: %w", err)
		}
	case err != nil:
		return 0, err
	default:
		if _, err := tx.ExecContext(ctx, s.d.rebind(`
UPDATE companies SET company_type=?, annual_revenue=?, employee_count=?, naics_codes=?, updated_at=?
WHERE id=?`),
			string(c.Type), c.AnnualRevenue, c.EmployeeCount, c.NAICSCodes, now, id); err != nil {
			return 0, fmt.Errorf("update company: %w", err)
		}
		for _, table := range []string{"answers", "section_scores", "getwell_plans"} {
			if _, err := tx.ExecContext(ctx, s.d.rebind(`DELETE FROM `+table+` WHERE company_id=?`), id); err != nil {
				return 0, fmt.Errorf("clear %s: %w", table, err)
			}
		}
	}

	insAnswer, err := tx.PrepareContext(ctx, s.d.rebind(`
INSERT INTO answers (company_id, section, section_title, question, answer, position, updated_at)
VALUES (?,?,?,?,?,?,?)`))
	if err != nil {
		return 0, err
	}
	defer insAnswer.Close()
	for i, a := range answers {
		pos := a.Position
		if pos == 0 {
			pos = i + 1
		}
		if _, err := insAnswer.ExecContext(ctx, id, int(a.Section), a.SectionTitle, a.Question, a.Answer, pos, now); err != nil {
			return 0, fmt.Errorf("insert answer %d: %w", pos, err)
		}
	}

	for _, p := range plans {
		if _, err := tx.ExecContext(ctx, s.d.rebind(`
INSERT INTO getwell_plans (company_id, section, plan_text, updated_at) VALUES (?,?,?,?)`+
			s.d.upsert([]string{"company_id", "section"}, []string{"plan_text", "updated_at"})),
			id, int(p.Section), p.Text, now); err != nil {
			return 0, fmt.Errorf("insert plan: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	c.ID = domain.CompanyID(id)
	return c.ID, nil
}

const answerCols = `id, company_id, section, section_title, question, answer, position, updated_at`

func scanAnswer(row rowScanner) (domain.Answer, error) {
	var a domain.Answer
	var section int
	err := row.Scan(&a.ID, &a.CompanyID, &section, &a.SectionTitle, &a.Question, &a.Answer, &a.Position, &a.UpdatedAt)
	a.Section = domain.Section(section)
	return a, err
}

// Answers in upload order
func (s *Store) Answers(ctx context.Context, id domain.CompanyID, section domain.Section) ([]domain.Answer, error) {
	q := `SELECT ` + answerCols + ` FROM answers WHERE company_id=?`
	args := []any{id}
	if section != 0 {
		q += ` AND section=?`
		args = append(args, int(section))
	}
	q += ` ORDER BY position, id`
	rows, err := s.db.QueryContext(ctx, s.d.rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) CountAnswers(ctx context.Context, id domain.CompanyID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.d.rebind(`SELECT COUNT(*) FROM answers WHERE company_id=?`), id).Scan(&n)
	return n, err
}

func (s *Store) GetAnswer(ctx context.Context, id domain.AnswerID) (*domain.Answer, error) {
	a, err := scanAnswer(s.db.QueryRowContext(ctx, s.d.rebind(`SELECT `+answerCols+` FROM answers WHERE id=?`), id))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("answer %d", id))
	}
	return &a, nil
}

// UpdateAnswers writes edits and marks the touched sections' scores stale.
func (s *Store) UpdateAnswers(ctx context.Context, updates []domain.AnswerUpdate) ([]domain.Answer, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	type key struct {
		company domain.CompanyID
		section domain.Section
	}
	touched := map[key]bool{}
	now := time.Now().UTC()
	for _, u := range updates {
		var k key
		var section int
		err := tx.QueryRowContext(ctx, s.d.rebind(`SELECT company_id, section FROM answers WHERE id=?`), u.ID).
			Scan(&k.company, &section)
		if err != nil {
			return nil, notFound(err, fmt.Sprintf("answer %d", u.ID))
		}
		k.section = domain.Section(section)
		if _, err := tx.ExecContext(ctx, s.d.rebind(`UPDATE answers SET answer=?, updated_at=? WHERE id=?`), u.Answer, now, u.ID); err != nil {
			return nil, fmt.Errorf("update answer %d: %w", u.ID, err)
		}
		touched[k] = true
	}
	for k := range touched {
		if _, err := tx.ExecContext(ctx, s.d.rebind(`UPDATE section_scores SET stale=? WHERE company_id=? AND section=?`),
			true, k.company, int(k.section)); err != nil {
			return nil, fmt.Errorf("mark section %d stale: %w", k.section, err)
		}
	}

	out := make([]domain.Answer, 0, len(updates))
	for _, u := range updates {
		a, err := scanAnswer(tx.QueryRowContext(ctx, s.d.rebind(`SELECT `+answerCols+` FROM answers WHERE id=?`), u.ID))
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, tx.Commit()
}

// Scores keyed by section
func (s *Store) Scores(ctx context.Context, id domain.CompanyID) (map[domain.Section]domain.SectionScore, error) {
	rows, err := s.db.QueryContext(ctx, s.d.rebind(`
SELECT company_id, section, score, stale, rationale, scored_at
FROM section_scores WHERE company_id=?`), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[domain.Section]domain.SectionScore)
	for rows.Next() {
		var sc domain.SectionScore
		var section int
		if err := rows.Scan(&sc.CompanyID, &section, &sc.Value, &sc.Stale, &sc.Rationale, &sc.ScoredAt); err != nil {
			return nil, err
		}
		sc.Section = domain.Section(section)
		out[sc.Section] = sc
	}
	return out, rows.Err()
}

// SaveScore insert/update a section score
func (s *Store) SaveScore(ctx context.Context, sc domain.SectionScore) error {
	scored := sc.ScoredAt
	if scored.IsZero() {
		scored = time.Now().UTC()
	}
	q := s.d.rebind(`
INSERT INTO section_scores (company_id, section, score, stale, rationale, scored_at)
VALUES (?,?,?,?,?,?)` + s.d.upsert([]string{"company_id", "section"}, []string{"score", "stale", "rationale", "scored_at"}))
	_, err := s.db.ExecContext(ctx, q, sc.CompanyID, int(sc.Section), sc.Value, sc.Stale, sc.Rationale, scored)
	return err
}

func (s *Store) Plans(ctx context.Context, id domain.CompanyID) ([]domain.GetWellPlan, error) {
	rows, err := s.db.QueryContext(ctx, s.d.rebind(`
SELECT company_id, section, plan_text, updated_at
FROM getwell_plans WHERE company_id=? ORDER BY section`), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GetWellPlan
	for rows.Next() {
		var p domain.GetWellPlan
		var section int
		if err := rows.Scan(&p.CompanyID, &section, &p.Text, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Section = domain.Section(section)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) SavePlan(ctx context.Context, p domain.GetWellPlan) error {
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	q := s.d.rebind(`
INSERT INTO getwell_plans (company_id, section, plan_text, updated_at)
VALUES (?,?,?,?)` + s.d.upsert([]string{"company_id", "section"}, []string{"plan_text", "updated_at"}))
	_, err := s.db.ExecContext(ctx, q, p.CompanyID, int(p.Section), p.Text, updated)
	return err
}
