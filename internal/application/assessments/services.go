package assessments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/ai-readiness/internal/application"
	"github.com/bryanwahyu/ai-readiness/internal/domain/ai"
	domain "github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
	"github.com/bryanwahyu/ai-readiness/internal/domain/scoring"
	"github.com/bryanwahyu/ai-readiness/internal/infra/ai/prompt"
)

// Prompts resolves the scoring and get-well plan templates of a section
type Prompts interface {
	Resolve(s domain.Section, ct domain.CompanyType) (prompt.Template, error)
	ResolvePlan(s domain.Section, ct domain.CompanyType) (prompt.Template, error)
}

// Service implements the assessment use-cases. It holds no mutable state
// and is safe for concurrent use.
type Service struct {
	Repo      domain.Repository
	RunLog    scoring.Repository
	AI        ai.Client
	Prompts   Prompts
	Artifacts domain.ArtifactStore // optional
	Clock     application.Clock
	Logger    *zap.Logger

	// Parallelism bounds concurrent provider calls in CalculateAll.
	Parallelism int
	// OnScore, when set, observes every scoring attempt.
	OnScore func(section domain.Section, err error)
}

func (s *Service) clock() application.Clock {
	if s.Clock == nil {
		return application.SystemClock{}
	}
	return s.Clock
}

func (s *Service) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Service) parallelism() int {
	if s.Parallelism <= 0 {
		return 3
	}
	return s.Parallelism
}

//
// ==== SCORING ====
//

// Score asks the provider to rate one section and stores the result.
// On any failure the stored score is left as it was.
func (s *Service) Score(ctx context.Context, id domain.CompanyID, section domain.Section) (domain.SectionScore, error) {
	if err := domain.CheckScorable(section); err != nil {
		return domain.SectionScore{}, err
	}
	company, err := s.Repo.GetCompany(ctx, id)
	if err != nil {
		return domain.SectionScore{}, err
	}
	return s.scoreSection(ctx, company, section)
}

func (s *Service) scoreSection(ctx context.Context, c *domain.Company, section domain.Section) (sc domain.SectionScore, err error) {
	log := s.log().With(zap.Int64("company_id", int64(c.ID)), zap.Int("section", int(section)))
	defer func() {
		if s.OnScore != nil {
			s.OnScore(section, err)
		}
	}()

	run := &scoring.Run{CompanyID: c.ID, Section: section, Provider: s.AI.Name()}
	answers, err := s.Repo.Answers(ctx, c.ID, section)
	if err != nil {
		err = fmt.Errorf("load answers: %w", err)
		s.audit(ctx, run, err)
		return sc, err
	}
	tpl, err := s.Prompts.Resolve(section, c.Type)
	if err != nil {
		log.Error("no scoring template", zap.Error(err))
		s.audit(ctx, run, err)
		return sc, err
	}

	pairs := Pairs(answers)
	if len(pairs) == 0 {
		err = fmt.Errorf("%w: section %d has no answers to score", domain.ErrScoring, int(section))
		s.audit(ctx, run, err)
		return sc, err
	}

	start := s.clock().Now()
	text, err := s.AI.Complete(ctx, ai.Request{System: prompt.GetScoringSystemPrompt(), Prompt: tpl.Render(pairs)})
	run.DurationMS = s.clock().Now().Sub(start).Milliseconds()
	run.Response = text
	if err != nil {
		err = fmt.Errorf("%w: section %d: %w", domain.ErrScoring, int(section), err)
		log.Warn("scoring call failed", zap.Error(err))
		s.audit(ctx, run, err)
		return sc, err
	}

	reply, err := domain.ParseReply(text)
	if err != nil {
		log.Warn("unusable scoring reply", zap.Error(err), zap.String("reply", truncate(text, 200)))
		s.audit(ctx, run, err)
		return sc, err
	}

	sc = domain.SectionScore{
		CompanyID: c.ID,
		Section:   section,
		Value:     reply.Score,
		Rationale: reply.Rationale,
		ScoredAt:  s.clock().Now(),
	}
	if err = s.Repo.SaveScore(ctx, sc); err != nil {
		return domain.SectionScore{}, fmt.Errorf("save score: %w", err)
	}
	run.Score = reply.Score
	s.audit(ctx, run, nil)
	log.Info("section scored", zap.Int("score", sc.Value), zap.Int64("duration_ms", run.DurationMS))
	return sc, nil
}

// audit records the attempt; a failing audit write never fails the call.
func (s *Service) audit(ctx context.Context, run *scoring.Run, cause error) {
	if s.RunLog == nil {
		return
	}
	if cause != nil {
		run.Error = cause.Error()
	}
	run.CreatedAt = s.clock().Now()
	if err := s.RunLog.SaveRun(context.WithoutCancel(ctx), run); err != nil {
		s.log().Warn("save score run", zap.Error(err))
	}
}

// Pairs keeps the answered, non-plan rows of a section in prompt form.
func Pairs(answers []domain.Answer) []prompt.QA {
	out := make([]prompt.QA, 0, len(answers))
	for _, a := range answers {
		if !a.Answered() || isPlanQuestion(a.Question) {
			continue
		}
		out = append(out, prompt.QA{Question: a.Question, Answer: a.Answer})
	}
	return out
}

// GeneratePlan asks the provider for a get-well plan for a scored section.
func (s *Service) GeneratePlan(ctx context.Context, id domain.CompanyID, section domain.Section) (domain.GetWellPlan, error) {
	if err := domain.CheckScorable(section); err != nil {
		return domain.GetWellPlan{}, err
	}
	company, err := s.Repo.GetCompany(ctx, id)
	if err != nil {
		return domain.GetWellPlan{}, err
	}
	scores, err := s.Repo.Scores(ctx, id)
	if err != nil {
		return domain.GetWellPlan{}, err
	}
	sc, ok := scores[section]
	if !ok || !sc.Scored() {
		return domain.GetWellPlan{}, fmt.Errorf("%w: section %d has no score yet", domain.ErrInvalidSection, int(section))
	}
	return s.generatePlan(ctx, company, sc)
}

func (s *Service) generatePlan(ctx context.Context, c *domain.Company, sc domain.SectionScore) (domain.GetWellPlan, error) {
	tpl, err := s.Prompts.ResolvePlan(sc.Section, c.Type)
	if err != nil {
		return domain.GetWellPlan{}, err
	}
	answers, err := s.Repo.Answers(ctx, c.ID, sc.Section)
	if err != nil {
		return domain.GetWellPlan{}, err
	}
	text, err := s.AI.Complete(ctx, ai.Request{
		System: prompt.GetPlanSystemPrompt(),
		Prompt: tpl.RenderPlan(Pairs(answers), sc.Value, c.Type),
	})
	if err != nil {
		return domain.GetWellPlan{}, fmt.Errorf("%w: plan for section %d: %w", domain.ErrScoring, int(sc.Section), err)
	}
	plan := domain.GetWellPlan{CompanyID: c.ID, Section: sc.Section, Text: text, UpdatedAt: s.clock().Now()}
	if err := s.Repo.SavePlan(ctx, plan); err != nil {
		return domain.GetWellPlan{}, fmt.Errorf("save plan: %w", err)
	}
	return plan, nil
}

// Overall derives the company score from the stored section scores.
func (s *Service) Overall(ctx context.Context, id domain.CompanyID) (domain.Overall, error) {
	if _, err := s.Repo.GetCompany(ctx, id); err != nil {
		return domain.Overall{}, err
	}
	scores, err := s.Repo.Scores(ctx, id)
	if err != nil {
		return domain.Overall{}, err
	}
	return domain.Aggregate(scores), nil
}

// SectionResult is the outcome of scoring one section
type SectionResult struct {
	CompanyID domain.CompanyID `json:"company_id"`
	Section   domain.Section   `json:"section"`
	Score     int              `json:"score,omitempty"`
	Scored    bool             `json:"scored"`
	Plan      bool             `json:"plan_generated"`
	Error     string           `json:"error,omitempty"`
}

// CalculateResult summarises a bulk rescoring
type CalculateResult struct {
	CompanyID domain.CompanyID `json:"company_id"`
	Sections  []SectionResult  `json:"sections"`
	Scored    int              `json:"scored"`
	Overall   domain.Overall   `json:"overall"`
}

// CalculateAll scores sections 1..5 concurrently and regenerates the plan
// of every section that scored. One section failing does not stop the rest.
func (s *Service) CalculateAll(ctx context.Context, id domain.CompanyID) (CalculateResult, error) {
	company, err := s.Repo.GetCompany(ctx, id)
	if err != nil {
		return CalculateResult{}, err
	}

	results := make([]SectionResult, len(domain.ScoredSections))
	var g errgroup.Group
	g.SetLimit(s.parallelism())
	for i, section := range domain.ScoredSections {
		g.Go(func() error {
			results[i] = s.scoreAndPlan(ctx, company, section)
			return nil
		})
	}
	_ = g.Wait()

	out := CalculateResult{CompanyID: id, Sections: results}
	for _, r := range results {
		if r.Scored {
			out.Scored++
		}
	}
	if out.Overall, err = s.Overall(ctx, id); err != nil {
		return out, err
	}
	s.log().Info("bulk scoring finished",
		zap.Int64("company_id", int64(id)),
		zap.Int("scored", out.Scored),
		zap.Bool("overall_scored", out.Overall.Scored))
	return out, nil
}

func (s *Service) scoreAndPlan(ctx context.Context, c *domain.Company, section domain.Section) SectionResult {
	res := SectionResult{CompanyID: c.ID, Section: section}
	sc, err := s.scoreSection(ctx, c, section)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Score, res.Scored = sc.Value, true
	if _, err := s.generatePlan(ctx, c, sc); err != nil {
		s.log().Warn("plan generation failed",
			zap.Int64("company_id", int64(c.ID)), zap.Int("section", int(section)), zap.Error(err))
		return res
	}
	res.Plan = true
	return res
}

//
// ==== ANSWERS ====
//

// UpdateResult is returned after editing answers
type UpdateResult struct {
	Answers  []domain.Answer                     `json:"answers"`
	Sections []SectionResult                     `json:"sections"`
	Overall  map[domain.CompanyID]domain.Overall `json:"overall"`
}

// UpdateAnswers saves the edits, which marks the touched sections stale,
// then rescores each touched scorable section. A failed rescoring keeps
// the previous score and its stale flag; the edits stay saved.
func (s *Service) UpdateAnswers(ctx context.Context, updates []domain.AnswerUpdate) (UpdateResult, error) {
	if len(updates) == 0 {
		return UpdateResult{}, fmt.Errorf("%w: no updates given", domain.ErrInvalidRequest)
	}
	answers, err := s.Repo.UpdateAnswers(ctx, updates)
	if err != nil {
		return UpdateResult{}, err
	}

	type key struct {
		company domain.CompanyID
		section domain.Section
	}
	seen := map[key]bool{}
	var touched []key
	for _, a := range answers {
		k := key{a.CompanyID, a.Section}
		if !seen[k] {
			seen[k] = true
			touched = append(touched, k)
		}
	}

	out := UpdateResult{Answers: answers, Overall: map[domain.CompanyID]domain.Overall{}}
	companies := map[domain.CompanyID]*domain.Company{}
	for _, k := range touched {
		c, ok := companies[k.company]
		if !ok {
			if c, err = s.Repo.GetCompany(ctx, k.company); err != nil {
				return out, err
			}
			companies[k.company] = c
		}
		if !k.section.Scored() {
			continue
		}
		out.Sections = append(out.Sections, s.scoreAndPlan(ctx, c, k.section))
	}
	for id := range companies {
		if out.Overall[id], err = s.Overall(ctx, id); err != nil {
			return out, err
		}
	}
	return out, nil
}

// Runs lists the scoring audit log of a company, newest first.
func (s *Service) Runs(ctx context.Context, id domain.CompanyID, limit int) ([]*scoring.Run, error) {
	if _, err := s.Repo.GetCompany(ctx, id); err != nil {
		return nil, err
	}
	if s.RunLog == nil {
		return nil, errors.New("score run log not configured")
	}
	return s.RunLog.RunsByCompany(ctx, id, limit)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func isPlanQuestion(q string) bool {
	return strings.Contains(strings.ToLower(q), "get-well plan")
}
