package assessments

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
	"github.com/bryanwahyu/ai-readiness/internal/ingest"
)

// ImportCommand carries one uploaded questionnaire
type ImportCommand struct {
	Filename  string
	Data      []byte
	Confirmed bool
	// SkipScoring stores the upload without calling the provider.
	SkipScoring bool
}

// ImportResult reports what an upload did
type ImportResult struct {
	CompanyID    domain.CompanyID `json:"company_id,omitempty"`
	CompanyName  string           `json:"company_name"`
	NameFromFile bool             `json:"name_from_filename"`
	Replaced     bool             `json:"replaced"`
	Answers      int              `json:"answers"`
	Plans        int              `json:"plans"`
	ArchiveURL   string           `json:"archive_url,omitempty"`
	Scoring      *CalculateResult `json:"scoring,omitempty"`
	Warnings     []string         `json:"warnings,omitempty"`
}

// Import parses and commits an upload, then scores every section.
// Scoring problems become warnings; the upload itself still succeeds.
// When the company exists and the command is not confirmed, the result
// names the company and the error wraps ErrCompanyExists.
func (s *Service) Import(ctx context.Context, cmd ImportCommand) (ImportResult, error) {
	parsed, err := ingest.ParseAssessment(cmd.Filename, bytes.NewReader(cmd.Data))
	if err != nil {
		return ImportResult{}, err
	}
	res := ImportResult{
		CompanyName:  parsed.Company.Name,
		NameFromFile: parsed.NameFromFile,
		Answers:      len(parsed.Answers),
		Plans:        len(parsed.Plans),
	}

	res.CompanyID, res.Replaced, err = s.Commit(ctx, parsed, cmd.Confirmed)
	if err != nil {
		return res, err
	}
	log := s.log().With(zap.Int64("company_id", int64(res.CompanyID)), zap.String("company", res.CompanyName))
	log.Info("questionnaire imported",
		zap.String("file", cmd.Filename), zap.Int("answers", res.Answers), zap.Bool("replaced", res.Replaced))

	if s.Artifacts != nil {
		key := fmt.Sprintf("uploads/%d/%s-%s", res.CompanyID, uuid.NewString(), path.Base(strings.ReplaceAll(cmd.Filename, `\`, "/")))
		url, err := s.Artifacts.Put(ctx, key, contentTypeOf(cmd.Filename), cmd.Data)
		if err != nil {
			log.Warn("archive upload", zap.Error(err))
			res.Warnings = append(res.Warnings, "upload was not archived: "+err.Error())
		} else {
			res.ArchiveURL = url
		}
	}

	if cmd.SkipScoring {
		return res, nil
	}
	calc, err := s.CalculateAll(ctx, res.CompanyID)
	if err != nil {
		res.Warnings = append(res.Warnings, "scores could not be calculated: "+err.Error())
		return res, nil
	}
	res.Scoring = &calc
	for _, r := range calc.Sections {
		if r.Error != "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("section %d: %s", int(r.Section), r.Error))
		}
	}
	return res, nil
}

// Commit writes a parsed questionnaire. An existing company with the same
// name is only replaced when confirmed; its answers, scores and plans go
// in the same transaction.
func (s *Service) Commit(ctx context.Context, p *ingest.Parsed, confirmed bool) (domain.CompanyID, bool, error) {
	existing, err := s.Repo.FindCompanyByName(ctx, p.Company.Name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		existing = nil
	case err != nil:
		return 0, false, err
	}
	if existing != nil && !confirmed {
		return existing.ID, false, fmt.Errorf("%w: %s", domain.ErrCompanyExists, p.Company.Name)
	}

	company := p.Company
	id, err := s.Repo.ReplaceCompany(ctx, &company, p.Answers, p.Plans)
	if err != nil {
		return 0, false, fmt.Errorf("store questionnaire: %w", err)
	}
	return id, existing != nil, nil
}

func contentTypeOf(filename string) string {
	if strings.EqualFold(path.Ext(filename), ".xlsx") {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}
