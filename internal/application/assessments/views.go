package assessments

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	domain "github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
	"github.com/bryanwahyu/ai-readiness/internal/report"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderMarkdown converts plan markdown to HTML; raw HTML in the input is dropped.
func RenderMarkdown(text string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return "<pre>" + html.EscapeString(text) + "</pre>"
	}
	return buf.String()
}

// DashboardRow is one company on the dashboard
type DashboardRow struct {
	ID            domain.CompanyID   `json:"id"`
	Name          string             `json:"name"`
	Type          domain.CompanyType `json:"company_type"`
	AnnualRevenue string             `json:"annual_revenue,omitempty"`
	EmployeeCount string             `json:"employee_count,omitempty"`
	Revenue       domain.Quantity    `json:"revenue"`
	Employees     domain.Quantity    `json:"employees"`
	Overall       domain.Overall     `json:"overall"`
	OverallText   string             `json:"overall_text"`
	Color         string             `json:"color"`
	AnswerCount   int                `json:"answer_count"`
}

// Dashboard lists every company with its overall score.
func (s *Service) Dashboard(ctx context.Context) ([]DashboardRow, error) {
	companies, err := s.Repo.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]DashboardRow, 0, len(companies))
	for _, c := range companies {
		scores, err := s.Repo.Scores(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		n, err := s.Repo.CountAnswers(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		overall := domain.Aggregate(scores)
		rows = append(rows, DashboardRow{
			ID:            c.ID,
			Name:          c.Name,
			Type:          c.Type,
			AnnualRevenue: c.AnnualRevenue,
			EmployeeCount: c.EmployeeCount,
			Revenue:       c.Revenue(),
			Employees:     c.Employees(),
			Overall:       overall,
			OverallText:   overall.String(),
			Color:         domain.Color(overall.Value, overall.Scored),
			AnswerCount:   n,
		})
	}
	return rows, nil
}

// PlanView is a get-well plan ready for display
type PlanView struct {
	Section   domain.Section `json:"section"`
	Title     string         `json:"title"`
	Markdown  string         `json:"markdown"`
	HTML      string         `json:"html"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// SectionView is one section of the company detail page
type SectionView struct {
	Section   domain.Section  `json:"section"`
	Title     string          `json:"title"`
	Scorable  bool            `json:"scorable"`
	Score     *int            `json:"score"`
	Stale     bool            `json:"stale"`
	Color     string          `json:"color"`
	Rationale string          `json:"rationale,omitempty"`
	ScoredAt  *time.Time      `json:"scored_at,omitempty"`
	Answers   []domain.Answer `json:"answers"`
	Plan      *PlanView       `json:"plan,omitempty"`
}

// CompanyDetail is the full view of one company
type CompanyDetail struct {
	Company      *domain.Company `json:"company"`
	Sections     []SectionView   `json:"sections"`
	Overall      domain.Overall  `json:"overall"`
	OverallText  string          `json:"overall_text"`
	OverallColor string          `json:"overall_color"`
}

// Detail builds the company page: six sections with answers, scores and plans.
func (s *Service) Detail(ctx context.Context, id domain.CompanyID) (*CompanyDetail, error) {
	c, err := s.Repo.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	answers, err := s.Repo.Answers(ctx, id, 0)
	if err != nil {
		return nil, err
	}
	scores, err := s.Repo.Scores(ctx, id)
	if err != nil {
		return nil, err
	}
	plans, err := s.Repo.Plans(ctx, id)
	if err != nil {
		return nil, err
	}

	bySection := make(map[domain.Section][]domain.Answer)
	for _, a := range answers {
		bySection[a.Section] = append(bySection[a.Section], a)
	}
	planBySection := make(map[domain.Section]domain.GetWellPlan)
	for _, p := range plans {
		planBySection[p.Section] = p
	}

	overall := domain.Aggregate(scores)
	d := &CompanyDetail{
		Company:      c,
		Overall:      overall,
		OverallText:  overall.String(),
		OverallColor: domain.Color(overall.Value, overall.Scored),
	}
	for _, section := range domain.AllSections {
		v := SectionView{
			Section:  section,
			Title:    section.Title(c.Type),
			Scorable: section.Scored(),
			Answers:  bySection[section],
			Color:    domain.Color(0, false),
		}
		if v.Answers == nil {
			v.Answers = []domain.Answer{}
		}
		if sc, ok := scores[section]; ok && section.Scored() && sc.Scored() {
			value, at := sc.Value, sc.ScoredAt
			v.Score = &value
			v.ScoredAt = &at
			v.Stale = sc.Stale
			v.Rationale = sc.Rationale
			v.Color = domain.Color(float64(sc.Value), true)
		}
		if p, ok := planBySection[section]; ok {
			v.Plan = planView(p, v.Title)
		}
		d.Sections = append(d.Sections, v)
	}
	return d, nil
}

func planView(p domain.GetWellPlan, title string) *PlanView {
	return &PlanView{
		Section:   p.Section,
		Title:     title,
		Markdown:  p.Text,
		HTML:      RenderMarkdown(p.Text),
		UpdatedAt: p.UpdatedAt,
	}
}

// PlanEntry pairs a plan with its section's current score
type PlanEntry struct {
	PlanView
	Score *int   `json:"score"`
	Color string `json:"color"`
	Stale bool   `json:"stale"`
}

// PlansView is the get-well plans page of one company
type PlansView struct {
	Company      *domain.Company `json:"company"`
	Plans        []PlanEntry     `json:"plans"`
	Overall      domain.Overall  `json:"overall"`
	OverallText  string          `json:"overall_text"`
	OverallColor string          `json:"overall_color"`
}

// GetWellPlans lists the stored plans with the current section scores.
// Section 6 plans always show as unscored.
func (s *Service) GetWellPlans(ctx context.Context, id domain.CompanyID) (*PlansView, error) {
	d, err := s.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	v := &PlansView{
		Company:      d.Company,
		Plans:        []PlanEntry{},
		Overall:      d.Overall,
		OverallText:  d.OverallText,
		OverallColor: d.OverallColor,
	}
	for _, sec := range d.Sections {
		if sec.Plan == nil {
			continue
		}
		v.Plans = append(v.Plans, PlanEntry{PlanView: *sec.Plan, Score: sec.Score, Color: sec.Color, Stale: sec.Stale})
	}
	return v, nil
}

// Report formats
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// Document is a rendered report ready to download
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
	ArchiveURL  string
}

// Report renders the company report and archives it when storage is configured.
func (s *Service) Report(ctx context.Context, id domain.CompanyID, format string) (*Document, error) {
	d, err := s.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	data := reportData(d, s.clock().Now())

	doc := &Document{}
	switch format {
	case "", FormatPDF:
		doc.Data, err = report.PDF(data)
		doc.ContentType = "application/pdf"
		doc.Filename = report.Filename(d.Company.Name, data.GeneratedAt, FormatPDF)
	case FormatXLSX:
		doc.Data, err = report.Workbook(data)
		doc.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		doc.Filename = report.Filename(d.Company.Name, data.GeneratedAt, FormatXLSX)
	default:
		return nil, fmt.Errorf("%w: unknown report format %q", domain.ErrInvalidRequest, format)
	}
	if err != nil {
		return nil, err
	}

	if s.Artifacts != nil {
		key := fmt.Sprintf("reports/%d/%s-%s", id, uuid.NewString(), doc.Filename)
		if url, err := s.Artifacts.Put(ctx, key, doc.ContentType, doc.Data); err != nil {
			s.log().Warn("archive report", zap.Int64("company_id", int64(id)), zap.Error(err))
		} else {
			doc.ArchiveURL = url
		}
	}
	return doc, nil
}

func reportData(d *CompanyDetail, now time.Time) report.Data {
	out := report.Data{Company: *d.Company, Overall: d.Overall, GeneratedAt: now}
	for _, sec := range d.Sections {
		rs := report.Section{Number: sec.Section, Title: sec.Title, Stale: sec.Stale}
		if sec.Score != nil {
			rs.Score, rs.Scored = *sec.Score, true
		}
		for _, a := range sec.Answers {
			if !isPlanQuestion(a.Question) {
				rs.Answers = append(rs.Answers, a)
			}
		}
		out.Sections = append(out.Sections, rs)
		if sec.Plan != nil {
			out.Plans = append(out.Plans, report.Plan{Section: sec.Section, Title: sec.Title, Text: sec.Plan.Markdown})
		}
	}
	return out
}
