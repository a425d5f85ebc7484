package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appassess "github.com/bryanwahyu/ai-readiness/internal/application/assessments"
	domai "github.com/bryanwahyu/ai-readiness/internal/domain/ai"
	domain "github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
	"github.com/bryanwahyu/ai-readiness/internal/middleware"
	"github.com/bryanwahyu/ai-readiness/internal/report"
)

// Options configure the HTTP surface
type Options struct {
	MaxUploadBytes int64
	// APIKeys maps client name to key; empty leaves mutating routes open.
	APIKeys     map[string]string
	CORSOrigins []string
	// RateLimiter guards the routes that call the scoring provider; nil disables it.
	RateLimiter *middleware.RateLimiter
	// Checkers feed /health; ReadyCheckers gate /ready.
	Checkers      map[string]middleware.HealthChecker
	ReadyCheckers map[string]middleware.HealthChecker
	Logger        *zap.Logger
}

type Router struct {
	svc  *appassess.Service
	opts Options
	log  *zap.Logger
}

func NewRouter(svc *appassess.Service, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 16 << 20
	}
	r := &Router{svc: svc, opts: opts, log: opts.Logger}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.Logging(r.log))
	mux.Use(middleware.MetricsMiddleware)
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders: []string{"Content-Disposition", "X-Archive-URL"},
		MaxAge:         300,
	}))

	mux.Get("/health", middleware.HealthHandler(opts.Checkers))
	mux.Get("/ready", middleware.ReadinessHandler(opts.ReadyCheckers))
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Get("/", r.wrap(r.handleDashboard))
	mux.Get("/company/{id}", r.wrap(r.handleDetail))
	mux.Get("/getwell_plans/{id}", r.wrap(r.handlePlans))
	mux.Get("/download_report/{id}", r.wrap(r.handleReport))
	mux.Get("/download_template", r.wrap(r.handleTemplate))
	mux.Get("/upload_csv", r.wrap(r.handleUploadInfo))
	mux.Get("/api/runs/{id}", r.wrap(r.handleRuns))

	mux.Group(func(rt chi.Router) {
		rt.Use(middleware.APIKeyAuth(opts.APIKeys))
		if opts.RateLimiter != nil {
			rt.Use(opts.RateLimiter.Middleware)
		}
		rt.Post("/upload_csv", r.wrap(r.handleUpload))
		rt.Post("/api/update_assessment", r.wrap(r.handleUpdate))
		rt.Post("/calculate_scores/{id}", r.wrap(r.handleCalculate))
		rt.Post("/api/score/{id}/{section}", r.wrap(r.handleScore))
		rt.Post("/api/getwell_plan/{id}/{section}", r.wrap(r.handleGeneratePlan))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status, kind := classify(err)
			msg := err.Error()
			if status >= 500 {
				r.log.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
				if kind == "internal_error" {
					msg = "internal server error"
				}
			}
			middleware.WriteError(w, status, kind, msg)
		}
	}
}

// classify maps an error to its status code and kind. Quota comes first
// since quota failures also wrap ErrScoring.
func classify(err error) (int, string) {
	var tooBig *http.MaxBytesError
	switch {
	case errors.Is(err, domai.ErrQuotaExceeded):
		return http.StatusTooManyRequests, "quota_exceeded"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrCompanyExists):
		return http.StatusConflict, "company_exists"
	case errors.Is(err, domain.ErrInvalidSection):
		return http.StatusBadRequest, "invalid_section"
	case errors.Is(err, domain.ErrIngestion):
		return http.StatusBadRequest, "ingestion_error"
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge, "upload_too_large"
	case errors.Is(err, domain.ErrConfiguration):
		return http.StatusInternalServerError, "configuration_error"
	case errors.Is(err, domain.ErrScoring):
		return http.StatusBadGateway, "scoring_error"
	}
	return http.StatusInternalServerError, "internal_error"
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func companyParam(req *http.Request) (domain.CompanyID, error) {
	return middleware.ParseCompanyID(chi.URLParam(req, "id"))
}

// GET /
func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) error {
	rows, err := r.svc.Dashboard(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"companies": rows})
}

// GET /company/{id}
func (r *Router) handleDetail(w http.ResponseWriter, req *http.Request) error {
	id, err := companyParam(req)
	if err != nil {
		return err
	}
	d, err := r.svc.Detail(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, d)
}

// GET /getwell_plans/{id}
func (r *Router) handlePlans(w http.ResponseWriter, req *http.Request) error {
	id, err := companyParam(req)
	if err != nil {
		return err
	}
	v, err := r.svc.GetWellPlans(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, v)
}

// POST /api/update_assessment
// Body: {"assessment_id": 12, "answer": "..."} or {"updates": [{...}, ...]}
func (r *Router) handleUpdate(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		AssessmentID *int64                `json:"assessment_id"`
		Answer       *string               `json:"answer"`
		Updates      []domain.AnswerUpdate `json:"updates"`
	}
	dec := json.NewDecoder(io.LimitReader(req.Body, 1<<20))
	if err := dec.Decode(&body); err != nil {
		return fmt.Errorf("%w: decode body: %v", domain.ErrInvalidRequest, err)
	}
	updates := body.Updates
	if len(updates) == 0 {
		if body.AssessmentID == nil || body.Answer == nil {
			return fmt.Errorf("%w: assessment_id and answer are required", domain.ErrInvalidRequest)
		}
		updates = []domain.AnswerUpdate{{ID: domain.AnswerID(*body.AssessmentID), Answer: *body.Answer}}
	}
	for i := range updates {
		if updates[i].ID <= 0 {
			return fmt.Errorf("%w: invalid assessment_id %d", domain.ErrInvalidRequest, updates[i].ID)
		}
		updates[i].Answer = middleware.SanitizeString(updates[i].Answer)
	}

	res, err := r.svc.UpdateAnswers(req.Context(), updates)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// GET /upload_csv
func (r *Router) handleUploadInfo(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]any{
		"columns":       []string{"Section", "Question", "Answer"},
		"accepted":      []string{".csv", ".xlsx"},
		"field":         "file",
		"confirm_field": "confirmed",
		"max_bytes":     r.opts.MaxUploadBytes,
		"template":      "/download_template",
	})
}

// POST /upload_csv (multipart: file, confirmed=true)
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, r.opts.MaxUploadBytes)
	if err := req.ParseMultipartForm(r.opts.MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return err
		}
		return fmt.Errorf("%w: invalid multipart form: %v", domain.ErrIngestion, err)
	}
	defer req.MultipartForm.RemoveAll()

	file, hdr, err := req.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: no file selected", domain.ErrIngestion)
	}
	defer file.Close()
	if err := middleware.ValidateUploadName(hdr.Filename); err != nil {
		return err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("%w: read upload: %v", domain.ErrIngestion, err)
	}

	res, err := r.svc.Import(req.Context(), appassess.ImportCommand{
		Filename:  hdr.Filename,
		Data:      data,
		Confirmed: strings.EqualFold(req.FormValue("confirmed"), "true"),
	})
	if errors.Is(err, domain.ErrCompanyExists) {
		return writeJSON(w, http.StatusConflict, map[string]any{
			"error":                 "company_exists",
			"message":               fmt.Sprintf("%s already exists; resubmit with confirmed=true to replace its answers, scores and plans", res.CompanyName),
			"company_name":          res.CompanyName,
			"company_id":            res.CompanyID,
			"requires_confirmation": true,
		})
	}
	if err != nil {
		return err
	}
	middleware.IncrementUploads()
	return writeJSON(w, http.StatusCreated, res)
}

// GET /download_report/{id}?format=pdf|xlsx
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	id, err := companyParam(req)
	if err != nil {
		return err
	}
	format := strings.ToLower(req.URL.Query().Get("format"))
	doc, err := r.svc.Report(req.Context(), id, format)
	if err != nil {
		return err
	}
	middleware.IncrementReports()
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	if doc.ArchiveURL != "" {
		w.Header().Set("X-Archive-URL", doc.ArchiveURL)
	}
	_, err = w.Write(doc.Data)
	return err
}

// GET /download_template
func (r *Router) handleTemplate(w http.ResponseWriter, req *http.Request) error {
	data, err := report.TemplateCSV()
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=assessment_template.csv")
	_, err = w.Write(data)
	return err
}

// POST /calculate_scores/{id}
func (r *Router) handleCalculate(w http.ResponseWriter, req *http.Request) error {
	id, err := companyParam(req)
	if err != nil {
		return err
	}
	res, err := r.svc.CalculateAll(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// POST /api/score/{id}/{section}
func (r *Router) handleScore(w http.ResponseWriter, req *http.Request) error {
	id, err := companyParam(req)
	if err != nil {
		return err
	}
	section, err := middleware.ParseSectionParam(chi.URLParam(req, "section"))
	if err != nil {
		return err
	}
	sc, err := r.svc.Score(req.Context(), id, section)
	if err != nil {
		return err
	}
	overall, err := r.svc.Overall(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"score":         sc,
		"color":         domain.Color(float64(sc.Value), true),
		"overall":       overall,
		"overall_text":  overall.String(),
		"overall_color": domain.Color(overall.Value, overall.Scored),
	})
}

// POST /api/getwell_plan/{id}/{section}
func (r *Router) handleGeneratePlan(w http.ResponseWriter, req *http.Request) error {
	id, err := companyParam(req)
	if err != nil {
		return err
	}
	section, err := middleware.ParseSectionParam(chi.URLParam(req, "section"))
	if err != nil {
		return err
	}
	plan, err := r.svc.GeneratePlan(req.Context(), id, section)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"plan": plan,
		"html": appassess.RenderMarkdown(plan.Text),
	})
}

// GET /api/runs/{id}?limit=20
func (r *Router) handleRuns(w http.ResponseWriter, req *http.Request) error {
	id, err := companyParam(req)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	runs, err := r.svc.Runs(req.Context(), id, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}
