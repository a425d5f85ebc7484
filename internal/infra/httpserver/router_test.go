package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appassess "github.com/bryanwahyu/ai-readiness/internal/application/assessments"
	"github.com/bryanwahyu/ai-readiness/internal/domain/ai"
	domain "github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
	"github.com/bryanwahyu/ai-readiness/internal/infra/ai/prompt"
	"github.com/bryanwahyu/ai-readiness/internal/infra/db/migrations"
	"github.com/bryanwahyu/ai-readiness/internal/infra/db/sqlstore"
	"github.com/bryanwahyu/ai-readiness/internal/middleware"
)

type stubAI struct {
	reply string
	err   error
}

func (s *stubAI) Name() string { return "stub" }

func (s *stubAI) Complete(_ context.Context, req ai.Request) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if req.System == prompt.PlanSystemPrompt {
		return "## Priority Recommendations\n- Stand up an AI council", nil
	}
	return s.reply, nil
}

const uploadCSV = "Section,Question,Answer\n" +
	"Section 1: Company Profile & Strategic Alignment,Company Name,Initech\n" +
	"Section 1: Company Profile & Strategic Alignment,Company Type,Government\n" +
	"Section 2: AI Capabilities & Technical Maturity,Do you build models?,Some\n" +
	"Section 3: Government AI Integration & Contract Performance,AI contracts?,Two\n" +
	"Section 4: Partnerships,Partners?,AWS\n" +
	"Section 5: Talent,AI staff?,Four\n" +
	"Section 6: Future Readiness & Differentiators,Vision?,Lead\n"

type testServer struct {
	h     http.Handler
	ai    *stubAI
	store *sqlstore.Store
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "http.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sqlstore.Connect(ctx, sqlstore.SQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Up(db, "sqlite"))

	store := sqlstore.NewStore(db, sqlstore.SQLite)
	fake := &stubAI{reply: `{"score": 6, "justification": "steady"}`}
	svc := &appassess.Service{
		Repo:    store,
		RunLog:  store.Runs(),
		AI:      fake,
		Prompts: prompt.DefaultResolver(),
	}
	return &testServer{h: NewRouter(svc, opts), ai: fake, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body []byte, contentType string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)
	return rec
}

func multipartUpload(t *testing.T, filename, content string, confirmed bool) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	if confirmed {
		require.NoError(t, w.WriteField("confirmed", "true"))
	}
	require.NoError(t, w.Close())
	return buf.Bytes(), w.FormDataContentType()
}

func (s *testServer) upload(t *testing.T, confirmed bool) *httptest.ResponseRecorder {
	body, ct := multipartUpload(t, "initech.csv", uploadCSV, confirmed)
	return s.do(t, http.MethodPost, "/upload_csv", body, ct)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestUploadFlow(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := s.upload(t, false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res appassess.ImportResult
	decode(t, rec, &res)
	assert.Equal(t, "Initech", res.CompanyName)
	require.NotNil(t, res.Scoring)
	assert.Equal(t, 5, res.Scoring.Scored)
	assert.Equal(t, 6.0, res.Scoring.Overall.Value)

	// same company again needs confirmation
	rec = s.upload(t, false)
	require.Equal(t, http.StatusConflict, rec.Code)
	var conflict map[string]any
	decode(t, rec, &conflict)
	assert.Equal(t, "company_exists", conflict["error"])
	assert.Equal(t, "Initech", conflict["company_name"])
	assert.Equal(t, true, conflict["requires_confirmation"])
	assert.EqualValues(t, res.CompanyID, conflict["company_id"])

	// an unconfirmed upload with different answers stores nothing
	scores, err := s.store.Scores(context.Background(), res.CompanyID)
	require.NoError(t, err)
	body, ct := multipartUpload(t, "initech.csv", strings.Replace(uploadCSV, "AWS", "Azure", 1), false)
	rec = s.do(t, http.MethodPost, "/upload_csv", body, ct)
	require.Equal(t, http.StatusConflict, rec.Code)
	answers, err := s.store.Answers(context.Background(), res.CompanyID, domain.SectionPartnerships)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "AWS", answers[0].Answer)
	after, err := s.store.Scores(context.Background(), res.CompanyID)
	require.NoError(t, err)
	assert.Equal(t, scores, after)

	rec = s.upload(t, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var replaced appassess.ImportResult
	decode(t, rec, &replaced)
	assert.True(t, replaced.Replaced)
	assert.Equal(t, res.CompanyID, replaced.CompanyID)

	rec = s.do(t, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var dash struct {
		Companies []appassess.DashboardRow `json:"companies"`
	}
	decode(t, rec, &dash)
	require.Len(t, dash.Companies, 1)
	assert.Equal(t, "6.0", dash.Companies[0].OverallText)
}

func TestUploadRejectsBadFiles(t *testing.T) {
	s := newTestServer(t, Options{})

	body, ct := multipartUpload(t, "notes.txt", uploadCSV, false)
	rec := s.do(t, http.MethodPost, "/upload_csv", body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ingestion_error")

	body, ct = multipartUpload(t, "bad.csv", "Section,Question\nSection 1,Name\n", false)
	rec = s.do(t, http.MethodPost, "/upload_csv", body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing column")

	rec = s.do(t, http.MethodPost, "/upload_csv", []byte("plain"), "text/plain")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadTooLarge(t *testing.T) {
	s := newTestServer(t, Options{MaxUploadBytes: 256})
	body, ct := multipartUpload(t, "big.csv", uploadCSV+strings.Repeat("Section 2,Q,A\n", 100), false)
	rec := s.do(t, http.MethodPost, "/upload_csv", body, ct)
	// the multipart reader may surface the limit as a parse error
	assert.Contains(t, []int{http.StatusRequestEntityTooLarge, http.StatusBadRequest}, rec.Code)
}

func companyID(t *testing.T, s *testServer) domain.CompanyID {
	t.Helper()
	rec := s.upload(t, false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res appassess.ImportResult
	decode(t, rec, &res)
	return res.CompanyID
}

func TestScoreEndpoints(t *testing.T) {
	s := newTestServer(t, Options{})
	id := companyID(t, s)

	rec := s.do(t, http.MethodPost, fmt.Sprintf("/api/score/%d/6", id), nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_section")

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/score/%d/9", id), nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.ai.reply = "8"
	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/score/%d/2", id), nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var scored struct {
		Score       domain.SectionScore `json:"score"`
		Color       string              `json:"color"`
		OverallText string              `json:"overall_text"`
	}
	decode(t, rec, &scored)
	assert.Equal(t, 8, scored.Score.Value)
	assert.Equal(t, "green", scored.Color)
	assert.Equal(t, "6.4", scored.OverallText)

	s.ai.err = errors.New("upstream unavailable")
	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/score/%d/2", id), nil, "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "scoring_error")

	s.ai.err = fmt.Errorf("openai: %w", ai.ErrQuotaExceeded)
	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/score/%d/2", id), nil, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "quota_exceeded")

	s.ai.err = nil
	rec = s.do(t, http.MethodPost, fmt.Sprintf("/calculate_scores/%d", id), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var calc appassess.CalculateResult
	decode(t, rec, &calc)
	assert.Equal(t, 5, calc.Scored)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/getwell_plan/%d/4", id), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Stand up an AI council")

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/runs/%d?limit=3", id), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var runs struct {
		Runs []map[string]any `json:"runs"`
	}
	decode(t, rec, &runs)
	assert.Len(t, runs.Runs, 3)
}

func TestUpdateAssessment(t *testing.T) {
	s := newTestServer(t, Options{})
	id := companyID(t, s)
	answers, err := s.store.Answers(context.Background(), id, domain.SectionTalent)
	require.NoError(t, err)
	require.Len(t, answers, 1)

	s.ai.reply = "9"
	body := fmt.Sprintf(`{"assessment_id": %d, "answer": "Twelve data scientists"}`, answers[0].ID)
	rec := s.do(t, http.MethodPost, "/api/update_assessment", []byte(body), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res appassess.UpdateResult
	decode(t, rec, &res)
	require.Len(t, res.Sections, 1)
	assert.Equal(t, 9, res.Sections[0].Score)
	assert.Equal(t, "Twelve data scientists", res.Answers[0].Answer)

	rec = s.do(t, http.MethodPost, "/api/update_assessment", []byte(`{"answer": "x"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/update_assessment", []byte(`{"updates": [{"assessment_id": 99999, "answer": "x"}]}`), "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/update_assessment", []byte(`not json`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReadEndpoints(t *testing.T) {
	s := newTestServer(t, Options{})
	id := companyID(t, s)

	rec := s.do(t, http.MethodGet, fmt.Sprintf("/company/%d", id), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail appassess.CompanyDetail
	decode(t, rec, &detail)
	require.Len(t, detail.Sections, 6)
	assert.Nil(t, detail.Sections[5].Score)
	assert.Equal(t, "Section 3: Government AI Integration & Contract Performance", detail.Sections[2].Title)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/getwell_plans/%d", id), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var plans appassess.PlansView
	decode(t, rec, &plans)
	require.Len(t, plans.Plans, 5)
	assert.Contains(t, plans.Plans[0].HTML, "<h2>Priority Recommendations</h2>")

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/download_report/%d", id), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "report_Initech_")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/download_report/%d?format=xlsx", id), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/download_report/%d?format=doc", id), nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/company/4040", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var errBody middleware.ErrorBody
	decode(t, rec, &errBody)
	assert.Equal(t, "not_found", errBody.Error)

	rec = s.do(t, http.MethodGet, "/company/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/download_template", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Section,Question,Answer\n"))

	rec = s.do(t, http.MethodGet, "/upload_csv", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"file"`)

	rec = s.do(t, http.MethodGet, "/live", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthAndRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newTestServer(t, Options{
		APIKeys:     map[string]string{"ops": "secret"},
		RateLimiter: middleware.NewRateLimiter(ctx, 1, 1),
	})

	rec := s.do(t, http.MethodPost, "/calculate_scores/1", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// reads stay open
	rec = s.do(t, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/calculate_scores/1", nil, "", "X-API-Key", "secret")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/calculate_scores/1", nil, "", "X-API-Key", "secret")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   string
	}{
		{fmt.Errorf("%w: section 2: %w", domain.ErrScoring, ai.ErrQuotaExceeded), http.StatusTooManyRequests, "quota_exceeded"},
		{domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{domain.ErrCompanyExists, http.StatusConflict, "company_exists"},
		{domain.ErrInvalidSection, http.StatusBadRequest, "invalid_section"},
		{domain.ErrIngestion, http.StatusBadRequest, "ingestion_error"},
		{domain.ErrInvalidRequest, http.StatusBadRequest, "invalid_request"},
		{&http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, "upload_too_large"},
		{domain.ErrConfiguration, http.StatusInternalServerError, "configuration_error"},
		{domain.ErrScoring, http.StatusBadGateway, "scoring_error"},
		{errors.New("disk full"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		status, kind := classify(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.kind, kind, tt.err.Error())
	}
}
