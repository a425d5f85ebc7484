package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
)

type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time { return c.t }

func TestTokenBucket(t *testing.T) {
	clock := &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	tb := newTokenBucket(2, 0.5, clock.now)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
	assert.Equal(t, 2*time.Second, tb.RetryAfter())

	clock.t = clock.t.Add(time.Second)
	assert.False(t, tb.Allow())

	clock.t = clock.t.Add(time.Second)
	assert.True(t, tb.Allow())

	// refill never exceeds capacity
	clock.t = clock.t.Add(time.Hour)
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

func TestRateLimiterMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl := NewRateLimiter(ctx, 60, 2)

	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	call := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/calculate_scores/1", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1001").Code)
	rec := call("10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate_limited")

	// other clients have their own bucket
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:1000").Code)
}

func TestAPIKeyAuth(t *testing.T) {
	var client string
	h := APIKeyAuth(KeysFromList([]string{"alpha", " ", "beta"}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client = GetClientFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		value  string
		status int
		client string
	}{
		{"missing", "", "", http.StatusUnauthorized, ""},
		{"wrong key", "X-API-Key", "gamma", http.StatusUnauthorized, ""},
		{"header key", "X-API-Key", "alpha", http.StatusOK, "client-1"},
		{"bearer", "Authorization", "Bearer beta", http.StatusOK, "client-3"},
		{"empty bearer", "Authorization", "Bearer ", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client = ""
			req := httptest.NewRequest(http.MethodPost, "/upload_csv", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.client, client)
		})
	}

	// no keys configured leaves the route open
	open := APIKeyAuth(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	open.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidators(t *testing.T) {
	id, err := ParseCompanyID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, assessment.CompanyID(42), id)
	for _, bad := range []string{"", "0", "-3", "abc"} {
		_, err := ParseCompanyID(bad)
		assert.ErrorIs(t, err, assessment.ErrInvalidRequest, bad)
	}

	s, err := ParseSectionParam("6")
	require.NoError(t, err)
	assert.Equal(t, assessment.SectionFuture, s)
	_, err = ParseSectionParam("7")
	assert.ErrorIs(t, err, assessment.ErrInvalidSection)

	assert.NoError(t, ValidateUploadName("Acme.XLSX"))
	assert.ErrorIs(t, ValidateUploadName("acme.pdf"), assessment.ErrIngestion)
	assert.ErrorIs(t, ValidateUploadName(""), assessment.ErrIngestion)

	assert.Equal(t, "a\tb\nc", SanitizeString(" a\tb\nc\x00\x07 "))
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 100, ValidateLimit(500))
	assert.Equal(t, 5, ValidateLimit(5))
}

type failingCheck struct{}

func (failingCheck) Check(context.Context) error { return errors.New("db down") }

func TestHealthHandlers(t *testing.T) {
	rec := httptest.NewRecorder()
	ReadinessHandler(map[string]HealthChecker{"database": failingCheck{}})(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	ReadinessHandler(map[string]HealthChecker{
		"ai_provider": ProviderChecker{Configured: true, Name: "openai"},
	})(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Error(t, ProviderChecker{Name: "gemini"}.Check(context.Background()))

	// a missing provider key degrades health but keeps it 200
	rec = httptest.NewRecorder()
	HealthHandler(map[string]HealthChecker{
		"ai_provider": ProviderChecker{Name: "openai"},
	})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	var body HealthStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "degraded", body.Checks["ai_provider"].Status)

	rec = httptest.NewRecorder()
	HealthHandler(map[string]HealthChecker{
		"ai_provider": ProviderChecker{Name: "openai"},
		"database":    failingCheck{},
	})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "unhealthy", body.Status)
}

func TestRecordScore(t *testing.T) {
	before := GetMetrics()
	RecordScore(2, nil)
	RecordScore(2, errors.New("boom"))
	RecordScore(6, nil)
	after := GetMetrics()

	assert.Equal(t, before["scoring_total"].(uint64)+3, after["scoring_total"].(uint64))
	assert.Equal(t, before["scoring_failed"].(uint64)+1, after["scoring_failed"].(uint64))
}
