package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HealthChecker is one dependency probed by /health and /ready.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// advisory checkers degrade the service instead of failing it.
type advisory interface {
	Advisory() bool
}

// DatabaseHealthChecker pings the answer store
type DatabaseHealthChecker struct {
	DB *sql.DB
}

func (d *DatabaseHealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.DB.PingContext(ctx)
}

// ProviderChecker reports whether a scoring provider is configured without
// calling it. A missing key leaves reads and uploads working, so the
// check is advisory.
type ProviderChecker struct {
	Configured bool
	Name       string
}

func (p ProviderChecker) Check(context.Context) error {
	if !p.Configured {
		return fmt.Errorf("no API key for %s; scoring requests will fail", p.Name)
	}
	return nil
}

func (ProviderChecker) Advisory() bool { return true }

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthStatus is the /health body.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
}

// CheckStatus is the outcome of one checker.
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// runChecks probes every checker and folds the results: any failing
// required checker makes the whole report unhealthy, failing advisory
// ones only degrade it.
func runChecks(ctx context.Context, checkers map[string]HealthChecker) HealthStatus {
	out := HealthStatus{
		Status:    statusHealthy,
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]CheckStatus, len(checkers)),
	}
	for name, checker := range checkers {
		err := checker.Check(ctx)
		if err == nil {
			out.Checks[name] = CheckStatus{Status: statusHealthy}
			continue
		}
		state := statusUnhealthy
		if a, ok := checker.(advisory); ok && a.Advisory() {
			state = statusDegraded
		}
		out.Checks[name] = CheckStatus{Status: state, Message: err.Error()}
		if state == statusUnhealthy || out.Status == statusHealthy {
			out.Status = state
		}
	}
	return out
}

func writeStatus(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// HealthHandler lists every check. Only required checkers turn it 503.
func HealthHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := runChecks(ctx, checkers)
		code := http.StatusOK
		if health.Status == statusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		writeStatus(w, code, health)
	}
}

// ReadinessHandler answers 200 once no required checker fails, without
// listing the checks.
func ReadinessHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, code := "ready", http.StatusOK
		if runChecks(ctx, checkers).Status == statusUnhealthy {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		writeStatus(w, code, map[string]any{
			"status":    status,
			"timestamp": time.Now().UTC(),
		})
	}
}

// LivenessHandler answers as long as the process serves HTTP.
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
