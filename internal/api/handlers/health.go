package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthCheck is the /api/healthz response body.
type HealthCheck struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	GitCommit string                 `json:"git_commit"`
	App       string                 `json:"app"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp string                 `json:"timestamp"`
}

// CheckResult is the outcome of a single dependency check.
type CheckResult struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type HealthChecker struct {
	pool      *pgxpool.Pool
	version   string
	gitCommit string
	app       string
}

func NewHealthChecker(pool *pgxpool.Pool, version, gitCommit, app string) *HealthChecker {
	return &HealthChecker{pool: pool, version: version, gitCommit: gitCommit, app: app}
}

// Health runs the dependency checks. A failed database check makes the
// whole endpoint report unhealthy with a 503.
func (h *HealthChecker) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]CheckResult{
			"database":   h.checkDatabase(ctx),
			"migrations": h.checkMigrations(ctx),
		}

		overall := "healthy"
		statusCode := http.StatusOK
		for _, check := range checks {
			switch check.Status {
			case "fail":
				overall = "unhealthy"
				statusCode = http.StatusServiceUnavailable
			case "warn":
				if overall == "healthy" {
					overall = "degraded"
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(HealthCheck{
			Status:    overall,
			Version:   h.version,
			GitCommit: h.gitCommit,
			App:       h.app,
			Checks:    checks,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Livez is the cheap liveness probe: no dependency checks.
func (h *HealthChecker) Livez() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// Readyz reports whether the database is reachable.
func (h *HealthChecker) Readyz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		check := h.checkDatabase(ctx)
		status := http.StatusOK
		if check.Status == "fail" {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": check.Status})
	}
}

// Status serves build information for dashboards and deploy tooling.
func (h *HealthChecker) Status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"version":    h.version,
			"git_commit": h.gitCommit,
			"app":        h.app,
		})
	}
}

func (h *HealthChecker) checkDatabase(ctx context.Context) CheckResult {
	if h.pool == nil {
		return CheckResult{Status: "fail", Message: "database pool not initialized"}
	}

	start := time.Now()
	dbCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var result int
	err := h.pool.QueryRow(dbCtx, "SELECT 1").Scan(&result)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return CheckResult{Status: "fail", Message: err.Error(), LatencyMs: latency}
	}
	return CheckResult{Status: "pass", LatencyMs: latency}
}

// checkMigrations warns when the schema_migrations table is missing or
// dirty; the app can still serve reads while an operator intervenes.
func (h *HealthChecker) checkMigrations(ctx context.Context) CheckResult {
	if h.pool == nil {
		return CheckResult{Status: "fail", Message: "database pool not initialized"}
	}

	dbCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var version int64
	var dirty bool
	err := h.pool.QueryRow(dbCtx, "SELECT version, dirty FROM schema_migrations LIMIT 1").Scan(&version, &dirty)
	if err != nil {
		return CheckResult{Status: "warn", Message: "migration state unavailable: " + err.Error()}
	}
	if dirty {
		return CheckResult{Status: "fail", Message: "migrations dirty"}
	}
	return CheckResult{Status: "pass"}
}
