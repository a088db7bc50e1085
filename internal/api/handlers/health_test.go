package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLivezAlwaysOK(t *testing.T) {
	checker := NewHealthChecker(nil, "1.0.0", "abc123", "blog")

	rec := httptest.NewRecorder()
	checker.Livez()(rec, httptest.NewRequest("GET", "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
}

func TestHealthWithoutPoolIsUnhealthy(t *testing.T) {
	checker := NewHealthChecker(nil, "1.0.0", "abc123", "blog")

	rec := httptest.NewRecorder()
	checker.Health()(rec, httptest.NewRequest("GET", "/api/healthz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body HealthCheck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "unhealthy", body.Status)
	require.Equal(t, "1.0.0", body.Version)
	require.Equal(t, "blog", body.App)
	require.Equal(t, "fail", body.Checks["database"].Status)
	require.NotEmpty(t, body.Timestamp)
}

func TestReadyzWithoutPool(t *testing.T) {
	checker := NewHealthChecker(nil, "1.0.0", "abc123", "admin")

	rec := httptest.NewRecorder()
	checker.Readyz()(rec, httptest.NewRequest("GET", "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatusServesBuildInfo(t *testing.T) {
	checker := NewHealthChecker(nil, "2.1.0", "deadbee", "portfolio")

	rec := httptest.NewRecorder()
	checker.Status()(rec, httptest.NewRequest("GET", "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "2.1.0", body["version"])
	require.Equal(t, "deadbee", body["git_commit"])
	require.Equal(t, "portfolio", body["app"])
}
