package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/oornnery/site/internal/domain/analytics"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type captureRepo struct {
	mu    sync.Mutex
	views []analytics.PageView
}

func (c *captureRepo) Insert(_ context.Context, view *analytics.PageView) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views = append(c.views, *view)
	return nil
}

func (c *captureRepo) CountSince(context.Context, time.Time) (int64, error) { return 0, nil }
func (c *captureRepo) CountByAppSince(context.Context, time.Time) ([]analytics.AppCount, error) {
	return nil, nil
}
func (c *captureRepo) TopPathsSince(context.Context, time.Time, int) ([]analytics.PathCount, error) {
	return nil, nil
}

func (c *captureRepo) snapshot() []analytics.PageView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]analytics.PageView(nil), c.views...)
}

func serveAndDrain(t *testing.T, repo *captureRepo, handlerStatus int, req *http.Request) {
	t.Helper()
	recorder := analytics.NewRecorder(repo, 16, 1, analytics.RecorderMetrics{}, zerolog.Nop())
	handler := PageViews(recorder, "blog")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(handlerStatus)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.NoError(t, recorder.Close())
}

func TestPageViewsRecordsSuccessfulGet(t *testing.T) {
	repo := &captureRepo{}
	req := httptest.NewRequest("GET", "/blog/my-post", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	req.Header.Set("User-Agent", "test-agent")

	serveAndDrain(t, repo, http.StatusOK, req)

	views := repo.snapshot()
	require.Len(t, views, 1)
	require.Equal(t, "blog", views[0].App)
	require.Equal(t, "/blog/my-post", views[0].Path)
	require.Equal(t, analytics.HashIP("203.0.113.9"), views[0].IPHash)
	require.NotContains(t, views[0].IPHash, "203.0.113.9")
}

func TestPageViewsSkipsNonGet(t *testing.T) {
	repo := &captureRepo{}
	serveAndDrain(t, repo, http.StatusOK, httptest.NewRequest("POST", "/blog/comments", nil))
	require.Empty(t, repo.snapshot())
}

func TestPageViewsSkipsErrorResponses(t *testing.T) {
	repo := &captureRepo{}
	serveAndDrain(t, repo, http.StatusNotFound, httptest.NewRequest("GET", "/blog/missing", nil))
	require.Empty(t, repo.snapshot())
}

func TestPageViewsSkipsInfrastructurePaths(t *testing.T) {
	repo := &captureRepo{}
	for _, path := range []string{"/static/app.css", "/healthz", "/readyz", "/api/healthz", "/metrics", "/status", "/favicon.ico"} {
		serveAndDrain(t, repo, http.StatusOK, httptest.NewRequest("GET", path, nil))
	}
	require.Empty(t, repo.snapshot())
}

func TestPageViewsHashesForwardedIP(t *testing.T) {
	repo := &captureRepo{}
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:4000"
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")

	serveAndDrain(t, repo, http.StatusOK, req)

	views := repo.snapshot()
	require.Len(t, views, 1)
	require.Equal(t, analytics.HashIP("198.51.100.7"), views[0].IPHash)
}
