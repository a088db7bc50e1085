package web

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStaticHandlerServesCSS(t *testing.T) {
	rec := httptest.NewRecorder()
	StaticHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/static/site.css", nil))

	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Header().Get("Cache-Control"), "max-age=3600")
	require.Contains(t, rec.Body.String(), "font-family")
}

func TestRobotsTxt(t *testing.T) {
	rec := httptest.NewRecorder()
	RobotsTxtHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/robots.txt", nil))

	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "Disallow: /api/")
}
