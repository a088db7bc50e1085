package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/oornnery/site/internal/domain/analytics"
)

var pageviewSkipPrefixes = []string{
	"/static/",
	"/favicon.ico",
	"/healthz",
	"/readyz",
	"/api/healthz",
	"/metrics",
	"/status",
}

// PageViews enqueues one pageview per successful GET. The recorder is
// fire-and-forget, so the response is never delayed by analytics.
func PageViews(recorder *analytics.Recorder, app string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || skipPageview(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			rw := &responseWriter{ResponseWriter: w}
			next.ServeHTTP(rw, r)

			if rw.status >= 400 {
				return
			}

			recorder.Record(analytics.PageView{
				ID:        ulid.Make(),
				App:       app,
				Path:      r.URL.Path,
				Referrer:  r.Header.Get("Referer"),
				UserAgent: r.Header.Get("User-Agent"),
				IPHash:    analytics.HashIP(clientIP(r)),
				Status:    rw.status,
				CreatedAt: time.Now().UTC(),
			})
		})
	}
}

func skipPageview(path string) bool {
	for _, prefix := range pageviewSkipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
