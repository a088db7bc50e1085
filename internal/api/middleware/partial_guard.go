package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/oornnery/site/internal/api/problem"
	"github.com/oornnery/site/internal/metrics"
	"github.com/rs/zerolog"
)

var partialGuardSkipPrefixes = []string{
	"/static/",
	"/favicon.ico",
	"/healthz",
	"/readyz",
	"/api/healthz",
}

// PartialGuard rejects cross-origin HTMX partial requests. Requests
// carrying the HX-Request marker must present an Origin or Referer whose
// host matches the request host, otherwise the fragment endpoints could
// be driven from a foreign page.
func PartialGuard(env string, allowDevLocalhost bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("HX-Request") == "" || skipPartialGuard(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if !partialOriginAllowed(r, allowDevLocalhost) {
				metrics.PartialRequestsBlocked.Inc()
				zerolog.Ctx(r.Context()).Warn().
					Str("path", r.URL.Path).
					Str("origin", r.Header.Get("Origin")).
					Str("referer", r.Header.Get("Referer")).
					Msg("partial request blocked")
				problem.Write(w, r, http.StatusForbidden, "about:blank",
					"Cross-origin partial request rejected", problem.ErrForbidden, env)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func skipPartialGuard(path string) bool {
	for _, prefix := range partialGuardSkipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func partialOriginAllowed(r *http.Request, allowDevLocalhost bool) bool {
	source := r.Header.Get("Origin")
	if source == "" {
		source = r.Header.Get("Referer")
	}
	if source == "" {
		return false
	}

	parsed, err := url.Parse(source)
	if err != nil || parsed.Host == "" {
		return false
	}

	if hostOnly(parsed.Host) == hostOnly(r.Host) {
		return true
	}
	if allowDevLocalhost && isLocalhost(parsed.Host) {
		return true
	}
	return false
}

func hostOnly(host string) string {
	if i := strings.LastIndex(host, ":"); i > 0 && !strings.HasSuffix(host, "]") {
		return host[:i]
	}
	return host
}

func isLocalhost(host string) bool {
	h := hostOnly(host)
	return h == "localhost" || h == "127.0.0.1" || h == "::1" || h == "[::1]"
}
