package middleware

import (
	"net"
	"net/http"
	"strings"
)

// clientIP returns the requesting address, preferring the first hop of
// X-Forwarded-For when the request came through a proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
