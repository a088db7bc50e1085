package middleware

import (
	"net/http"

	"github.com/oornnery/site/internal/api/problem"
	"github.com/oornnery/site/internal/session"
	"github.com/rs/zerolog"
)

// Session resolves the auth cookie and, when it maps to a live account,
// attaches the account to the request context. Requests without a valid
// session pass through anonymously.
func Session(resolver *session.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, reason := resolver.Resolve(r.Context(), r)
			if account != nil {
				ctx := session.WithAccount(r.Context(), account)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			if reason != session.ReasonNoCookie {
				zerolog.Ctx(r.Context()).Debug().
					Stringer("reason", reason).
					Msg("session not resolved")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates a route behind an admin session.
func RequireAdmin(env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account := session.AccountFrom(r.Context())
			if account == nil {
				problem.Write(w, r, http.StatusUnauthorized, "about:blank",
					"Authentication required", problem.ErrUnauthorized, env)
				return
			}
			if !account.IsAdmin {
				problem.Write(w, r, http.StatusForbidden, "about:blank",
					"Admin access required", problem.ErrForbidden, env)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAccount gates a route behind any signed-in account.
func RequireAccount(env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session.AccountFrom(r.Context()) == nil {
				problem.Write(w, r, http.StatusUnauthorized, "about:blank",
					"Authentication required", problem.ErrUnauthorized, env)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
