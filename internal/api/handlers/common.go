// Package handlers holds the HTTP handlers for all three applications.
// JSON endpoints live under /api; page handlers render HTML.
package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/oornnery/site/internal/api/problem"
)

const (
	problemValidation = "https://oornnery.dev/problems/validation-error"
	problemNotFound   = "https://oornnery.dev/problems/not-found"
	problemAuth       = "https://oornnery.dev/problems/unauthorized"
	problemServer     = "https://oornnery.dev/problems/server-error"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeHTML(w http.ResponseWriter, status int, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(page))
}

func pathParam(r *http.Request, key string) string {
	return strings.TrimSpace(r.PathValue(key))
}

// wantsJSON reports whether the request body is JSON, as opposed to a
// plain or htmx form post.
func wantsJSON(r *http.Request) bool {
	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return ct == "application/json"
}

// isPartial reports whether the request came from htmx and expects an
// HTML fragment back.
func isPartial(r *http.Request) bool {
	return r.Header.Get("HX-Request") != ""
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// validationProblem renders validator.ValidationErrors as a field map;
// any other error becomes a plain 400.
func validationProblem(w http.ResponseWriter, r *http.Request, err error, env string) {
	var fieldErrors validator.ValidationErrors
	if errors := asValidationErrors(err); errors != nil {
		fieldErrors = errors
	}
	if fieldErrors == nil {
		problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request", err, env)
		return
	}

	fields := make(map[string]any, len(fieldErrors))
	for _, fe := range fieldErrors {
		fields[strings.ToLower(fe.Field())] = fe.Tag()
	}
	problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request", err, env,
		problem.WithErrors(fields))
}

func asValidationErrors(err error) validator.ValidationErrors {
	for err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return ve
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil
		}
		err = u.Unwrap()
	}
	return nil
}
