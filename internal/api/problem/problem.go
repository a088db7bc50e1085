package problem

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

const contentType = "application/problem+json"

// Details is an RFC 7807 problem document.
type Details struct {
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Status   int            `json:"status"`
	Detail   string         `json:"detail,omitempty"`
	Instance string         `json:"instance,omitempty"`
	Errors   map[string]any `json:"errors,omitempty"`
}

type Option func(*Details)

func WithDetail(detail string) Option {
	return func(p *Details) {
		p.Detail = detail
	}
}

func WithErrors(errs map[string]any) Option {
	return func(p *Details) {
		p.Errors = errs
	}
}

// Write renders a problem document. Raw error text is only exposed
// outside production.
func Write(w http.ResponseWriter, r *http.Request, status int, typ, title string, err error, env string, opts ...Option) {
	p := Details{
		Type:   typ,
		Title:  title,
		Status: status,
	}
	for _, opt := range opts {
		opt(&p)
	}

	if p.Detail == "" && err != nil {
		if env == "development" || env == "test" {
			p.Detail = err.Error()
		} else {
			p.Detail = http.StatusText(status)
		}
	}
	if p.Instance == "" && r != nil {
		p.Instance = r.URL.Path
	}

	if err != nil && r != nil {
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= 500 {
			event = logger.Error()
		}
		event.Err(err).
			Int("status", status).
			Str("type", typ).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(title)
	}

	WriteDetails(w, p)
}

func WriteDetails(w http.ResponseWriter, p Details) {
	payload, err := json.Marshal(p)
	if err != nil {
		fallback := fmt.Sprintf("{\"type\":\"about:blank\",\"title\":\"%s\",\"status\":500}", http.StatusText(http.StatusInternalServerError))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(fallback))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(p.Status)
	_, _ = w.Write(payload)
}

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
