package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/oornnery/site/internal/api/problem"
	"github.com/oornnery/site/internal/domain/analytics"
	"github.com/rs/zerolog"
)

// streamInterval is how often the SSE stream re-queries the summary.
const streamInterval = 5 * time.Second

type AnalyticsHandler struct {
	Analytics *analytics.Service
	Env       string
}

func NewAnalyticsHandler(svc *analytics.Service, env string) *AnalyticsHandler {
	return &AnalyticsHandler{Analytics: svc, Env: env}
}

type summaryResponse struct {
	Since    time.Time        `json:"since"`
	Total    int64            `json:"total"`
	ByApp    []map[string]any `json:"by_app"`
	TopPaths []map[string]any `json:"top_paths"`
}

func toSummaryResponse(summary *analytics.Summary) summaryResponse {
	resp := summaryResponse{
		Since:    summary.Since,
		Total:    summary.Total,
		ByApp:    make([]map[string]any, 0, len(summary.ByApp)),
		TopPaths: make([]map[string]any, 0, len(summary.TopPaths)),
	}
	for _, c := range summary.ByApp {
		resp.ByApp = append(resp.ByApp, map[string]any{"app": c.App, "count": c.Count})
	}
	for _, p := range summary.TopPaths {
		resp.TopPaths = append(resp.TopPaths, map[string]any{"path": p.Path, "count": p.Count})
	}
	return resp
}

// Summary serves the pageview aggregate, defaulting to a 30-day window.
// ?days= narrows or widens it.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	window := time.Duration(queryInt(r, "days", 0)) * 24 * time.Hour
	summary, err := h.Analytics.SummarizeWindow(r.Context(), time.Now().UTC(), window)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

// Stream pushes the summary over SSE every few seconds until the client
// disconnects. Query failures end the stream rather than erroring it.
func (h *AnalyticsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Streaming not supported", nil, h.Env)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	window := time.Duration(queryInt(r, "days", 0)) * 24 * time.Hour
	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		summary, err := h.Analytics.SummarizeWindow(r.Context(), time.Now().UTC(), window)
		if err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("analytics stream query failed")
			return
		}

		payload, err := json.Marshal(toSummaryResponse(summary))
		if err != nil {
			return
		}
		if _, err := fmt.Fprintf(w, "event: summary\ndata: %s\n\n", payload); err != nil {
			return
		}
		flusher.Flush()

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
