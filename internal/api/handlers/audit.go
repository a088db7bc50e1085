package handlers

import (
	"net/http"
	"time"

	"github.com/oornnery/site/internal/api/problem"
	"github.com/oornnery/site/internal/audit"
)

type AuditHandler struct {
	Audit *audit.Logger
	Env   string
}

func NewAuditHandler(auditLog *audit.Logger, env string) *AuditHandler {
	return &AuditHandler{Audit: auditLog, Env: env}
}

type auditEntryResponse struct {
	ID        string            `json:"id"`
	ActorID   string            `json:"actor_id,omitempty"`
	Actor     string            `json:"actor"`
	Action    string            `json:"action"`
	Entity    string            `json:"entity"`
	EntityID  string            `json:"entity_id,omitempty"`
	IP        string            `json:"ip,omitempty"`
	Payload   map[string]string `json:"payload,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// List serves the audit trail, newest first.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Audit.List(r.Context(), queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	items := make([]auditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		item := auditEntryResponse{
			ID:        entry.ID.String(),
			Actor:     entry.Actor,
			Action:    entry.Action,
			Entity:    entry.Entity,
			EntityID:  entry.EntityID,
			IP:        entry.IP,
			Payload:   entry.Payload,
			CreatedAt: entry.CreatedAt,
		}
		if entry.ActorID != nil {
			item.ActorID = entry.ActorID.String()
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
