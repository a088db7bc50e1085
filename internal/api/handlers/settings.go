package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oornnery/site/internal/api/problem"
	"github.com/oornnery/site/internal/audit"
	"github.com/oornnery/site/internal/domain/contact"
	"github.com/oornnery/site/internal/domain/settings"
	"github.com/oornnery/site/internal/session"
)

type SettingsHandler struct {
	Settings *settings.Service
	Audit    *audit.Logger
	Env      string
	validate *validator.Validate
}

func NewSettingsHandler(svc *settings.Service, auditLog *audit.Logger, env string) *SettingsHandler {
	return &SettingsHandler{
		Settings: svc,
		Audit:    auditLog,
		Env:      env,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type settingsResponse struct {
	SiteTitle       string    `json:"site_title"`
	SiteDescription string    `json:"site_description"`
	BaseURL         string    `json:"base_url,omitempty"`
	CommentsEnabled bool      `json:"comments_enabled"`
	AnalyticsOptOut bool      `json:"analytics_opt_out"`
	MaintenanceMode bool      `json:"maintenance_mode"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toSettingsResponse(s *settings.Settings) settingsResponse {
	return settingsResponse{
		SiteTitle:       s.SiteTitle,
		SiteDescription: s.SiteDescription,
		BaseURL:         s.BaseURL,
		CommentsEnabled: s.CommentsEnabled,
		AnalyticsOptOut: s.AnalyticsOptOut,
		MaintenanceMode: s.MaintenanceMode,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stored, err := h.Settings.Get(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(stored))
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input settings.SettingsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request", err, h.Env)
		return
	}
	if err := h.validate.Struct(input); err != nil {
		validationProblem(w, r, err, h.Env)
		return
	}

	updated, err := h.Settings.Update(r.Context(), input)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	account := session.AccountFrom(r.Context())
	params := audit.Params{
		Action: "settings.update",
		Entity: "settings",
		IP:     contact.ClientIP(r),
	}
	if account != nil {
		params.ActorID = &account.ID
		params.Actor = account.Email
	}
	h.Audit.Record(r.Context(), params)

	writeJSON(w, http.StatusOK, toSettingsResponse(updated))
}
