package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oornnery/site/internal/api/problem"
	"github.com/oornnery/site/internal/audit"
	"github.com/oornnery/site/internal/domain/contact"
	"github.com/oornnery/site/internal/domain/profiles"
	"github.com/oornnery/site/internal/session"
)

type ProfileHandler struct {
	Profiles *profiles.Service
	Audit    *audit.Logger
	Env      string
	validate *validator.Validate
}

func NewProfileHandler(svc *profiles.Service, auditLog *audit.Logger, env string) *ProfileHandler {
	return &ProfileHandler{
		Profiles: svc,
		Audit:    auditLog,
		Env:      env,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type profileResponse struct {
	Name      string            `json:"name"`
	Headline  string            `json:"headline,omitempty"`
	BioHTML   string            `json:"bio_html,omitempty"`
	AvatarURL string            `json:"avatar_url,omitempty"`
	Location  string            `json:"location,omitempty"`
	Email     string            `json:"email,omitempty"`
	Socials   map[string]string `json:"socials"`
	Skills    []string          `json:"skills"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func toProfileResponse(profile *profiles.Profile) profileResponse {
	resp := profileResponse{
		Name:      profile.Name,
		Headline:  profile.Headline,
		BioHTML:   profile.BioHTML,
		AvatarURL: profile.AvatarURL,
		Location:  profile.Location,
		Email:     profile.Email,
		Socials:   profile.Socials,
		Skills:    profile.Skills,
		UpdatedAt: profile.UpdatedAt,
	}
	if resp.Socials == nil {
		resp.Socials = map[string]string{}
	}
	if resp.Skills == nil {
		resp.Skills = []string{}
	}
	return resp
}

// Get serves the owner profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Profiles.GetMain(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

// Update replaces the owner profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input profiles.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request", err, h.Env)
		return
	}
	if err := h.validate.Struct(input); err != nil {
		validationProblem(w, r, err, h.Env)
		return
	}

	profile, err := h.Profiles.Update(r.Context(), input)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	account := session.AccountFrom(r.Context())
	params := audit.Params{
		Action:   "profile.update",
		Entity:   "profile",
		EntityID: profile.ID.String(),
		IP:       contact.ClientIP(r),
	}
	if account != nil {
		params.ActorID = &account.ID
		params.Actor = account.Email
	}
	h.Audit.Record(r.Context(), params)

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}
