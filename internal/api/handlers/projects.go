package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oornnery/site/internal/api/problem"
	"github.com/oornnery/site/internal/audit"
	"github.com/oornnery/site/internal/domain/contact"
	"github.com/oornnery/site/internal/domain/projects"
	"github.com/oornnery/site/internal/session"
)

type ProjectsHandler struct {
	Projects *projects.Service
	Audit    *audit.Logger
	Env      string
	validate *validator.Validate
}

func NewProjectsHandler(svc *projects.Service, auditLog *audit.Logger, env string) *ProjectsHandler {
	return &ProjectsHandler{
		Projects: svc,
		Audit:    auditLog,
		Env:      env,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type projectResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ContentHTML string    `json:"content_html,omitempty"`
	Image       string    `json:"image,omitempty"`
	Tech        []string  `json:"tech"`
	RepoURL     string    `json:"repo_url,omitempty"`
	DemoURL     string    `json:"demo_url,omitempty"`
	Featured    bool      `json:"featured"`
	SortOrder   int       `json:"sort_order"`
	Draft       bool      `json:"draft"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProjectResponse(project *projects.Project, includeContent bool) projectResponse {
	resp := projectResponse{
		ID:          project.ID.String(),
		Title:       project.Title,
		Slug:        project.Slug,
		Description: project.Description,
		Image:       project.Image,
		Tech:        project.Tech,
		RepoURL:     project.RepoURL,
		DemoURL:     project.DemoURL,
		Featured:    project.Featured,
		SortOrder:   project.SortOrder,
		Draft:       project.Draft,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
	if resp.Tech == nil {
		resp.Tech = []string{}
	}
	if includeContent {
		resp.ContentHTML = project.ContentHTML
	}
	return resp
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := projects.Filters{
		Tech:         r.URL.Query().Get("tech"),
		FeaturedOnly: r.URL.Query().Get("featured") == "true",
		Limit:        queryInt(r, "limit", projects.DefaultListLimit),
		Offset:       queryInt(r, "offset", 0),
	}
	if isAdmin(r) {
		filters.IncludeDrafts = r.URL.Query().Get("include_drafts") == "true"
	}

	list, err := h.Projects.List(r.Context(), filters)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	items := make([]projectResponse, 0, len(list))
	for i := range list {
		items = append(items, toProjectResponse(&list[i], false))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.Projects.GetBySlug(r.Context(), pathParam(r, "slug"))
	if err != nil {
		h.notFoundOr500(w, r, err)
		return
	}
	if project.Draft && !isAdmin(r) {
		problem.Write(w, r, http.StatusNotFound, problemNotFound, "Project not found", problem.ErrNotFound, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(project, true))
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input projects.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request", err, h.Env)
		return
	}
	if err := h.validate.Struct(input); err != nil {
		validationProblem(w, r, err, h.Env)
		return
	}

	project, err := h.Projects.Create(r.Context(), input)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	h.recordAudit(r, "project.create", project.ID, map[string]string{"slug": project.Slug, "title": project.Title})
	writeJSON(w, http.StatusCreated, toProjectResponse(project, true))
}

func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(pathParam(r, "id"))
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request", err, h.Env)
		return
	}

	var input projects.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request", err, h.Env)
		return
	}
	if err := h.validate.Struct(input); err != nil {
		validationProblem(w, r, err, h.Env)
		return
	}

	project, err := h.Projects.GetByID(r.Context(), id)
	if err != nil {
		h.notFoundOr500(w, r, err)
		return
	}

	project, err = h.Projects.Update(r.Context(), project, input)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	h.recordAudit(r, "project.update", project.ID, map[string]string{"slug": project.Slug})
	writeJSON(w, http.StatusOK, toProjectResponse(project, true))
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(pathParam(r, "id"))
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request", err, h.Env)
		return
	}

	if err := h.Projects.Delete(r.Context(), id); err != nil {
		h.notFoundOr500(w, r, err)
		return
	}

	h.recordAudit(r, "project.delete", id, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectsHandler) notFoundOr500(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, projects.ErrNotFound) {
		problem.Write(w, r, http.StatusNotFound, problemNotFound, "Project not found", err, h.Env)
		return
	}
	problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
}

func (h *ProjectsHandler) recordAudit(r *http.Request, action string, entityID uuid.UUID, payload map[string]string) {
	account := session.AccountFrom(r.Context())
	params := audit.Params{
		Action:   action,
		Entity:   "project",
		EntityID: entityID.String(),
		IP:       contact.ClientIP(r),
		Payload:  payload,
	}
	if account != nil {
		params.ActorID = &account.ID
		params.Actor = account.Email
	}
	h.Audit.Record(r.Context(), params)
}
