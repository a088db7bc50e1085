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
	"github.com/oornnery/site/internal/domain/blog"
	"github.com/oornnery/site/internal/domain/contact"
	"github.com/oornnery/site/internal/session"
	"github.com/rs/zerolog"
)

type PostsHandler struct {
	Posts    *blog.Service
	Audit    *audit.Logger
	Env      string
	validate *validator.Validate
}

func NewPostsHandler(posts *blog.Service, auditLog *audit.Logger, env string) *PostsHandler {
	return &PostsHandler{
		Posts:    posts,
		Audit:    auditLog,
		Env:      env,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type postResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ContentHTML string    `json:"content_html,omitempty"`
	Image       string    `json:"image,omitempty"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Draft       bool      `json:"draft"`
	Lang        string    `json:"lang"`
	ReadingTime int       `json:"reading_time"`
	Views       int       `json:"views"`
	PublishedAt time.Time `json:"published_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toPostResponse(post *blog.Post, includeContent bool) postResponse {
	resp := postResponse{
		ID:          post.ID.String(),
		Title:       post.Title,
		Slug:        post.Slug,
		Description: post.Description,
		Image:       post.Image,
		Category:    post.Category,
		Tags:        post.Tags,
		Draft:       post.Draft,
		Lang:        post.Lang,
		ReadingTime: post.ReadingTime,
		Views:       post.Views,
		PublishedAt: post.PublishedAt,
		UpdatedAt:   post.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if includeContent {
		resp.ContentHTML = post.ContentHTML
	}
	return resp
}

// List serves the public post listing. Drafts stay hidden; the admin
// variant passes include_drafts through an authenticated route.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := blog.Filters{
		Category: r.URL.Query().Get("category"),
		Tag:      r.URL.Query().Get("tag"),
		Query:    r.URL.Query().Get("q"),
		Limit:    queryInt(r, "limit", blog.DefaultListLimit),
		Offset:   queryInt(r, "offset", 0),
	}
	if isAdmin(r) {
		filters.IncludeDrafts = r.URL.Query().Get("include_drafts") == "true"
	}

	posts, err := h.Posts.List(r.Context(), filters)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	items := make([]postResponse, 0, len(posts))
	for i := range posts {
		items = append(items, toPostResponse(&posts[i], false))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Get serves one post by slug and bumps its view counter.
func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := pathParam(r, "slug")
	post, err := h.Posts.GetBySlug(r.Context(), slug)
	if err != nil {
		h.notFoundOr500(w, r, err)
		return
	}
	if post.Draft && !isAdmin(r) {
		problem.Write(w, r, http.StatusNotFound, problemNotFound, "Post not found", problem.ErrNotFound, h.Env)
		return
	}

	if err := h.Posts.IncrementViews(r.Context(), post.ID); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("slug", slug).Msg("view counter not bumped")
	} else {
		post.Views++
	}
	writeJSON(w, http.StatusOK, toPostResponse(post, true))
}

func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input blog.PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request", err, h.Env)
		return
	}
	if err := h.validate.Struct(input); err != nil {
		validationProblem(w, r, err, h.Env)
		return
	}

	post, err := h.Posts.Create(r.Context(), input)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	h.recordAudit(r, "post.create", post.ID, map[string]string{"slug": post.Slug, "title": post.Title})
	writeJSON(w, http.StatusCreated, toPostResponse(post, true))
}

func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(pathParam(r, "id"))
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request", err, h.Env)
		return
	}

	var input blog.PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request", err, h.Env)
		return
	}
	if err := h.validate.Struct(input); err != nil {
		validationProblem(w, r, err, h.Env)
		return
	}

	post, err := h.Posts.GetByID(r.Context(), id)
	if err != nil {
		h.notFoundOr500(w, r, err)
		return
	}

	post, err = h.Posts.Update(r.Context(), post, input)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	h.recordAudit(r, "post.update", post.ID, map[string]string{"slug": post.Slug})
	writeJSON(w, http.StatusOK, toPostResponse(post, true))
}

func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(pathParam(r, "id"))
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request", err, h.Env)
		return
	}

	if err := h.Posts.Delete(r.Context(), id); err != nil {
		h.notFoundOr500(w, r, err)
		return
	}

	h.recordAudit(r, "post.delete", id, nil)
	w.WriteHeader(http.StatusNoContent)
}

// Categories serves category names with post counts.
func (h *PostsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Posts.CategoriesWithCount(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	items := make([]map[string]any, 0, len(counts))
	for _, c := range counts {
		items = append(items, map[string]any{"category": c.Category, "count": c.Count})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Tags serves tag names with usage counts across published posts.
func (h *PostsHandler) Tags(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Posts.TagsWithCount(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	items := make([]map[string]any, 0, len(counts))
	for _, t := range counts {
		items = append(items, map[string]any{"tag": t.Tag, "count": t.Count})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *PostsHandler) notFoundOr500(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, blog.ErrNotFound) {
		problem.Write(w, r, http.StatusNotFound, problemNotFound, "Post not found", err, h.Env)
		return
	}
	problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
}

func (h *PostsHandler) recordAudit(r *http.Request, action string, entityID uuid.UUID, payload map[string]string) {
	account := session.AccountFrom(r.Context())
	params := audit.Params{
		Action:   action,
		Entity:   "post",
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

func isAdmin(r *http.Request) bool {
	account := session.AccountFrom(r.Context())
	return account != nil && account.IsAdmin
}
