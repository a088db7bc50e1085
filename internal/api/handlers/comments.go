package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oornnery/site/internal/api/problem"
	"github.com/oornnery/site/internal/api/render"
	"github.com/oornnery/site/internal/audit"
	"github.com/oornnery/site/internal/domain/blog"
	"github.com/oornnery/site/internal/domain/comments"
	"github.com/oornnery/site/internal/domain/contact"
	"github.com/oornnery/site/internal/domain/settings"
	"github.com/oornnery/site/internal/session"
)

type CommentsHandler struct {
	Comments *comments.Service
	Posts    *blog.Service
	Settings *settings.Service
	Audit    *audit.Logger
	Env      string
	validate *validator.Validate
}

func NewCommentsHandler(commentsSvc *comments.Service, posts *blog.Service, settingsSvc *settings.Service, auditLog *audit.Logger, env string) *CommentsHandler {
	return &CommentsHandler{
		Comments: commentsSvc,
		Posts:    posts,
		Settings: settingsSvc,
		Audit:    auditLog,
		Env:      env,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type commentResponse struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	AuthorName string    `json:"author_name"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	Content    string    `json:"content"`
	Deleted    bool      `json:"deleted"`
	CreatedAt  time.Time `json:"created_at"`
}

func toCommentResponse(comment *comments.Comment) commentResponse {
	return commentResponse{
		ID:         comment.ID.String(),
		PostID:     comment.PostID.String(),
		AuthorName: comment.AuthorName,
		AvatarURL:  comment.AvatarURL,
		Content:    comment.Content,
		Deleted:    comment.Deleted,
		CreatedAt:  comment.CreatedAt,
	}
}

// ListForPost serves a post's comment thread. Author emails never leave
// the server.
func (h *CommentsHandler) ListForPost(w http.ResponseWriter, r *http.Request) {
	post := h.postBySlug(w, r)
	if post == nil {
		return
	}

	list, err := h.Comments.ListForPost(r.Context(), post.ID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	items := make([]commentResponse, 0, len(list))
	for i := range list {
		items = append(items, toCommentResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Create stores a comment from a guest or the signed-in account. htmx
// requests get the rendered comment fragment appended to the thread.
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	siteSettings, err := h.Settings.Get(r.Context())
	if err == nil && !siteSettings.CommentsEnabled {
		problem.Write(w, r, http.StatusForbidden, problemValidation, "Comments are disabled", problem.ErrForbidden, h.Env)
		return
	}

	post := h.postBySlug(w, r)
	if post == nil {
		return
	}

	var input comments.CommentInput
	if wantsJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request", err, h.Env)
			return
		}
	} else {
		input.AuthorName = r.FormValue("author_name")
		input.AuthorEmail = r.FormValue("author_email")
		input.Content = r.FormValue("content")
	}
	if err := h.validate.Struct(input); err != nil {
		validationProblem(w, r, err, h.Env)
		return
	}

	comment, err := h.Comments.Create(r.Context(), post.ID, session.AccountFrom(r.Context()), input)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	if isPartial(r) {
		writeHTML(w, http.StatusCreated, render.CommentFragment(comment))
		return
	}
	writeJSON(w, http.StatusCreated, toCommentResponse(comment))
}

// ListRecent serves the newest comments across all posts, for admin
// moderation.
func (h *CommentsHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	list, err := h.Comments.ListRecent(r.Context(), queryInt(r, "limit", 50))
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	items := make([]commentResponse, 0, len(list))
	for i := range list {
		items = append(items, toCommentResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Delete soft-deletes a comment; the thread keeps a placeholder.
func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.setDeleted(w, r, true, "comment.delete")
}

// Restore undoes a soft delete.
func (h *CommentsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.setDeleted(w, r, false, "comment.restore")
}

func (h *CommentsHandler) setDeleted(w http.ResponseWriter, r *http.Request, deleted bool, action string) {
	id, err := uuid.Parse(pathParam(r, "id"))
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request", err, h.Env)
		return
	}

	var opErr error
	if deleted {
		opErr = h.Comments.Delete(r.Context(), id)
	} else {
		opErr = h.Comments.Restore(r.Context(), id)
	}
	if opErr != nil {
		if errors.Is(opErr, comments.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problemNotFound, "Comment not found", opErr, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", opErr, h.Env)
		return
	}

	account := session.AccountFrom(r.Context())
	params := audit.Params{
		Action:   action,
		Entity:   "comment",
		EntityID: id.String(),
		IP:       contact.ClientIP(r),
	}
	if account != nil {
		params.ActorID = &account.ID
		params.Actor = account.Email
	}
	h.Audit.Record(r.Context(), params)

	w.WriteHeader(http.StatusNoContent)
}

// postBySlug resolves the {post_slug} path segment, writing the error
// response itself when the post cannot be loaded.
func (h *CommentsHandler) postBySlug(w http.ResponseWriter, r *http.Request) *blog.Post {
	post, err := h.Posts.GetBySlug(r.Context(), pathParam(r, "post_slug"))
	if err != nil {
		if errors.Is(err, blog.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problemNotFound, "Post not found", err, h.Env)
		} else {
			problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		}
		return nil
	}
	return post
}
