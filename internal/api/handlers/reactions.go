package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/oornnery/site/internal/api/problem"
	"github.com/oornnery/site/internal/api/render"
)

// React upserts a reaction on a post. htmx requests get the refreshed
// button fragment back; API clients get the full count map. An empty
// body defaults to "like".
func (h *PostsHandler) React(w http.ResponseWriter, r *http.Request) {
	slug := pathParam(r, "slug")
	post, err := h.Posts.GetBySlug(r.Context(), slug)
	if err != nil {
		h.notFoundOr500(w, r, err)
		return
	}

	reactionType := r.FormValue("type")
	if wantsJSON(r) {
		var payload struct {
			Type string `json:"type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
			problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request", err, h.Env)
			return
		}
		reactionType = payload.Type
	}

	if _, err := h.Posts.AddReaction(r.Context(), post.ID, reactionType); err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	counts, err := h.Posts.ReactionCounts(r.Context(), post.ID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	if isPartial(r) {
		writeHTML(w, http.StatusOK, render.ReactionsFragment(post.Slug, counts))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reactions": counts})
}

// Reactions serves the current reaction counts for a post.
func (h *PostsHandler) Reactions(w http.ResponseWriter, r *http.Request) {
	post, err := h.Posts.GetBySlug(r.Context(), pathParam(r, "slug"))
	if err != nil {
		h.notFoundOr500(w, r, err)
		return
	}

	counts, err := h.Posts.ReactionCounts(r.Context(), post.ID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reactions": counts})
}
