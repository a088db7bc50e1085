package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/oornnery/site/internal/api/problem"
	"github.com/oornnery/site/internal/audit"
	"github.com/oornnery/site/internal/domain/contact"
	"github.com/oornnery/site/internal/session"
)

type ContactHandler struct {
	Contact *contact.Service
	Audit   *audit.Logger
	Env     string
}

func NewContactHandler(svc *contact.Service, auditLog *audit.Logger, env string) *ContactHandler {
	return &ContactHandler{Contact: svc, Audit: auditLog, Env: env}
}

type messageResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func toMessageResponse(message *contact.Message) messageResponse {
	return messageResponse{
		ID:        message.ID.String(),
		Name:      message.Name,
		Email:     message.Email,
		Subject:   message.Subject,
		Body:      message.Body,
		IsRead:    message.Read,
		CreatedAt: message.CreatedAt,
	}
}

// Create accepts a contact form submission from either the HTML form or
// the JSON API. Notification failures never surface to the sender.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input contact.MessageInput
	if wantsJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request", err, h.Env)
			return
		}
	} else {
		input.Name = r.FormValue("name")
		input.Email = r.FormValue("email")
		input.Subject = r.FormValue("subject")
		input.Body = r.FormValue("message")
	}

	message, err := h.Contact.Create(r.Context(), input, contact.ClientIP(r))
	if err != nil {
		validationProblem(w, r, err, h.Env)
		return
	}

	if isPartial(r) {
		writeHTML(w, http.StatusCreated, `<p class="sent">Thanks, your message was sent.</p>`)
		return
	}
	if !wantsJSON(r) {
		http.Redirect(w, r, "/contact?sent=1", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": message.ID.String(), "status": "received"})
}

// List serves stored messages for the admin inbox.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"
	list, err := h.Contact.List(r.Context(), unreadOnly, queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	unread, err := h.Contact.CountUnread(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	items := make([]messageResponse, 0, len(list))
	for i := range list {
		items = append(items, toMessageResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "unread": unread})
}

// MarkRead flags one message as handled.
func (h *ContactHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(pathParam(r, "id"))
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problemValidation, "Invalid request", err, h.Env)
		return
	}

	if err := h.Contact.MarkRead(r.Context(), id); err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problemNotFound, "Message not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problemServer, "Server error", err, h.Env)
		return
	}

	account := session.AccountFrom(r.Context())
	params := audit.Params{
		Action:   "contact.mark_read",
		Entity:   "contact_message",
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
