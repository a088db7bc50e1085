package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/oornnery/site/internal/audit"
	"github.com/oornnery/site/internal/domain/contact"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeContactRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*contact.Message
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{byID: make(map[uuid.UUID]*contact.Message)}
}

func (f *fakeContactRepo) List(_ context.Context, unreadOnly bool, limit, offset int) ([]contact.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []contact.Message
	for _, message := range f.byID {
		if unreadOnly && message.Read {
			continue
		}
		out = append(out, *message)
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeContactRepo) GetByID(_ context.Context, id uuid.UUID) (*contact.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if message, ok := f.byID[id]; ok {
		copied := *message
		return &copied, nil
	}
	return nil, contact.ErrNotFound
}

func (f *fakeContactRepo) Create(_ context.Context, message *contact.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *message
	f.byID[message.ID] = &copied
	return nil
}

func (f *fakeContactRepo) SetRead(_ context.Context, id uuid.UUID, read bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if message, ok := f.byID[id]; ok {
		message.Read = read
		return nil
	}
	return contact.ErrNotFound
}

func (f *fakeContactRepo) CountUnread(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, message := range f.byID {
		if !message.Read {
			count++
		}
	}
	return count, nil
}

type countingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *countingNotifier) NotifyContact(context.Context, *contact.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return nil
}

func contactFixture(t *testing.T) (*ContactHandler, *fakeContactRepo, *countingNotifier) {
	t.Helper()
	repo := newFakeContactRepo()
	notifier := &countingNotifier{}
	handler := NewContactHandler(
		contact.NewService(repo, notifier),
		audit.NewLogger(&captureAuditRepo{}, zerolog.Nop()),
		"test",
	)
	return handler, repo, notifier
}

func TestContactCreateJSON(t *testing.T) {
	handler, repo, notifier := contactFixture(t)

	body := `{"name":"Visitor","email":"visitor@example.com","message":"Hello there"}`
	req := httptest.NewRequest("POST", "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "received", resp.Status)

	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	stored, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "203.0.113.9", stored.IP)
	require.Equal(t, 1, notifier.calls)
}

func TestContactCreateFormRedirects(t *testing.T) {
	handler, repo, _ := contactFixture(t)

	form := strings.NewReader("name=Visitor&email=visitor%40example.com&message=Hi")
	req := httptest.NewRequest("POST", "/api/contact", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/contact?sent=1", rec.Header().Get("Location"))

	unread, err := repo.CountUnread(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, unread)
}

func TestContactCreateValidation(t *testing.T) {
	handler, _, notifier := contactFixture(t)

	req := httptest.NewRequest("POST", "/api/contact",
		strings.NewReader(`{"name":"Visitor","email":"not-an-email","message":"Hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Errors, "email")
	require.Equal(t, 0, notifier.calls)
}

func TestContactCreateHTMXFragment(t *testing.T) {
	handler, _, _ := contactFixture(t)

	form := strings.NewReader("name=Visitor&email=visitor%40example.com&message=Hi")
	req := httptest.NewRequest("POST", "/api/contact", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), "message was sent")
}

func TestContactListAndMarkRead(t *testing.T) {
	handler, repo, _ := contactFixture(t)

	message := &contact.Message{ID: uuid.New(), Name: "Visitor", Email: "v@example.com", Body: "Hi"}
	require.NoError(t, repo.Create(context.Background(), message))

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest("GET", "/api/contact-messages", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items  []messageResponse `json:"items"`
		Unread int               `json:"unread"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	require.Equal(t, 1, body.Unread)

	req := httptest.NewRequest("POST", "/api/contact-messages/"+message.ID.String()+"/read", nil)
	req.SetPathValue("id", message.ID.String())
	rec = httptest.NewRecorder()
	handler.MarkRead(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	unread, err := repo.CountUnread(context.Background())
	require.NoError(t, err)
	require.Zero(t, unread)
}

func TestContactMarkReadUnknownID(t *testing.T) {
	handler, _, _ := contactFixture(t)

	id := uuid.NewString()
	req := httptest.NewRequest("POST", "/api/contact-messages/"+id+"/read", nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	handler.MarkRead(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
