package contact

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oornnery/site/internal/sanitize"
	"github.com/rs/zerolog"
)

// Notifier delivers a copy of an inbound message to the site owner.
// Delivery failures are logged, never surfaced to the sender.
type Notifier interface {
	NotifyContact(ctx context.Context, message *Message) error
}

type Service struct {
	repo     Repository
	notifier Notifier
	validate *validator.Validate
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type MessageInput struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=200"`
	Body    string `json:"message" validate:"required,min=1,max=5000"`
}

func (s *Service) Create(ctx context.Context, input MessageInput, clientIP string) (*Message, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("validate message: %w", err)
	}

	message := &Message{
		ID:        uuid.New(),
		Name:      sanitize.Text(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Subject:   sanitize.Text(input.Subject),
		Body:      sanitize.Text(input.Body),
		IP:        clientIP,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyContact(ctx, message); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).
				Str("message_id", message.ID.String()).
				Msg("contact notification failed")
		}
	}
	return message, nil
}

func (s *Service) List(ctx context.Context, unreadOnly bool, limit, offset int) ([]Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, unreadOnly, limit, offset)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Message, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetRead(ctx, id, true)
}

func (s *Service) CountUnread(ctx context.Context) (int, error) {
	return s.repo.CountUnread(ctx)
}

// ClientIP extracts the sender address, preferring the first hop of
// X-Forwarded-For when the request came through a proxy.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}
