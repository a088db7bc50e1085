package email

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/oornnery/site/internal/config"
	"github.com/oornnery/site/internal/domain/contact"
	"github.com/oornnery/site/internal/sanitize"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Service sends owner notifications through the Resend API. When email
// is not configured it logs instead of sending, which keeps dev setups
// simple.
type Service struct {
	config config.EmailConfig
	client *resend.Client
	logger zerolog.Logger
}

func NewService(cfg config.EmailConfig, logger zerolog.Logger) (*Service, error) {
	if cfg.Enabled() {
		if err := validateAddress(cfg.From); err != nil {
			return nil, fmt.Errorf("invalid sender address: %w", err)
		}
		if err := validateAddress(cfg.ContactTo); err != nil {
			return nil, fmt.Errorf("invalid recipient address: %w", err)
		}
	}

	s := &Service{
		config: cfg,
		logger: logger.With().Str("component", "email").Logger(),
	}
	if cfg.Enabled() {
		s.client = resend.NewClient(cfg.ResendAPIKey)
	}
	return s, nil
}

// NotifyContact forwards an inbound contact message to the site owner.
func (s *Service) NotifyContact(ctx context.Context, message *contact.Message) error {
	if s.client == nil {
		s.logger.Info().
			Str("message_id", message.ID.String()).
			Str("from", message.Email).
			Msg("email disabled, skipping contact notification")
		return nil
	}

	subject := message.Subject
	if subject == "" {
		subject = "New contact message"
	}

	html := fmt.Sprintf(
		"<p><strong>%s</strong> &lt;%s&gt; wrote:</p><blockquote>%s</blockquote>",
		sanitize.Text(message.Name),
		sanitize.Text(message.Email),
		sanitize.Text(message.Body),
	)

	params := &resend.SendEmailRequest{
		From:    s.config.From,
		To:      []string{s.config.ContactTo},
		ReplyTo: message.Email,
		Subject: subject,
		Html:    html,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend API error: %w", err)
	}

	s.logger.Info().
		Str("email_id", sent.Id).
		Str("message_id", message.ID.String()).
		Msg("contact notification sent")
	return nil
}

func validateAddress(address string) error {
	addr, err := mail.ParseAddress(address)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	if strings.ContainsAny(addr.Address, "\r\n") {
		return fmt.Errorf("address contains newline characters")
	}
	return nil
}
