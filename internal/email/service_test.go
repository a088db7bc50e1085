package email

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/oornnery/site/internal/config"
	"github.com/oornnery/site/internal/domain/contact"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewServiceRejectsBadAddresses(t *testing.T) {
	_, err := NewService(config.EmailConfig{
		ResendAPIKey: "re_test",
		From:         "not-an-address",
		ContactTo:    "owner@example.com",
	}, zerolog.Nop())
	require.Error(t, err)

	_, err = NewService(config.EmailConfig{
		ResendAPIKey: "re_test",
		From:         "site@example.com",
		ContactTo:    "owner@example\r\n.com",
	}, zerolog.Nop())
	require.Error(t, err)
}

func TestNotifyContactDisabledIsNoop(t *testing.T) {
	svc, err := NewService(config.EmailConfig{}, zerolog.Nop())
	require.NoError(t, err)

	err = svc.NotifyContact(context.Background(), &contact.Message{
		ID:    uuid.New(),
		Name:  "Visitor",
		Email: "visitor@example.com",
		Body:  "hello",
	})
	require.NoError(t, err)
}
