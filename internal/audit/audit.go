package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Entry is one admin action, persisted for the audit trail and mirrored
// to the structured log.
type Entry struct {
	ID        uuid.UUID
	ActorID   *uuid.UUID
	Actor     string
	Action    string
	Entity    string
	EntityID  string
	IP        string
	Payload   map[string]string
	CreatedAt time.Time
}

type Repository interface {
	Insert(ctx context.Context, entry *Entry) error
	List(ctx context.Context, limit, offset int) ([]Entry, error)
}

// Logger records admin actions. A persistence failure never fails the
// operation being audited; the entry still lands in the log stream.
type Logger struct {
	repo   Repository
	logger zerolog.Logger
}

func NewLogger(repo Repository, logger zerolog.Logger) *Logger {
	return &Logger{
		repo:   repo,
		logger: logger.With().Str("component", "audit").Logger(),
	}
}

type Params struct {
	ActorID  *uuid.UUID
	Actor    string
	Action   string
	Entity   string
	EntityID string
	IP       string
	Payload  map[string]string
}

func (l *Logger) Record(ctx context.Context, params Params) {
	entry := &Entry{
		ID:        uuid.New(),
		ActorID:   params.ActorID,
		Actor:     params.Actor,
		Action:    params.Action,
		Entity:    params.Entity,
		EntityID:  params.EntityID,
		IP:        params.IP,
		Payload:   params.Payload,
		CreatedAt: time.Now().UTC(),
	}

	event := l.logger.Info().
		Str("action", entry.Action).
		Str("actor", entry.Actor).
		Str("entity", entry.Entity).
		Str("entity_id", entry.EntityID)
	if entry.IP != "" {
		event = event.Str("ip", entry.IP)
	}
	event.Msg("audit")

	if l.repo == nil {
		return
	}
	if err := l.repo.Insert(ctx, entry); err != nil {
		l.logger.Error().Err(err).Str("action", entry.Action).Msg("audit entry not persisted")
	}
}

func (l *Logger) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return l.repo.List(ctx, limit, offset)
}
