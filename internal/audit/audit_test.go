package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	entries  []Entry
	insertEr error
}

func (f *fakeRepo) Insert(_ context.Context, entry *Entry) error {
	if f.insertEr != nil {
		return f.insertEr
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeRepo) List(_ context.Context, limit, offset int) ([]Entry, error) {
	if offset >= len(f.entries) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.entries) {
		end = len(f.entries)
	}
	return f.entries[offset:end], nil
}

func TestRecordPersistsEntry(t *testing.T) {
	repo := &fakeRepo{}
	logger := NewLogger(repo, zerolog.Nop())
	actorID := uuid.New()

	logger.Record(context.Background(), Params{
		ActorID:  &actorID,
		Actor:    "admin@example.com",
		Action:   "post.delete",
		Entity:   "post",
		EntityID: uuid.NewString(),
		Payload:  map[string]string{"slug": "old-post"},
	})

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	require.Equal(t, "post.delete", entry.Action)
	require.Equal(t, actorID, *entry.ActorID)
	require.False(t, entry.CreatedAt.IsZero())
}

func TestRecordSurvivesPersistenceFailure(t *testing.T) {
	repo := &fakeRepo{insertEr: errors.New("db down")}
	logger := NewLogger(repo, zerolog.Nop())

	require.NotPanics(t, func() {
		logger.Record(context.Background(), Params{Actor: "admin", Action: "login"})
	})
}

func TestListPaginates(t *testing.T) {
	repo := &fakeRepo{}
	logger := NewLogger(repo, zerolog.Nop())
	for i := 0; i < 5; i++ {
		logger.Record(context.Background(), Params{Actor: "admin", Action: "noop"})
	}

	page, err := logger.List(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
}
