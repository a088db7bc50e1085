package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	stored *Settings
}

func (f *fakeRepo) Get(_ context.Context) (*Settings, error) {
	if f.stored == nil {
		return nil, ErrNotFound
	}
	return f.stored, nil
}

func (f *fakeRepo) Save(_ context.Context, settings *Settings) error {
	f.stored = settings
	return nil
}

func TestGetFallsBackToDefaults(t *testing.T) {
	svc := NewService(&fakeRepo{})

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.True(t, got.CommentsEnabled)
	require.NotEmpty(t, got.SiteTitle)
}

func TestUpdatePersists(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), SettingsInput{
		SiteTitle:       "New Title",
		MaintenanceMode: true,
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "New Title", got.SiteTitle)
	require.True(t, got.MaintenanceMode)
	require.False(t, got.CommentsEnabled)
}
