package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeViewRepo struct {
	mu       sync.Mutex
	views    []PageView
	insertEr error
	block    chan struct{}
}

func (f *fakeViewRepo) Insert(_ context.Context, view *PageView) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertEr != nil {
		return f.insertEr
	}
	f.views = append(f.views, *view)
	return nil
}

func (f *fakeViewRepo) CountSince(_ context.Context, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, v := range f.views {
		if v.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeViewRepo) CountByAppSince(_ context.Context, since time.Time) ([]AppCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counter := make(map[string]int64)
	for _, v := range f.views {
		if v.CreatedAt.After(since) {
			counter[v.App]++
		}
	}
	out := make([]AppCount, 0, len(counter))
	for app, n := range counter {
		out = append(out, AppCount{App: app, Count: n})
	}
	return out, nil
}

func (f *fakeViewRepo) TopPathsSince(_ context.Context, since time.Time, limit int) ([]PathCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counter := make(map[string]int64)
	for _, v := range f.views {
		if v.CreatedAt.After(since) {
			counter[v.Path]++
		}
	}
	out := make([]PathCount, 0, len(counter))
	for path, n := range counter {
		out = append(out, PathCount{Path: path, Count: n})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func view(path string) PageView {
	return PageView{
		ID:        ulid.Make(),
		App:       "blog",
		Path:      path,
		IPHash:    HashIP("203.0.113.1"),
		Status:    200,
		CreatedAt: time.Now().UTC(),
	}
}

func TestRecorderPersistsAndDrainsOnClose(t *testing.T) {
	repo := &fakeViewRepo{}
	rec := NewRecorder(repo, 16, 2, RecorderMetrics{}, zerolog.Nop())

	for i := 0; i < 10; i++ {
		rec.Record(view("/blog"))
	}
	require.NoError(t, rec.Close())

	repo.mu.Lock()
	defer repo.mu.Unlock()
	require.Len(t, repo.views, 10)
}

func TestRecorderDropsWhenQueueFull(t *testing.T) {
	block := make(chan struct{})
	repo := &fakeViewRepo{block: block}
	rec := NewRecorder(repo, 1, 1, RecorderMetrics{}, zerolog.Nop())

	// First view occupies the worker, second fills the queue, the rest drop.
	for i := 0; i < 10; i++ {
		rec.Record(view("/busy"))
	}
	close(block)
	require.NoError(t, rec.Close())

	repo.mu.Lock()
	defer repo.mu.Unlock()
	require.LessOrEqual(t, len(repo.views), 2)
}

func TestRecorderSurvivesInsertFailure(t *testing.T) {
	repo := &fakeViewRepo{insertEr: errors.New("db down")}
	rec := NewRecorder(repo, 4, 1, RecorderMetrics{}, zerolog.Nop())

	rec.Record(view("/a"))
	rec.Record(view("/b"))
	require.NoError(t, rec.Close())
}

func TestHashIPStableAndOpaque(t *testing.T) {
	a := HashIP("203.0.113.1")
	b := HashIP("203.0.113.1")
	c := HashIP("203.0.113.2")
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, a, 64)
	require.NotContains(t, a, "203")
}

func TestSummarize(t *testing.T) {
	repo := &fakeViewRepo{}
	now := time.Now().UTC()
	repo.views = []PageView{
		{App: "blog", Path: "/blog/post-a", CreatedAt: now.Add(-time.Hour)},
		{App: "blog", Path: "/blog/post-a", CreatedAt: now.Add(-2 * time.Hour)},
		{App: "portfolio", Path: "/", CreatedAt: now.Add(-time.Hour)},
		{App: "blog", Path: "/blog/old", CreatedAt: now.Add(-40 * 24 * time.Hour)},
	}

	summary, err := NewService(repo).Summarize(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, int64(3), summary.Total)
	require.Len(t, summary.ByApp, 2)
	require.NotEmpty(t, summary.TopPaths)
}
