package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
)

// PageView is one recorded request. Visitor addresses are stored only
// as a salted-free sha256 digest, never in the clear.
type PageView struct {
	ID        ulid.ULID
	App       string
	Path      string
	Referrer  string
	UserAgent string
	IPHash    string
	Status    int
	CreatedAt time.Time
}

type AppCount struct {
	App   string
	Count int64
}

type PathCount struct {
	Path  string
	Count int64
}

// Summary aggregates pageviews over a window, matching what the admin
// dashboard renders.
type Summary struct {
	Since    time.Time
	Total    int64
	ByApp    []AppCount
	TopPaths []PathCount
}

type Repository interface {
	Insert(ctx context.Context, view *PageView) error
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountByAppSince(ctx context.Context, since time.Time) ([]AppCount, error)
	TopPathsSince(ctx context.Context, since time.Time, limit int) ([]PathCount, error)
}

// HashIP digests a visitor address for storage.
func HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

const (
	SummaryWindow = 30 * 24 * time.Hour
	TopPathsLimit = 10
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Summarize(ctx context.Context, now time.Time) (*Summary, error) {
	return s.SummarizeWindow(ctx, now, SummaryWindow)
}

// SummarizeWindow aggregates over an arbitrary window, clamped to the
// default when not positive.
func (s *Service) SummarizeWindow(ctx context.Context, now time.Time, window time.Duration) (*Summary, error) {
	if window <= 0 {
		window = SummaryWindow
	}
	since := now.Add(-window)

	total, err := s.repo.CountSince(ctx, since)
	if err != nil {
		return nil, err
	}
	byApp, err := s.repo.CountByAppSince(ctx, since)
	if err != nil {
		return nil, err
	}
	topPaths, err := s.repo.TopPathsSince(ctx, since, TopPathsLimit)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Since:    since,
		Total:    total,
		ByApp:    byApp,
		TopPaths: topPaths,
	}, nil
}
