package blog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("post not found")

type Post struct {
	ID          uuid.UUID
	Title       string
	Slug        string
	Description string
	ContentMD   string
	ContentHTML string
	Image       string
	Category    string
	Tags        []string
	Draft       bool
	Lang        string
	ReadingTime int
	Views       int
	PublishedAt time.Time
	UpdatedAt   time.Time
}

type Reaction struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	Type      string
	Count     int
	CreatedAt time.Time
}

// Filters narrows a post listing. Tag filtering happens in the service
// because tags live in a JSON column.
type Filters struct {
	Category      string
	Tag           string
	Query         string
	IncludeDrafts bool
	Limit         int
	Offset        int
}

type CategoryCount struct {
	Category string
	Count    int
}

type TagCount struct {
	Tag   string
	Count int
}

type Repository interface {
	List(ctx context.Context, filters Filters) ([]Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	Create(ctx context.Context, post *Post) error
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	CategoriesWithCount(ctx context.Context) ([]CategoryCount, error)
	UpsertReaction(ctx context.Context, postID uuid.UUID, reactionType string) (*Reaction, error)
	ReactionCounts(ctx context.Context, postID uuid.UUID) (map[string]int, error)
}
