package projects

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("project not found")

type Project struct {
	ID          uuid.UUID
	Title       string
	Slug        string
	Description string
	ContentMD   string
	ContentHTML string
	Image       string
	Tech        []string
	RepoURL     string
	DemoURL     string
	Featured    bool
	SortOrder   int
	Draft       bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filters narrows a project listing. Tech filtering happens in the
// service because the stack list lives in a JSON column.
type Filters struct {
	Tech          string
	FeaturedOnly  bool
	IncludeDrafts bool
	Limit         int
	Offset        int
}

type Repository interface {
	List(ctx context.Context, filters Filters) ([]Project, error)
	GetBySlug(ctx context.Context, slug string) (*Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	Create(ctx context.Context, project *Project) error
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}
