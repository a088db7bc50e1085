package comments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("comment not found")

type Comment struct {
	ID          uuid.UUID
	PostID      uuid.UUID
	AccountID   *uuid.UUID
	AuthorName  string
	AuthorEmail string
	AvatarURL   string
	Content     string
	Deleted     bool
	CreatedAt   time.Time
}

type Repository interface {
	ListForPost(ctx context.Context, postID uuid.UUID) ([]Comment, error)
	ListRecent(ctx context.Context, limit int) ([]Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	Create(ctx context.Context, comment *Comment) error
	SetDeleted(ctx context.Context, id uuid.UUID, deleted bool) error
}
