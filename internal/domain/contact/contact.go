package contact

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("message not found")

type Message struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Subject   string
	Body      string
	IP        string
	Read      bool
	CreatedAt time.Time
}

type Repository interface {
	List(ctx context.Context, unreadOnly bool, limit, offset int) ([]Message, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	Create(ctx context.Context, message *Message) error
	SetRead(ctx context.Context, id uuid.UUID, read bool) error
	CountUnread(ctx context.Context) (int, error)
}
