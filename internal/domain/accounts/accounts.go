package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("account not found")
	ErrEmailTaken = errors.New("email is already taken")
)

// Account is a person who can sign in. PasswordHash is empty for accounts
// created through an external identity provider. Accounts are never
// physically removed; banning is the deactivation path.
type Account struct {
	ID           uuid.UUID
	Email        string
	Name         string
	AvatarURL    string
	Provider     string
	ProviderID   string
	PasswordHash string
	Role         string
	IsAdmin      bool
	IsBanned     bool
	CreatedAt    time.Time
	LastLogin    time.Time
}

type CreateParams struct {
	Email        string
	Name         string
	PasswordHash string
	AvatarURL    string
	Provider     string
	ProviderID   string
	IsAdmin      bool
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Create(ctx context.Context, params CreateParams) (*Account, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) error
}
