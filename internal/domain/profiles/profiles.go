package profiles

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("profile not found")

type Profile struct {
	ID        uuid.UUID
	Name      string
	Headline  string
	BioMD     string
	BioHTML   string
	AvatarURL string
	Location  string
	Email     string
	Socials   map[string]string
	Skills    []string
	IsMain    bool
	UpdatedAt time.Time
}

type Repository interface {
	GetMain(ctx context.Context) (*Profile, error)
	Create(ctx context.Context, profile *Profile) error
	Update(ctx context.Context, profile *Profile) error
}
