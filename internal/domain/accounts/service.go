package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oornnery/site/internal/auth"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return s.repo.GetByEmail(ctx, email)
}

// Authenticate verifies email + password. It returns ErrNotFound for an
// unknown email, a missing local password, or a wrong password alike, so
// callers cannot distinguish which check failed.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !auth.VerifyPassword(password, account.PasswordHash) {
		return nil, ErrNotFound
	}
	return account, nil
}

type CreateAccountParams struct {
	Email     string
	Name      string
	Password  string
	AvatarURL string
	Provider  string
	IsAdmin   bool
}

func (s *Service) Create(ctx context.Context, params CreateAccountParams) (*Account, error) {
	var hash string
	if params.Password != "" {
		var err error
		hash, err = auth.HashPassword(params.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	provider := params.Provider
	if provider == "" {
		provider = "email"
	}

	account, err := s.repo.Create(ctx, CreateParams{
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: hash,
		AvatarURL:    params.AvatarURL,
		Provider:     provider,
		IsAdmin:      params.IsAdmin,
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// RecordLogin stamps last_login. Failures are not fatal to a login flow.
func (s *Service) RecordLogin(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateLastLogin(ctx, id, time.Now().UTC())
}

func (s *Service) Ban(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetBanned(ctx, id, true)
}

func (s *Service) Unban(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetBanned(ctx, id, false)
}
