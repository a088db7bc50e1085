package profiles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oornnery/site/internal/content"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetMain returns the site owner's profile, creating an empty one on
// first access so callers never see a missing profile.
func (s *Service) GetMain(ctx context.Context) (*Profile, error) {
	profile, err := s.repo.GetMain(ctx)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	profile = &Profile{
		ID:        uuid.New(),
		Name:      "Site Owner",
		IsMain:    true,
		Socials:   map[string]string{},
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create default profile: %w", err)
	}
	return profile, nil
}

type ProfileInput struct {
	Name      string            `json:"name" validate:"required,min=1,max=100"`
	Headline  string            `json:"headline" validate:"max=200"`
	BioMD     string            `json:"bio_md"`
	AvatarURL string            `json:"avatar_url" validate:"omitempty,url"`
	Location  string            `json:"location" validate:"max=100"`
	Email     string            `json:"email" validate:"omitempty,email"`
	Socials   map[string]string `json:"socials"`
	Skills    []string          `json:"skills"`
}

func (s *Service) Update(ctx context.Context, input ProfileInput) (*Profile, error) {
	profile, err := s.GetMain(ctx)
	if err != nil {
		return nil, err
	}

	profile.Name = input.Name
	profile.Headline = input.Headline
	if input.BioMD != profile.BioMD {
		profile.BioMD = input.BioMD
		profile.BioHTML = content.RenderMarkdown(input.BioMD)
	}
	profile.AvatarURL = input.AvatarURL
	profile.Location = input.Location
	profile.Email = input.Email
	if input.Socials != nil {
		profile.Socials = input.Socials
	}
	if input.Skills != nil {
		profile.Skills = input.Skills
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}
