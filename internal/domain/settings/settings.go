package settings

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("settings not found")

// Settings is a singleton row holding site-wide toggles.
type Settings struct {
	SiteTitle       string
	SiteDescription string
	BaseURL         string
	CommentsEnabled bool
	AnalyticsOptOut bool
	MaintenanceMode bool
	UpdatedAt       time.Time
}

type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, settings *Settings) error
}

func Defaults() *Settings {
	return &Settings{
		SiteTitle:       "oornnery",
		SiteDescription: "Personal site and blog",
		CommentsEnabled: true,
		UpdatedAt:       time.Now().UTC(),
	}
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the stored settings, falling back to defaults when the
// row has never been written.
func (s *Service) Get(ctx context.Context) (*Settings, error) {
	stored, err := s.repo.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, err
	}
	return stored, nil
}

type SettingsInput struct {
	SiteTitle       string `json:"site_title" validate:"required,min=1,max=100"`
	SiteDescription string `json:"site_description" validate:"max=300"`
	BaseURL         string `json:"base_url" validate:"omitempty,url"`
	CommentsEnabled bool   `json:"comments_enabled"`
	AnalyticsOptOut bool   `json:"analytics_opt_out"`
	MaintenanceMode bool   `json:"maintenance_mode"`
}

func (s *Service) Update(ctx context.Context, input SettingsInput) (*Settings, error) {
	settings := &Settings{
		SiteTitle:       input.SiteTitle,
		SiteDescription: input.SiteDescription,
		BaseURL:         input.BaseURL,
		CommentsEnabled: input.CommentsEnabled,
		AnalyticsOptOut: input.AnalyticsOptOut,
		MaintenanceMode: input.MaintenanceMode,
		UpdatedAt:       time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
