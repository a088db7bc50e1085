package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/oornnery/site/internal/domain/settings"
)

var _ settings.Repository = (*SettingsRepository)(nil)

// SettingsRepository stores the singleton settings row under a fixed key.
type SettingsRepository struct {
	db DBTX
}

func (r *SettingsRepository) Get(ctx context.Context) (*settings.Settings, error) {
	row := r.db.QueryRow(ctx, `
SELECT site_title, site_description, base_url, comments_enabled,
       analytics_opt_out, maintenance_mode, updated_at
  FROM site_settings
 WHERE singleton
`)

	var s settings.Settings
	err := row.Scan(
		&s.SiteTitle,
		&s.SiteDescription,
		&s.BaseURL,
		&s.CommentsEnabled,
		&s.AnalyticsOptOut,
		&s.MaintenanceMode,
		&s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, settings.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan settings: %w", err)
	}
	return &s, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s *settings.Settings) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO site_settings (singleton, site_title, site_description, base_url,
                           comments_enabled, analytics_opt_out, maintenance_mode, updated_at)
VALUES (true, $1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (singleton)
DO UPDATE SET site_title = $1, site_description = $2, base_url = $3,
              comments_enabled = $4, analytics_opt_out = $5,
              maintenance_mode = $6, updated_at = $7
`,
		s.SiteTitle,
		s.SiteDescription,
		s.BaseURL,
		s.CommentsEnabled,
		s.AnalyticsOptOut,
		s.MaintenanceMode,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
