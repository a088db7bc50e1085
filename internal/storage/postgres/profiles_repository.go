package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/oornnery/site/internal/domain/profiles"
)

var _ profiles.Repository = (*ProfileRepository)(nil)

type ProfileRepository struct {
	db DBTX
}

func (r *ProfileRepository) GetMain(ctx context.Context) (*profiles.Profile, error) {
	row := r.db.QueryRow(ctx, `
SELECT id, name, headline, bio_md, bio_html, avatar_url, location, email,
       socials, skills, is_main, updated_at
  FROM profiles
 WHERE is_main
 LIMIT 1
`)

	var p profiles.Profile
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Headline,
		&p.BioMD,
		&p.BioHTML,
		&p.AvatarURL,
		&p.Location,
		&p.Email,
		&p.Socials,
		&p.Skills,
		&p.IsMain,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, profiles.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile *profiles.Profile) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO profiles (id, name, headline, bio_md, bio_html, avatar_url, location,
                      email, socials, skills, is_main, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`,
		profile.ID,
		profile.Name,
		profile.Headline,
		profile.BioMD,
		profile.BioHTML,
		profile.AvatarURL,
		profile.Location,
		profile.Email,
		profile.Socials,
		profile.Skills,
		profile.IsMain,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *profiles.Profile) error {
	tag, err := r.db.Exec(ctx, `
UPDATE profiles
   SET name = $2, headline = $3, bio_md = $4, bio_html = $5, avatar_url = $6,
       location = $7, email = $8, socials = $9, skills = $10, updated_at = $11
 WHERE id = $1
`,
		profile.ID,
		profile.Name,
		profile.Headline,
		profile.BioMD,
		profile.BioHTML,
		profile.AvatarURL,
		profile.Location,
		profile.Email,
		profile.Socials,
		profile.Skills,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return profiles.ErrNotFound
	}
	return nil
}
