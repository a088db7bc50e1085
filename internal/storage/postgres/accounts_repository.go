package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oornnery/site/internal/domain/accounts"
)

var _ accounts.Repository = (*AccountRepository)(nil)

type AccountRepository struct {
	db DBTX
}

const accountColumns = `id, email, name, avatar_url, provider, provider_id,
       password_hash, role, is_admin, is_banned, created_at, last_login`

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*accounts.Account, error) {
	row := r.db.QueryRow(ctx, `
SELECT `+accountColumns+`
  FROM accounts
 WHERE id = $1
`, id)
	return scanAccount(row)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	row := r.db.QueryRow(ctx, `
SELECT `+accountColumns+`
  FROM accounts
 WHERE lower(email) = lower($1)
`, email)
	return scanAccount(row)
}

func (r *AccountRepository) Create(ctx context.Context, params accounts.CreateParams) (*accounts.Account, error) {
	role := "user"
	if params.IsAdmin {
		role = "admin"
	}
	row := r.db.QueryRow(ctx, `
INSERT INTO accounts (id, email, name, avatar_url, provider, provider_id,
                      password_hash, role, is_admin, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
RETURNING `+accountColumns+`
`,
		uuid.New(),
		params.Email,
		params.Name,
		params.AvatarURL,
		params.Provider,
		params.ProviderID,
		params.PasswordHash,
		role,
		params.IsAdmin,
	)
	account, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, accounts.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return account, nil
}

func (r *AccountRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE accounts SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return accounts.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE accounts SET is_banned = $2 WHERE id = $1`, id, banned)
	if err != nil {
		return fmt.Errorf("set banned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return accounts.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*accounts.Account, error) {
	var a accounts.Account
	var avatarURL, providerID, passwordHash *string
	var lastLogin *time.Time
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.Name,
		&avatarURL,
		&a.Provider,
		&providerID,
		&passwordHash,
		&a.Role,
		&a.IsAdmin,
		&a.IsBanned,
		&a.CreatedAt,
		&lastLogin,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, accounts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.AvatarURL = derefString(avatarURL)
	a.ProviderID = derefString(providerID)
	a.PasswordHash = derefString(passwordHash)
	if lastLogin != nil {
		a.LastLogin = *lastLogin
	}
	return &a, nil
}
