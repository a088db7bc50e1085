package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/oornnery/site/internal/domain/contact"
)

var _ contact.Repository = (*ContactRepository)(nil)

type ContactRepository struct {
	db DBTX
}

const messageColumns = `id, name, email, subject, body, ip, is_read, created_at`

func (r *ContactRepository) List(ctx context.Context, unreadOnly bool, limit, offset int) ([]contact.Message, error) {
	rows, err := r.db.Query(ctx, `
SELECT `+messageColumns+`
  FROM contact_messages
 WHERE (NOT $1 OR NOT is_read)
 ORDER BY created_at DESC
 LIMIT $2 OFFSET $3
`, unreadOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var list []contact.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *message)
	}
	return list, rows.Err()
}

func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*contact.Message, error) {
	row := r.db.QueryRow(ctx, `SELECT `+messageColumns+` FROM contact_messages WHERE id = $1`, id)
	return scanMessage(row)
}

func (r *ContactRepository) Create(ctx context.Context, message *contact.Message) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO contact_messages (id, name, email, subject, body, ip, is_read, created_at)
VALUES ($1, $2, $3, $4, $5, $6, false, $7)
`,
		message.ID,
		message.Name,
		message.Email,
		message.Subject,
		message.Body,
		message.IP,
		message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *ContactRepository) SetRead(ctx context.Context, id uuid.UUID, read bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE contact_messages SET is_read = $2 WHERE id = $1`, id, read)
	if err != nil {
		return fmt.Errorf("set message read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contact.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) CountUnread(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM contact_messages WHERE NOT is_read`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

func scanMessage(row pgx.Row) (*contact.Message, error) {
	var m contact.Message
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&m.Subject,
		&m.Body,
		&m.IP,
		&m.Read,
		&m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contact.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan message: %w", err)
	}
	return &m, nil
}
