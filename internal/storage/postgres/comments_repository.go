package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/oornnery/site/internal/domain/comments"
)

var _ comments.Repository = (*CommentRepository)(nil)

type CommentRepository struct {
	db DBTX
}

const commentColumns = `id, post_id, account_id, author_name, author_email,
       avatar_url, content, is_deleted, created_at`

func (r *CommentRepository) ListForPost(ctx context.Context, postID uuid.UUID) ([]comments.Comment, error) {
	rows, err := r.db.Query(ctx, `
SELECT `+commentColumns+`
  FROM comments
 WHERE post_id = $1
 ORDER BY created_at ASC
`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()
	return collectComments(rows)
}

func (r *CommentRepository) ListRecent(ctx context.Context, limit int) ([]comments.Comment, error) {
	rows, err := r.db.Query(ctx, `
SELECT `+commentColumns+`
  FROM comments
 ORDER BY created_at DESC
 LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent comments: %w", err)
	}
	defer rows.Close()
	return collectComments(rows)
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*comments.Comment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	return scanComment(row)
}

func (r *CommentRepository) Create(ctx context.Context, comment *comments.Comment) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO comments (id, post_id, account_id, author_name, author_email,
                      avatar_url, content, is_deleted, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8)
`,
		comment.ID,
		comment.PostID,
		comment.AccountID,
		comment.AuthorName,
		comment.AuthorEmail,
		comment.AvatarURL,
		comment.Content,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) SetDeleted(ctx context.Context, id uuid.UUID, deleted bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE comments SET is_deleted = $2 WHERE id = $1`, id, deleted)
	if err != nil {
		return fmt.Errorf("set comment deleted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return comments.ErrNotFound
	}
	return nil
}

func collectComments(rows pgx.Rows) ([]comments.Comment, error) {
	var list []comments.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *comment)
	}
	return list, rows.Err()
}

func scanComment(row pgx.Row) (*comments.Comment, error) {
	var c comments.Comment
	err := row.Scan(
		&c.ID,
		&c.PostID,
		&c.AccountID,
		&c.AuthorName,
		&c.AuthorEmail,
		&c.AvatarURL,
		&c.Content,
		&c.Deleted,
		&c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, comments.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	return &c, nil
}
