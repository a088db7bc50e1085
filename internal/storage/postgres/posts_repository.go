package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/oornnery/site/internal/domain/blog"
)

var _ blog.Repository = (*PostRepository)(nil)

type PostRepository struct {
	db DBTX
}

const postColumns = `id, title, slug, description, content_md, content_html, image,
       category, tags, draft, lang, reading_time, views, published_at, updated_at`

func (r *PostRepository) List(ctx context.Context, filters blog.Filters) ([]blog.Post, error) {
	rows, err := r.db.Query(ctx, `
SELECT `+postColumns+`
  FROM posts
 WHERE ($1 OR NOT draft)
   AND ($2 = '' OR category = $2)
   AND ($3 = '' OR title ILIKE '%' || $3 || '%' OR description ILIKE '%' || $3 || '%')
 ORDER BY published_at DESC
 LIMIT $4 OFFSET $5
`,
		filters.IncludeDrafts,
		filters.Category,
		filters.Query,
		filters.Limit,
		filters.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []blog.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	row := r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug)
	return scanPost(row)
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	row := r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	return scanPost(row)
}

func (r *PostRepository) Create(ctx context.Context, post *blog.Post) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO posts (id, title, slug, description, content_md, content_html, image,
                   category, tags, draft, lang, reading_time, views, published_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 0, $13, $14)
`,
		post.ID,
		post.Title,
		post.Slug,
		post.Description,
		post.ContentMD,
		post.ContentHTML,
		post.Image,
		post.Category,
		post.Tags,
		post.Draft,
		post.Lang,
		post.ReadingTime,
		post.PublishedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) Update(ctx context.Context, post *blog.Post) error {
	tag, err := r.db.Exec(ctx, `
UPDATE posts
   SET title = $2, slug = $3, description = $4, content_md = $5, content_html = $6,
       image = $7, category = $8, tags = $9, draft = $10, lang = $11,
       reading_time = $12, updated_at = $13
 WHERE id = $1
`,
		post.ID,
		post.Title,
		post.Slug,
		post.Description,
		post.ContentMD,
		post.ContentHTML,
		post.Image,
		post.Category,
		post.Tags,
		post.Draft,
		post.Lang,
		post.ReadingTime,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return blog.ErrNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return blog.ErrNotFound
	}
	return nil
}

func (r *PostRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE posts SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return blog.ErrNotFound
	}
	return nil
}

func (r *PostRepository) CategoriesWithCount(ctx context.Context) ([]blog.CategoryCount, error) {
	rows, err := r.db.Query(ctx, `
SELECT category, count(*)
  FROM posts
 WHERE NOT draft
 GROUP BY category
 ORDER BY count(*) DESC, category ASC
`)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	defer rows.Close()

	var counts []blog.CategoryCount
	for rows.Next() {
		var c blog.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *PostRepository) UpsertReaction(ctx context.Context, postID uuid.UUID, reactionType string) (*blog.Reaction, error) {
	row := r.db.QueryRow(ctx, `
INSERT INTO post_reactions (id, post_id, reaction_type, count, created_at)
VALUES ($1, $2, $3, 1, now())
ON CONFLICT (post_id, reaction_type)
DO UPDATE SET count = post_reactions.count + 1
RETURNING id, post_id, reaction_type, count, created_at
`, uuid.New(), postID, reactionType)

	var reaction blog.Reaction
	if err := row.Scan(&reaction.ID, &reaction.PostID, &reaction.Type, &reaction.Count, &reaction.CreatedAt); err != nil {
		return nil, fmt.Errorf("upsert reaction: %w", err)
	}
	return &reaction, nil
}

func (r *PostRepository) ReactionCounts(ctx context.Context, postID uuid.UUID) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `
SELECT reaction_type, count FROM post_reactions WHERE post_id = $1
`, postID)
	if err != nil {
		return nil, fmt.Errorf("reaction counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var reactionType string
		var count int
		if err := rows.Scan(&reactionType, &count); err != nil {
			return nil, fmt.Errorf("scan reaction count: %w", err)
		}
		counts[reactionType] = count
	}
	return counts, rows.Err()
}

func scanPost(row pgx.Row) (*blog.Post, error) {
	var p blog.Post
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Description,
		&p.ContentMD,
		&p.ContentHTML,
		&p.Image,
		&p.Category,
		&p.Tags,
		&p.Draft,
		&p.Lang,
		&p.ReadingTime,
		&p.Views,
		&p.PublishedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, blog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return &p, nil
}
