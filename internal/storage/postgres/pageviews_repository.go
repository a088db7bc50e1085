package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/oornnery/site/internal/domain/analytics"
)

var _ analytics.Repository = (*PageViewRepository)(nil)

type PageViewRepository struct {
	db DBTX
}

func (r *PageViewRepository) Insert(ctx context.Context, view *analytics.PageView) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO pageviews (id, app, path, referrer, user_agent, ip_hash, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`,
		view.ID.String(),
		view.App,
		view.Path,
		view.Referrer,
		view.UserAgent,
		view.IPHash,
		view.Status,
		view.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pageview: %w", err)
	}
	return nil
}

func (r *PageViewRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM pageviews WHERE created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pageviews: %w", err)
	}
	return count, nil
}

func (r *PageViewRepository) CountByAppSince(ctx context.Context, since time.Time) ([]analytics.AppCount, error) {
	rows, err := r.db.Query(ctx, `
SELECT app, count(*)
  FROM pageviews
 WHERE created_at >= $1
 GROUP BY app
 ORDER BY count(*) DESC
`, since)
	if err != nil {
		return nil, fmt.Errorf("count pageviews by app: %w", err)
	}
	defer rows.Close()

	var counts []analytics.AppCount
	for rows.Next() {
		var c analytics.AppCount
		if err := rows.Scan(&c.App, &c.Count); err != nil {
			return nil, fmt.Errorf("scan app count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *PageViewRepository) TopPathsSince(ctx context.Context, since time.Time, limit int) ([]analytics.PathCount, error) {
	rows, err := r.db.Query(ctx, `
SELECT path, count(*)
  FROM pageviews
 WHERE created_at >= $1
 GROUP BY path
 ORDER BY count(*) DESC, path ASC
 LIMIT $2
`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("top paths: %w", err)
	}
	defer rows.Close()

	var counts []analytics.PathCount
	for rows.Next() {
		var c analytics.PathCount
		if err := rows.Scan(&c.Path, &c.Count); err != nil {
			return nil, fmt.Errorf("scan path count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
