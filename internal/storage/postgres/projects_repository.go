package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/oornnery/site/internal/domain/projects"
)

var _ projects.Repository = (*ProjectRepository)(nil)

type ProjectRepository struct {
	db DBTX
}

const projectColumns = `id, title, slug, description, content_md, content_html, image,
       tech, repo_url, demo_url, featured, sort_order, draft, created_at, updated_at`

func (r *ProjectRepository) List(ctx context.Context, filters projects.Filters) ([]projects.Project, error) {
	rows, err := r.db.Query(ctx, `
SELECT `+projectColumns+`
  FROM projects
 WHERE ($1 OR NOT draft)
   AND (NOT $2 OR featured)
 ORDER BY sort_order ASC, created_at DESC
 LIMIT $3 OFFSET $4
`,
		filters.IncludeDrafts,
		filters.FeaturedOnly,
		filters.Limit,
		filters.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var list []projects.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *project)
	}
	return list, rows.Err()
}

func (r *ProjectRepository) GetBySlug(ctx context.Context, slug string) (*projects.Project, error) {
	row := r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE slug = $1`, slug)
	return scanProject(row)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*projects.Project, error) {
	row := r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

func (r *ProjectRepository) Create(ctx context.Context, project *projects.Project) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO projects (id, title, slug, description, content_md, content_html, image,
                      tech, repo_url, demo_url, featured, sort_order, draft, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`,
		project.ID,
		project.Title,
		project.Slug,
		project.Description,
		project.ContentMD,
		project.ContentHTML,
		project.Image,
		project.Tech,
		project.RepoURL,
		project.DemoURL,
		project.Featured,
		project.SortOrder,
		project.Draft,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *projects.Project) error {
	tag, err := r.db.Exec(ctx, `
UPDATE projects
   SET title = $2, slug = $3, description = $4, content_md = $5, content_html = $6,
       image = $7, tech = $8, repo_url = $9, demo_url = $10, featured = $11,
       sort_order = $12, draft = $13, updated_at = $14
 WHERE id = $1
`,
		project.ID,
		project.Title,
		project.Slug,
		project.Description,
		project.ContentMD,
		project.ContentHTML,
		project.Image,
		project.Tech,
		project.RepoURL,
		project.DemoURL,
		project.Featured,
		project.SortOrder,
		project.Draft,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return projects.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return projects.ErrNotFound
	}
	return nil
}

func scanProject(row pgx.Row) (*projects.Project, error) {
	var p projects.Project
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Description,
		&p.ContentMD,
		&p.ContentHTML,
		&p.Image,
		&p.Tech,
		&p.RepoURL,
		&p.DemoURL,
		&p.Featured,
		&p.SortOrder,
		&p.Draft,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, projects.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	return &p, nil
}
