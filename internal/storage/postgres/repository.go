package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository bundles the per-entity repositories behind one handle.
type Repository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres repository: pool is nil")
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) queryer() DBTX {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *Repository) Accounts() *AccountRepository {
	return &AccountRepository{db: r.queryer()}
}

func (r *Repository) Posts() *PostRepository {
	return &PostRepository{db: r.queryer()}
}

func (r *Repository) Projects() *ProjectRepository {
	return &ProjectRepository{db: r.queryer()}
}

func (r *Repository) Comments() *CommentRepository {
	return &CommentRepository{db: r.queryer()}
}

func (r *Repository) Profiles() *ProfileRepository {
	return &ProfileRepository{db: r.queryer()}
}

func (r *Repository) Contact() *ContactRepository {
	return &ContactRepository{db: r.queryer()}
}

func (r *Repository) PageViews() *PageViewRepository {
	return &PageViewRepository{db: r.queryer()}
}

func (r *Repository) Audit() *AuditRepository {
	return &AuditRepository{db: r.queryer()}
}

func (r *Repository) Settings() *SettingsRepository {
	return &SettingsRepository{db: r.queryer()}
}

// WithTx runs fn inside a transaction. Nested calls reuse the open
// transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, *Repository) error) error {
	if r.tx != nil {
		return fn(ctx, r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	wrapped := &Repository{pool: r.pool, tx: tx}
	if err := fn(ctx, wrapped); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
