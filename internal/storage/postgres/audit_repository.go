package postgres

import (
	"context"
	"fmt"

	"github.com/oornnery/site/internal/audit"
)

var _ audit.Repository = (*AuditRepository)(nil)

type AuditRepository struct {
	db DBTX
}

func (r *AuditRepository) Insert(ctx context.Context, entry *audit.Entry) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO audit_log (id, actor_id, actor, action, entity, entity_id, ip, payload, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`,
		entry.ID,
		entry.ActorID,
		entry.Actor,
		entry.Action,
		entry.Entity,
		entry.EntityID,
		entry.IP,
		entry.Payload,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) List(ctx context.Context, limit, offset int) ([]audit.Entry, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, actor_id, actor, action, entity, entity_id, ip, payload, created_at
  FROM audit_log
 ORDER BY created_at DESC
 LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(
			&e.ID,
			&e.ActorID,
			&e.Actor,
			&e.Action,
			&e.Entity,
			&e.EntityID,
			&e.IP,
			&e.Payload,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
