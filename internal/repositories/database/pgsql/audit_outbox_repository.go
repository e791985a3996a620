package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	portsrepo "github.com/LattanaDev/laobooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditOutboxRepository struct {
	BaseRepository
}

// newPgxAuditOutboxRepository creates the append-only audit event store.
func newPgxAuditOutboxRepository(pool *pgxpool.Pool) portsrepo.AuditSink {
	return &PgxAuditOutboxRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditSink = (*PgxAuditOutboxRepository)(nil)

func (r *PgxAuditOutboxRepository) Append(ctx context.Context, event domain.AuditEvent) error {
	detail, err := json.Marshal(event.Detail)
	if err != nil {
		return fmt.Errorf("failed to marshal audit detail: %w", err)
	}
	query := `
		INSERT INTO audit_events (event_id, company_id, user_id, action, entity_type, entity_id, detail, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = r.Pool.Exec(ctx, query,
		event.EventID,
		event.CompanyID,
		event.UserID,
		event.Action,
		event.EntityType,
		event.EntityID,
		detail,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit event %s: %w", event.EventID, err)
	}
	return nil
}
