package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	portsrepo "github.com/LattanaDev/laobooks_backend/internal/core/ports/repositories"
	"github.com/LattanaDev/laobooks_backend/internal/middleware"
)

// publishAudit appends an audit event after the triggering work has
// committed. Failures are logged and swallowed; the audit trail is
// best-effort and never rolls back a financial operation.
func publishAudit(ctx context.Context, sink portsrepo.AuditSink, companyID, userID, action, entityType, entityID string, detail map[string]any) {
	if sink == nil {
		return
	}
	event := domain.AuditEvent{
		EventID:    uuid.NewString(),
		CompanyID:  companyID,
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		OccurredAt: time.Now(),
	}
	if err := sink.Append(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to append audit event",
			slog.String("action", action),
			slog.String("entity_id", entityID),
			slog.String("error", err.Error()),
		)
	}
}
