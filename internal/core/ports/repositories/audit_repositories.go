package repositories

import (
	"context"

	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
)

// AuditSink appends structured audit events. It is called after the
// triggering transaction has committed; implementations must be safe to fail
// without affecting the caller, which logs and swallows any error.
type AuditSink interface {
	Append(ctx context.Context, event domain.AuditEvent) error
}
