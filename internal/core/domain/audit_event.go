package domain

import "time"

// AuditEvent is a structured record of a completed financial operation.
// Events are appended to the audit sink after the surrounding transaction
// commits; emission is best-effort and never affects the operation itself.
type AuditEvent struct {
	EventID    string         `json:"eventID"`
	CompanyID  string         `json:"companyID"`
	UserID     string         `json:"userID"`
	Action     string         `json:"action"`     // e.g. "journal.create", "period.close"
	EntityType string         `json:"entityType"` // e.g. "journal_entry", "fixed_asset"
	EntityID   string         `json:"entityID"`
	Detail     map[string]any `json:"detail,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}
