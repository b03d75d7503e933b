package domain

import "time"

// Audit entry statuses.
const (
	AuditAllowed = "ALLOWED"
	AuditDenied  = "DENIED"
)

// AuditEntry records one policy mutation or permission denial.
type AuditEntry struct {
	ID          int64
	ActorID     string
	Action      string
	WorkspaceID string
	Detail      string
	Status      string
	CreatedAt   time.Time
}
