package service

import (
	"context"

	"workhub/internal/domain"
)

// AuditService exposes read access to the audit trail.
type AuditService struct {
	repo domain.AuditRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo domain.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// List returns a page of audit entries, newest first.
func (s *AuditService) List(ctx context.Context, page domain.PageRequest) ([]domain.AuditEntry, int64, error) {
	return s.repo.List(ctx, page)
}

// RecordDenial appends a DENIED entry for a permission check that failed.
// Called by the API layer when the check gate returns false.
func (s *AuditService) RecordDenial(ctx context.Context, workspaceID, action string) {
	actor, _ := domain.AccountFromContext(ctx)
	_ = s.repo.Insert(ctx, &domain.AuditEntry{
		ActorID:     actor.ID,
		Action:      action,
		WorkspaceID: workspaceID,
		Status:      domain.AuditDenied,
	})
}
