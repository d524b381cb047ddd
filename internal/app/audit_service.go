package app

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/example/wds/internal/ports/primary"
	"github.com/example/wds/internal/ports/secondary"
)

// AuditServiceImpl implements the AuditService interface.
type AuditServiceImpl struct {
	auditRepo    secondary.AuditRepository
	defaultLimit int
}

// NewAuditService creates a new AuditService. defaultLimit caps timelines
// requested without an explicit limit.
func NewAuditService(auditRepo secondary.AuditRepository, defaultLimit int) *AuditServiceImpl {
	return &AuditServiceImpl{
		auditRepo:    auditRepo,
		defaultLimit: defaultLimit,
	}
}

// Timeline returns audit entries newest first.
func (s *AuditServiceImpl) Timeline(ctx context.Context, filters primary.AuditFilters) ([]*primary.AuditEntry, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	records, err := s.auditRepo.List(ctx, secondary.AuditFilters{
		PersonID: filters.PersonID,
		BatchID:  filters.BatchID,
		Limit:    limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to read audit timeline")
	}

	entries := make([]*primary.AuditEntry, len(records))
	for i, r := range records {
		entries[i] = &primary.AuditEntry{
			ID:            r.ID,
			PersonID:      r.PersonID,
			BatchID:       r.BatchID,
			ActionType:    r.ActionType,
			ChangeSummary: r.ChangeSummary,
			AppliedAt:     r.AppliedAt,
		}
	}
	return entries, nil
}

var _ primary.AuditService = (*AuditServiceImpl)(nil)
