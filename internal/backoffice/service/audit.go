package service

import (
	"context"
	"time"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/lumenlms/backoffice/internal/backoffice/store"
	"github.com/lumenlms/backoffice/pkg/idx"
	"github.com/lumenlms/backoffice/pkg/slogx"
)

// AuditService writes trail entries. It is strictly fire-and-forget: a
// failed write is logged and swallowed, never surfaced to the operation
// that emitted it.
type AuditService struct {
	Store store.Store
}

// Record appends one audit entry, filling in id and timestamp.
func (s *AuditService) Record(ctx context.Context, entry domain.AuditLog) {
	entry.ID = idx.New().String()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.Status == "" {
		entry.Status = domain.AuditStatusSuccess
	}

	if err := s.Store.AuditLogs().AppendAuditLog(ctx, entry); err != nil {
		slogx.FromContext(ctx).Warn("audit write failed",
			"action", entry.Action, "err", err)
	}
}
