package sqlite

import (
	"context"
	"time"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
)

type auditLogsRepo struct {
	db dbtx
}

func (r *auditLogsRepo) AppendAuditLog(ctx context.Context, e domain.AuditLog) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, user_id, action, resource, resource_id, status, error_msg, ip, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, mapOptionalString(e.UserID), e.Action, e.Resource, e.ResourceID,
		e.Status, e.ErrorMsg, e.IP, e.CreatedAt)
	return err
}
