package sqlite

import (
	"context"
	"time"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
)

type loginAttemptsRepo struct {
	db dbtx
}

func (r *loginAttemptsRepo) CreateLoginAttempt(ctx context.Context, a domain.LoginAttempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO login_attempts (id, email, ip, success, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.IP, a.Success, a.CreatedAt)
	return err
}

func (r *loginAttemptsRepo) CountFailedSince(ctx context.Context, email string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM login_attempts
		WHERE email = ? AND success = 0 AND created_at >= ?`,
		email, since).Scan(&count)
	return count, err
}

func (r *loginAttemptsRepo) LatestFailedAt(ctx context.Context, email string) (time.Time, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT created_at FROM login_attempts
		WHERE email = ? AND success = 0
		ORDER BY created_at DESC LIMIT 1`, email)

	var at time.Time
	if err := row.Scan(&at); err != nil {
		return time.Time{}, mapNotFound(err)
	}
	return at, nil
}

func (r *loginAttemptsRepo) DeleteLoginAttemptsBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM login_attempts WHERE created_at < ?`, cutoff)
	return err
}
