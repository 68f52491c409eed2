package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, password_hash, display_name, image, role_id,
	email_verified_at, deleted_at, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ? AND deleted_at IS NULL`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? AND deleted_at IS NULL`, email)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, display_name, image, role_id,
			email_verified_at, deleted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.DisplayName, u.Image,
		mapOptionalString(u.RoleID),
		mapOptionalTime(u.EmailVerifiedAt), mapOptionalTime(u.DeletedAt),
		u.CreatedAt, u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateUserRole(ctx context.Context, userID string, roleID *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET role_id = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		mapOptionalString(roleID), time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		newHash, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) SoftDeleteUser(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		now, now, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) CountByRole(ctx context.Context, roleID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role_id = ? AND deleted_at IS NULL`, roleID).
		Scan(&count)
	return count, err
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var roleID sql.NullString
	var emailVerifiedAt, deletedAt sql.NullTime

	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Image,
		&roleID, &emailVerifiedAt, &deletedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.RoleID = mapNullStringPtr(roleID)
	u.EmailVerifiedAt = mapNullTimePtr(emailVerifiedAt)
	u.DeletedAt = mapNullTimePtr(deletedAt)
	return u, nil
}

// requireRowAffected converts zero-row updates into ErrNotFound so callers
// can't silently mutate missing or deleted records.
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
