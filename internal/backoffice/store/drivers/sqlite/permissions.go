package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
)

type permissionsRepo struct {
	db dbtx
}

const permissionColumns = `id, code, description, created_at, updated_at`

func (r *permissionsRepo) GetPermissionByID(ctx context.Context, id string) (domain.Permission, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+permissionColumns+` FROM permissions WHERE id = ?`, id)
	return scanPermission(row)
}

func (r *permissionsRepo) GetPermissionByCode(ctx context.Context, code string) (domain.Permission, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+permissionColumns+` FROM permissions WHERE code = ?`, code)
	return scanPermission(row)
}

func (r *permissionsRepo) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+permissionColumns+` FROM permissions ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPermissions(rows)
}

func (r *permissionsRepo) CreatePermission(ctx context.Context, p domain.Permission) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO permissions (id, code, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Code, p.Description, p.CreatedAt, p.UpdatedAt)
	return mapConstraint(err)
}

func (r *permissionsRepo) UpdatePermission(ctx context.Context, id, code, description string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE permissions SET code = ?, description = ?, updated_at = ? WHERE id = ?`,
		code, description, time.Now().UTC(), id)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *permissionsRepo) DeletePermission(ctx context.Context, id string) error {
	// role_permissions rows go with it (ON DELETE CASCADE).
	res, err := r.db.ExecContext(ctx, `DELETE FROM permissions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *permissionsRepo) ListPermissionCodesForRole(ctx context.Context, roleID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.code
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = ?
		ORDER BY p.code`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (r *permissionsRepo) ListPermissionsForRole(ctx context.Context, roleID string) ([]domain.Permission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.code, p.description, p.created_at, p.updated_at
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = ?
		ORDER BY p.code`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPermissions(rows)
}

func scanPermission(row *sql.Row) (domain.Permission, error) {
	var p domain.Permission
	err := row.Scan(&p.ID, &p.Code, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Permission{}, mapNotFound(err)
	}
	return p, nil
}

func collectPermissions(rows *sql.Rows) ([]domain.Permission, error) {
	var perms []domain.Permission
	for rows.Next() {
		var p domain.Permission
		if err := rows.Scan(&p.ID, &p.Code, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}
