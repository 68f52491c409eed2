package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/lumenlms/backoffice/internal/backoffice/store"
)

type rolesRepo struct {
	db dbtx
}

const roleColumns = `id, name, description, is_system, created_at, updated_at`

func (r *rolesRepo) GetRoleByID(ctx context.Context, id string) (domain.Role, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE id = ?`, id)
	return scanRole(row)
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE name = ?`, name)
	return scanRole(row)
}

func (r *rolesRepo) ListRoles(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+roleColumns+` FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.IsSystem,
			&role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	now := time.Now().UTC()
	if role.CreatedAt.IsZero() {
		role.CreatedAt = now
	}
	if role.UpdatedAt.IsZero() {
		role.UpdatedAt = now
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO roles (id, name, description, is_system, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		role.ID, role.Name, role.Description, role.IsSystem, role.CreatedAt, role.UpdatedAt)
	return mapConstraint(err)
}

func (r *rolesRepo) UpdateRole(ctx context.Context, roleID, name, description string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE roles SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		name, description, time.Now().UTC(), roleID)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *rolesRepo) DeleteRole(ctx context.Context, roleID string) error {
	var refs int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role_id = ? AND deleted_at IS NULL`, roleID).
		Scan(&refs)
	if err != nil {
		return err
	}
	if refs > 0 {
		return store.ErrConflict
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, roleID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// ReplaceRolePermissions deletes then recreates the role's permission joins.
// Callers run this inside a transaction; last writer wins on concurrent
// edits of the same role.
func (r *rolesRepo) ReplaceRolePermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM role_permissions WHERE role_id = ?`, roleID); err != nil {
		return err
	}
	for _, permissionID := range permissionIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?)`,
			roleID, permissionID); err != nil {
			return mapConstraint(err)
		}
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE roles SET updated_at = ? WHERE id = ?`, time.Now().UTC(), roleID)
	return err
}

func (r *rolesRepo) ListRoleIDsWithPermission(ctx context.Context, permissionID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT role_id FROM role_permissions WHERE permission_id = ?`, permissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roleIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		roleIDs = append(roleIDs, id)
	}
	return roleIDs, rows.Err()
}

func scanRole(row *sql.Row) (domain.Role, error) {
	var role domain.Role
	err := row.Scan(&role.ID, &role.Name, &role.Description, &role.IsSystem,
		&role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return role, nil
}
