package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/tenauth/tenauth/internal/auth/domain"
)

type rolesRepo struct {
	db dbtx
}

const roleColumns = `id, tenant_id, code, name, description, active, created_at, updated_at`

func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO roles (id, tenant_id, code, name, description, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		role.ID, role.TenantID, role.Code, role.Name, role.Description,
		role.Active, role.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *rolesRepo) GetRoleByID(ctx context.Context, id string) (domain.Role, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE id = ?`, id)
	return scanRole(row)
}

func (r *rolesRepo) ListTenantRoles(ctx context.Context, tenantID string) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE tenant_id = ? ORDER BY code`,
		tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

func (r *rolesRepo) UpdateRole(ctx context.Context, role domain.Role) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE roles SET code = ?, name = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		role.Code, role.Name, role.Description, time.Now().UTC(), role.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRows(res)
}

func (r *rolesRepo) SetRoleActive(ctx context.Context, roleID string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE roles SET active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), roleID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *rolesRepo) DeleteRole(ctx context.Context, roleID string) error {
	// role_privileges and user_roles cascade per schema.
	res, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, roleID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func scanRole(row rowScanner) (domain.Role, error) {
	var role domain.Role
	var updated sql.NullTime
	err := row.Scan(
		&role.ID, &role.TenantID, &role.Code, &role.Name, &role.Description,
		&role.Active, &role.CreatedAt, &updated,
	)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	role.UpdatedAt = mapNullTimePtr(updated)
	return role, nil
}
