package sqlite

import (
	"context"
	"time"
)

type userRolesRepo struct {
	db dbtx
}

func (r *userRolesRepo) AssignRole(ctx context.Context, userID, roleID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role_id, created_at)
		VALUES (?, ?, ?)`,
		userID, roleID, time.Now().UTC(),
	)
	return mapConstraint(err)
}

func (r *userRolesRepo) UnassignRole(ctx context.Context, userID, roleID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_id = ? AND role_id = ?`,
		userID, roleID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *userRolesRepo) ListUserRoleIDs(ctx context.Context, userID, tenantID string) ([]string, error) {
	// Joining roles on tenant_id fences assignments to the tenant: an
	// out-of-tenant role in user_roles contributes nothing.
	rows, err := r.db.QueryContext(ctx, `
		SELECT ur.role_id
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = ? AND r.tenant_id = ? AND r.active = 1`,
		userID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
