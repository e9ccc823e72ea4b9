package sqlite

import (
	"context"
	"strings"

	"github.com/tenauth/tenauth/internal/auth/domain"
	"github.com/tenauth/tenauth/internal/auth/store"
)

type rolePrivilegesRepo struct {
	db dbtx
}

func (r *rolePrivilegesRepo) UpsertRolePrivilege(ctx context.Context, rp domain.RolePrivilege) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO role_privileges (role_id, resource_id,
			grant_create, grant_read, grant_update, grant_delete,
			grant_export, grant_import, grant_print)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (role_id, resource_id) DO UPDATE SET
			grant_create = excluded.grant_create,
			grant_read   = excluded.grant_read,
			grant_update = excluded.grant_update,
			grant_delete = excluded.grant_delete,
			grant_export = excluded.grant_export,
			grant_import = excluded.grant_import,
			grant_print  = excluded.grant_print`,
		rp.RoleID, rp.ResourceID,
		rp.Grants.Create, rp.Grants.Read, rp.Grants.Update, rp.Grants.Delete,
		rp.Grants.Export, rp.Grants.Import, rp.Grants.Print,
	)
	return mapConstraint(err)
}

func (r *rolePrivilegesRepo) DeleteRolePrivilege(ctx context.Context, roleID, resourceID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM role_privileges WHERE role_id = ? AND resource_id = ?`,
		roleID, resourceID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *rolePrivilegesRepo) ListRolePrivileges(ctx context.Context, roleID string) ([]domain.RolePrivilege, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT role_id, resource_id,
			grant_create, grant_read, grant_update, grant_delete,
			grant_export, grant_import, grant_print
		FROM role_privileges WHERE role_id = ?`,
		roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RolePrivilege
	for rows.Next() {
		var rp domain.RolePrivilege
		err := rows.Scan(&rp.RoleID, &rp.ResourceID,
			&rp.Grants.Create, &rp.Grants.Read, &rp.Grants.Update,
			&rp.Grants.Delete, &rp.Grants.Export, &rp.Grants.Import,
			&rp.Grants.Print)
		if err != nil {
			return nil, err
		}
		out = append(out, rp)
	}
	return out, rows.Err()
}

func (r *rolePrivilegesRepo) ListGrantsForRoles(ctx context.Context, roleIDs []string) ([]store.ResourceGrant, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(roleIDs)), ", ")
	args := make([]any, len(roleIDs))
	for i, id := range roleIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT ar.id, ar.code, a.active,
			rp.grant_create, rp.grant_read, rp.grant_update, rp.grant_delete,
			rp.grant_export, rp.grant_import, rp.grant_print
		FROM role_privileges rp
		JOIN app_resources ar ON ar.id = rp.resource_id
		JOIN applications a ON a.id = ar.application_id
		WHERE rp.role_id IN (`+placeholders+`) AND ar.active = 1`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.ResourceGrant
	for rows.Next() {
		var g store.ResourceGrant
		err := rows.Scan(&g.ResourceID, &g.ResourceCode, &g.ApplicationActive,
			&g.Grants.Create, &g.Grants.Read, &g.Grants.Update,
			&g.Grants.Delete, &g.Grants.Export, &g.Grants.Import,
			&g.Grants.Print)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
