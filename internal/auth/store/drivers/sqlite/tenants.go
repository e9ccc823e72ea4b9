package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/tenauth/tenauth/internal/auth/domain"
	"github.com/tenauth/tenauth/internal/auth/store"
)

type tenantsRepo struct {
	db dbtx
}

const tenantColumns = `id, code, name, description, org_count, active, created_at, updated_at`

func (r *tenantsRepo) CreateTenant(ctx context.Context, t domain.Tenant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tenants (id, code, name, description, org_count, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Code, t.Name, t.Description, t.OrgCount, t.Active, t.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *tenantsRepo) GetTenantByID(ctx context.Context, id string) (domain.Tenant, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = ?`, id)
	return scanTenant(row)
}

func (r *tenantsRepo) GetTenantByCode(ctx context.Context, code string) (domain.Tenant, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE code = ?`, code)
	return scanTenant(row)
}

func (r *tenantsRepo) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *tenantsRepo) UpdateTenant(ctx context.Context, t domain.Tenant) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tenants
		SET code = ?, name = ?, description = ?, org_count = ?, updated_at = ?
		WHERE id = ?`,
		t.Code, t.Name, t.Description, t.OrgCount, time.Now().UTC(), t.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRows(res)
}

func (r *tenantsRepo) SetTenantActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tenants SET active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *tenantsRepo) DeleteTenant(ctx context.Context, id string) error {
	// ON DELETE RESTRICT on users and roles turns a referenced delete into
	// a constraint error, mapped to ErrRestricted.
	res, err := r.db.ExecContext(ctx, `DELETE FROM tenants WHERE id = ?`, id)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRows(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (domain.Tenant, error) {
	var t domain.Tenant
	var updated sql.NullTime
	err := row.Scan(
		&t.ID, &t.Code, &t.Name, &t.Description, &t.OrgCount, &t.Active,
		&t.CreatedAt, &updated,
	)
	if err != nil {
		return domain.Tenant{}, mapNotFound(err)
	}
	t.UpdatedAt = mapNullTimePtr(updated)
	return t, nil
}

// requireRows maps a zero-row update/delete to ErrNotFound.
func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
