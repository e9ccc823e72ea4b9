package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/tenauth/tenauth/internal/auth/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, tenant_id, username, email, first_name, last_name,
	password_hash, active, last_login_at, created_at, updated_at`

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, tenant_id, username, email, first_name, last_name,
			password_hash, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.TenantID, u.Username, u.Email, u.FirstName, u.LastName,
		u.PasswordHash, u.Active, u.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByNameOrEmail(ctx context.Context, nameOrEmail string) (domain.User, error) {
	// username and email columns are COLLATE NOCASE, so = is case-insensitive.
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? OR email = ?`,
		nameOrEmail, nameOrEmail)
	return scanUser(row)
}

func (r *usersRepo) ListTenantUsers(ctx context.Context, tenantID string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE tenant_id = ? ORDER BY username`,
		tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *usersRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, at, userID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *usersRepo) SetUserActive(ctx context.Context, userID string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	// refresh_tokens and user_roles cascade per schema.
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	var lastLogin, updated sql.NullTime
	err := row.Scan(
		&u.ID, &u.TenantID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.Active, &lastLogin, &u.CreatedAt, &updated,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.LastLoginAt = mapNullTimePtr(lastLogin)
	u.UpdatedAt = mapNullTimePtr(updated)
	return u, nil
}
