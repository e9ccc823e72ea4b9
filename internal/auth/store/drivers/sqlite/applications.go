package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/tenauth/tenauth/internal/auth/domain"
)

type applicationsRepo struct {
	db dbtx
}

const applicationColumns = `id, code, name, description, edition, version, active, created_at, updated_at`

func (r *applicationsRepo) CreateApplication(ctx context.Context, a domain.Application) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO applications (id, code, name, description, edition, version, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Code, a.Name, a.Description, a.Edition, a.Version,
		a.Active, a.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *applicationsRepo) GetApplicationByID(ctx context.Context, id string) (domain.Application, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)
	return scanApplication(row)
}

func (r *applicationsRepo) GetApplicationByCode(ctx context.Context, code string) (domain.Application, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE code = ?`, code)
	return scanApplication(row)
}

func (r *applicationsRepo) ListApplications(ctx context.Context) ([]domain.Application, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *applicationsRepo) SetApplicationActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE applications SET active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func scanApplication(row rowScanner) (domain.Application, error) {
	var a domain.Application
	var updated sql.NullTime
	err := row.Scan(
		&a.ID, &a.Code, &a.Name, &a.Description, &a.Edition, &a.Version,
		&a.Active, &a.CreatedAt, &updated,
	)
	if err != nil {
		return domain.Application{}, mapNotFound(err)
	}
	a.UpdatedAt = mapNullTimePtr(updated)
	return a, nil
}
