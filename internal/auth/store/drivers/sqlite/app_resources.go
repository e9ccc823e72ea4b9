package sqlite

import (
	"context"
	"database/sql"

	"github.com/tenauth/tenauth/internal/auth/domain"
)

type appResourcesRepo struct {
	db dbtx
}

const appResourceColumns = `id, application_id, code, name, description,
	can_create, can_read, can_update, can_delete, can_export, can_import, can_print,
	active, created_at, updated_at`

func (r *appResourcesRepo) CreateAppResource(ctx context.Context, res domain.AppResource) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO app_resources (id, application_id, code, name, description,
			can_create, can_read, can_update, can_delete, can_export, can_import, can_print,
			active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.ApplicationID, res.Code, res.Name, res.Description,
		res.Capabilities.Create, res.Capabilities.Read, res.Capabilities.Update,
		res.Capabilities.Delete, res.Capabilities.Export, res.Capabilities.Import,
		res.Capabilities.Print, res.Active, res.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *appResourcesRepo) GetAppResourceByID(ctx context.Context, id string) (domain.AppResource, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+appResourceColumns+` FROM app_resources WHERE id = ?`, id)
	return scanAppResource(row)
}

func (r *appResourcesRepo) ListApplicationResources(ctx context.Context, applicationID string) ([]domain.AppResource, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+appResourceColumns+` FROM app_resources WHERE application_id = ? ORDER BY code`,
		applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AppResource
	for rows.Next() {
		res, err := scanAppResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func scanAppResource(row rowScanner) (domain.AppResource, error) {
	var res domain.AppResource
	var updated sql.NullTime
	err := row.Scan(
		&res.ID, &res.ApplicationID, &res.Code, &res.Name, &res.Description,
		&res.Capabilities.Create, &res.Capabilities.Read, &res.Capabilities.Update,
		&res.Capabilities.Delete, &res.Capabilities.Export, &res.Capabilities.Import,
		&res.Capabilities.Print, &res.Active, &res.CreatedAt, &updated,
	)
	if err != nil {
		return domain.AppResource{}, mapNotFound(err)
	}
	res.UpdatedAt = mapNullTimePtr(updated)
	return res, nil
}
