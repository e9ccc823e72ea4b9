package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tenauth/tenauth/internal/auth/domain"
	"github.com/tenauth/tenauth/internal/auth/store"
	"github.com/tenauth/tenauth/pkg/idx"
)

type TenantService struct {
	Store store.Store
}

// CreateTenant registers a tenant. Codes are normalized (upper-cased,
// whitespace collapsed) before the uniqueness check so "acme co" and
// "ACME  CO" are the same tenant code.
func (s *TenantService) CreateTenant(ctx context.Context, code, name, description string) (domain.Tenant, error) {
	code = NormalizeCode(code)
	name = strings.TrimSpace(name)

	if code == "" {
		return domain.Tenant{}, NewValidationError("code", "required")
	}
	if name == "" {
		return domain.Tenant{}, NewValidationError("name", "required")
	}

	tenant := domain.Tenant{
		ID:          idx.New().String(),
		Code:        code,
		Name:        name,
		Description: strings.TrimSpace(description),
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Store.Tenants().CreateTenant(ctx, tenant); err != nil {
		return domain.Tenant{}, mapWriteErr(err)
	}
	return tenant, nil
}

func (s *TenantService) GetTenant(ctx context.Context, id string) (domain.Tenant, error) {
	t, err := s.Store.Tenants().GetTenantByID(ctx, id)
	if err != nil {
		return domain.Tenant{}, mapReadErr(err)
	}
	return t, nil
}

func (s *TenantService) GetTenantByCode(ctx context.Context, code string) (domain.Tenant, error) {
	t, err := s.Store.Tenants().GetTenantByCode(ctx, NormalizeCode(code))
	if err != nil {
		return domain.Tenant{}, mapReadErr(err)
	}
	return t, nil
}

func (s *TenantService) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	list, err := s.Store.Tenants().ListTenants(ctx)
	if err != nil {
		return nil, mapInfra(err)
	}
	return list, nil
}

func (s *TenantService) UpdateTenant(ctx context.Context, id, code, name, description string, orgCount int) (domain.Tenant, error) {
	code = NormalizeCode(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return domain.Tenant{}, NewValidationError("code", "required")
	}
	if name == "" {
		return domain.Tenant{}, NewValidationError("name", "required")
	}

	tenant, err := s.Store.Tenants().GetTenantByID(ctx, id)
	if err != nil {
		return domain.Tenant{}, mapReadErr(err)
	}

	tenant.Code = code
	tenant.Name = name
	tenant.Description = strings.TrimSpace(description)
	tenant.OrgCount = orgCount

	if err := s.Store.Tenants().UpdateTenant(ctx, tenant); err != nil {
		return domain.Tenant{}, mapWriteErr(err)
	}
	return s.GetTenant(ctx, id)
}

func (s *TenantService) ChangeTenantStatus(ctx context.Context, id string, active bool) error {
	if err := s.Store.Tenants().SetTenantActive(ctx, id, active); err != nil {
		return mapReadErr(err)
	}
	return nil
}

// DeleteTenant removes an empty tenant. Fails with ErrConflict while users
// or roles still belong to it.
func (s *TenantService) DeleteTenant(ctx context.Context, id string) error {
	if err := s.Store.Tenants().DeleteTenant(ctx, id); err != nil {
		return mapWriteErr(err)
	}
	return nil
}

// NormalizeCode upper-cases and collapses internal whitespace.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), " "))
}

// mapWriteErr translates store write failures into the service taxonomy.
func mapWriteErr(err error) error {
	switch {
	case errors.Is(err, store.ErrAlreadyExists), errors.Is(err, store.ErrRestricted):
		return errors.Join(ErrConflict, err)
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	default:
		return mapInfra(err)
	}
}

func mapReadErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return mapInfra(err)
}
