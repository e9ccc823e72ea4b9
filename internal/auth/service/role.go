package service

import (
	"context"
	"strings"
	"time"

	"github.com/tenauth/tenauth/internal/auth/domain"
	"github.com/tenauth/tenauth/internal/auth/store"
	"github.com/tenauth/tenauth/pkg/idx"
)

type RoleService struct {
	Store store.Store
}

func (s *RoleService) CreateRole(ctx context.Context, tenantID, code, name, description string) (domain.Role, error) {
	code = NormalizeCode(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return domain.Role{}, NewValidationError("code", "required")
	}
	if name == "" {
		return domain.Role{}, NewValidationError("name", "required")
	}

	if _, err := s.Store.Tenants().GetTenantByID(ctx, tenantID); err != nil {
		return domain.Role{}, mapReadErr(err)
	}

	role := domain.Role{
		ID:          idx.New().String(),
		TenantID:    tenantID,
		Code:        code,
		Name:        name,
		Description: strings.TrimSpace(description),
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Store.Roles().CreateRole(ctx, role); err != nil {
		return domain.Role{}, mapWriteErr(err)
	}
	return role, nil
}

func (s *RoleService) GetRole(ctx context.Context, roleID string) (domain.Role, error) {
	r, err := s.Store.Roles().GetRoleByID(ctx, roleID)
	if err != nil {
		return domain.Role{}, mapReadErr(err)
	}
	return r, nil
}

func (s *RoleService) ListTenantRoles(ctx context.Context, tenantID string) ([]domain.Role, error) {
	list, err := s.Store.Roles().ListTenantRoles(ctx, tenantID)
	if err != nil {
		return nil, mapInfra(err)
	}
	return list, nil
}

func (s *RoleService) UpdateRole(ctx context.Context, roleID, code, name, description string) (domain.Role, error) {
	code = NormalizeCode(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return domain.Role{}, NewValidationError("code", "required")
	}
	if name == "" {
		return domain.Role{}, NewValidationError("name", "required")
	}

	role, err := s.Store.Roles().GetRoleByID(ctx, roleID)
	if err != nil {
		return domain.Role{}, mapReadErr(err)
	}

	role.Code = code
	role.Name = name
	role.Description = strings.TrimSpace(description)

	if err := s.Store.Roles().UpdateRole(ctx, role); err != nil {
		return domain.Role{}, mapWriteErr(err)
	}
	return s.GetRole(ctx, roleID)
}

func (s *RoleService) ChangeRoleStatus(ctx context.Context, roleID string, active bool) error {
	if err := s.Store.Roles().SetRoleActive(ctx, roleID, active); err != nil {
		return mapReadErr(err)
	}
	return nil
}

// DeleteRole removes a role; its privileges and assignments cascade.
func (s *RoleService) DeleteRole(ctx context.Context, roleID string) error {
	if err := s.Store.Roles().DeleteRole(ctx, roleID); err != nil {
		return mapWriteErr(err)
	}
	return nil
}

// SetRolePrivilege grants (or regrants) the role a set of action bits on a
// resource. The grant must be a subset of the resource's capability bits:
// granting "print" on a resource that cannot print is a data error, caught
// here rather than at resolution time.
func (s *RoleService) SetRolePrivilege(ctx context.Context, roleID, resourceID string, grants domain.PrivilegeSet) error {
	role, err := s.Store.Roles().GetRoleByID(ctx, roleID)
	if err != nil {
		return mapReadErr(err)
	}

	res, err := s.Store.AppResources().GetAppResourceByID(ctx, resourceID)
	if err != nil {
		return mapReadErr(err)
	}

	if !grants.SubsetOf(res.Capabilities) {
		return NewValidationError("grants", "exceed the capabilities of resource "+res.Code)
	}

	rp := domain.RolePrivilege{
		RoleID:     role.ID,
		ResourceID: res.ID,
		Grants:     grants,
	}
	if err := s.Store.RolePrivileges().UpsertRolePrivilege(ctx, rp); err != nil {
		return mapWriteErr(err)
	}
	return nil
}

func (s *RoleService) RemoveRolePrivilege(ctx context.Context, roleID, resourceID string) error {
	if err := s.Store.RolePrivileges().DeleteRolePrivilege(ctx, roleID, resourceID); err != nil {
		return mapReadErr(err)
	}
	return nil
}

func (s *RoleService) ListRolePrivileges(ctx context.Context, roleID string) ([]domain.RolePrivilege, error) {
	list, err := s.Store.RolePrivileges().ListRolePrivileges(ctx, roleID)
	if err != nil {
		return nil, mapInfra(err)
	}
	return list, nil
}
