package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tenauth/tenauth/internal/auth/domain"
	"github.com/tenauth/tenauth/internal/auth/store"
	"github.com/tenauth/tenauth/pkg/cryptox"
	"github.com/tenauth/tenauth/pkg/idx"
	"github.com/tenauth/tenauth/pkg/slogx"
)

// Seed identifiers for the service's own catalog entries and the first
// tenant. The AUTH resource guards the administrative API.
const (
	SeedApplicationCode = "TENAUTH"
	SeedResourceCode    = "AUTH"
	SeedTenantCode      = "SYSTEM"
	SeedAdminRoleCode   = "ADMIN"
	SeedAdminUsername   = "admin"
)

var ErrBootstrapAlready = errors.New("system already bootstrapped")

// BootstrapService seeds a fresh database: the service's own application and
// admin resource, a system tenant, an all-bits admin role, and the first
// admin user. Without it no caller could pass the admin privilege check.
type BootstrapService struct {
	Store store.Store
}

// IsBootstrapped reports whether the system tenant already exists.
func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	_, err := s.Store.Tenants().GetTenantByCode(ctx, SeedTenantCode)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Bootstrap seeds the catalog and the first admin. Returns the admin's email
// login. Safe to skip once run: a second call fails with ErrBootstrapAlready.
func (s *BootstrapService) Bootstrap(ctx context.Context, adminEmail, adminPassword string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if done, err := s.IsBootstrapped(ctx); err != nil {
		return domain.User{}, err
	} else if done {
		return domain.User{}, ErrBootstrapAlready
	}

	if adminEmail == "" {
		return domain.User{}, NewValidationError("admin_email", "required")
	}
	if len(adminPassword) < MinPasswordLen {
		return domain.User{}, NewValidationError("admin_password", "too short")
	}

	passHash, err := cryptox.HashPassword(adminPassword)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	allBits := domain.PrivilegeSet{
		Create: true, Read: true, Update: true, Delete: true,
		Export: true, Import: true, Print: true,
	}

	tenant := domain.Tenant{
		ID: idx.New().String(), Code: SeedTenantCode, Name: "System",
		Description: "Tenant of the service operators", Active: true, CreatedAt: now,
	}
	app := domain.Application{
		ID: idx.New().String(), Code: SeedApplicationCode, Name: "Tenauth",
		Description: "Authentication and authorization service", Active: true, CreatedAt: now,
	}
	resource := domain.AppResource{
		ID: idx.New().String(), ApplicationID: app.ID,
		Code: SeedResourceCode, Name: "Administration",
		Description:  "Administrative API surface",
		Capabilities: allBits, Active: true, CreatedAt: now,
	}
	role := domain.Role{
		ID: idx.New().String(), TenantID: tenant.ID,
		Code: SeedAdminRoleCode, Name: "Administrator",
		Active: true, CreatedAt: now,
	}
	admin := domain.User{
		ID: idx.New().String(), TenantID: tenant.ID,
		Username: SeedAdminUsername, Email: adminEmail,
		PasswordHash: passHash, Active: true, CreatedAt: now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tenants().CreateTenant(ctx, tenant); err != nil {
			return err
		}
		if err := tx.Applications().CreateApplication(ctx, app); err != nil {
			return err
		}
		if err := tx.AppResources().CreateAppResource(ctx, resource); err != nil {
			return err
		}
		if err := tx.Roles().CreateRole(ctx, role); err != nil {
			return err
		}
		if err := tx.RolePrivileges().UpsertRolePrivilege(ctx, domain.RolePrivilege{
			RoleID: role.ID, ResourceID: resource.ID, Grants: allBits,
		}); err != nil {
			return err
		}
		if err := tx.Users().CreateUser(ctx, admin); err != nil {
			return err
		}
		return tx.UserRoles().AssignRole(ctx, admin.ID, role.ID)
	})
	if err != nil {
		return domain.User{}, mapWriteErr(err)
	}

	l.Info("system bootstrapped",
		slog.String("tenant_id", tenant.ID),
		slog.String("admin_user_id", admin.ID),
	)
	return admin, nil
}
