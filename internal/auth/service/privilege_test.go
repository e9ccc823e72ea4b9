package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tenauth/tenauth/internal/auth/domain"
	"github.com/tenauth/tenauth/internal/auth/store/drivers/sqlite"
)

// privilegeFixture wires a tenant with two roles, an application with two
// resources, and a user holding both roles.
type privilegeFixture struct {
	store  *sqlite.Store
	tenant domain.Tenant
	user   domain.User
	viewer domain.Role
	editor domain.Role
	app    domain.Application
	orders domain.AppResource
	items  domain.AppResource
}

func newPrivilegeFixture(t *testing.T) *privilegeFixture {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	f := &privilegeFixture{store: st}

	tenants := &TenantService{Store: st}
	f.tenant, err = tenants.CreateTenant(ctx, "acme", "Acme Corp", "")
	require.NoError(t, err)

	users := &UserService{Store: st}
	f.user, err = users.RegisterUser(ctx, RegisterUserInput{
		TenantID: f.tenant.ID,
		Username: "alice",
		Email:    "alice@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)

	roles := &RoleService{Store: st}
	f.viewer, err = roles.CreateRole(ctx, f.tenant.ID, "viewer", "Viewer", "")
	require.NoError(t, err)
	f.editor, err = roles.CreateRole(ctx, f.tenant.ID, "editor", "Editor", "")
	require.NoError(t, err)

	apps := &ApplicationService{Store: st}
	f.app, err = apps.CreateApplication(ctx, "erp", "ERP", "", "", "")
	require.NoError(t, err)

	allBits := domain.PrivilegeSet{
		Create: true, Read: true, Update: true, Delete: true,
		Export: true, Import: true, Print: true,
	}
	f.orders, err = apps.CreateAppResource(ctx, f.app.ID, "orders", "Orders", "", allBits)
	require.NoError(t, err)
	f.items, err = apps.CreateAppResource(ctx, f.app.ID, "items", "Items", "",
		domain.PrivilegeSet{Read: true, Update: true})
	require.NoError(t, err)

	require.NoError(t, users.AssignRole(ctx, f.user.ID, f.viewer.ID))
	require.NoError(t, users.AssignRole(ctx, f.user.ID, f.editor.ID))

	return f
}

func TestResolvePermissionsUnionsAcrossRoles(t *testing.T) {
	ctx := context.Background()
	f := newPrivilegeFixture(t)
	roles := &RoleService{Store: f.store}

	require.NoError(t, roles.SetRolePrivilege(ctx, f.viewer.ID, f.orders.ID,
		domain.PrivilegeSet{Read: true, Export: true}))
	require.NoError(t, roles.SetRolePrivilege(ctx, f.editor.ID, f.orders.ID,
		domain.PrivilegeSet{Create: true, Read: true, Update: true}))
	require.NoError(t, roles.SetRolePrivilege(ctx, f.viewer.ID, f.items.ID,
		domain.PrivilegeSet{Read: true}))

	resolver := &PrivilegeService{Store: f.store, IncludeInactiveApplications: true}
	perms, err := resolver.ResolvePermissions(ctx, f.user.ID, f.tenant.ID)
	require.NoError(t, err)
	require.Len(t, perms, 2)

	require.Equal(t, domain.PrivilegeSet{
		Create: true, Read: true, Update: true, Export: true,
	}, perms[f.orders.ID], "orders bits must be the union of both roles")
	require.Equal(t, domain.PrivilegeSet{Read: true}, perms[f.items.ID])

	// Bits nobody granted stay off.
	require.False(t, perms[f.orders.ID].Delete)
	require.False(t, perms[f.orders.ID].Print)
}

func TestResolvePermissionsNoRolesIsEmptyMap(t *testing.T) {
	ctx := context.Background()
	f := newPrivilegeFixture(t)
	users := &UserService{Store: f.store}

	require.NoError(t, users.UnassignRole(ctx, f.user.ID, f.viewer.ID))
	require.NoError(t, users.UnassignRole(ctx, f.user.ID, f.editor.ID))

	resolver := &PrivilegeService{Store: f.store, IncludeInactiveApplications: true}
	perms, err := resolver.ResolvePermissions(ctx, f.user.ID, f.tenant.ID)
	require.NoError(t, err, "no roles is deny-all, not an error")
	require.Empty(t, perms)
}

func TestResolvePermissionsTenantIsolation(t *testing.T) {
	ctx := context.Background()
	f := newPrivilegeFixture(t)
	roles := &RoleService{Store: f.store}

	require.NoError(t, roles.SetRolePrivilege(ctx, f.viewer.ID, f.orders.ID,
		domain.PrivilegeSet{Read: true}))

	// Resolving against a different tenant yields nothing, even though the
	// user genuinely holds roles elsewhere.
	tenants := &TenantService{Store: f.store}
	other, err := tenants.CreateTenant(ctx, "other", "Other Corp", "")
	require.NoError(t, err)

	resolver := &PrivilegeService{Store: f.store, IncludeInactiveApplications: true}
	perms, err := resolver.ResolvePermissions(ctx, f.user.ID, other.ID)
	require.NoError(t, err)
	require.Empty(t, perms)
}

func TestResolvePermissionsInactiveApplicationPolicy(t *testing.T) {
	ctx := context.Background()
	f := newPrivilegeFixture(t)
	roles := &RoleService{Store: f.store}
	apps := &ApplicationService{Store: f.store}

	require.NoError(t, roles.SetRolePrivilege(ctx, f.viewer.ID, f.orders.ID,
		domain.PrivilegeSet{Read: true}))
	require.NoError(t, apps.ChangeApplicationStatus(ctx, f.app.ID, false))

	t.Run("default keeps contributing", func(t *testing.T) {
		resolver := &PrivilegeService{Store: f.store, IncludeInactiveApplications: true}
		perms, err := resolver.ResolvePermissions(ctx, f.user.ID, f.tenant.ID)
		require.NoError(t, err)
		require.True(t, perms[f.orders.ID].Read)
	})

	t.Run("strict mode drops inactive applications", func(t *testing.T) {
		resolver := &PrivilegeService{Store: f.store, IncludeInactiveApplications: false}
		perms, err := resolver.ResolvePermissions(ctx, f.user.ID, f.tenant.ID)
		require.NoError(t, err)
		require.Empty(t, perms)
	})
}

func TestInactiveRoleStopsContributing(t *testing.T) {
	ctx := context.Background()
	f := newPrivilegeFixture(t)
	roles := &RoleService{Store: f.store}

	require.NoError(t, roles.SetRolePrivilege(ctx, f.viewer.ID, f.orders.ID,
		domain.PrivilegeSet{Read: true}))
	require.NoError(t, roles.ChangeRoleStatus(ctx, f.viewer.ID, false))

	resolver := &PrivilegeService{Store: f.store, IncludeInactiveApplications: true}
	perms, err := resolver.ResolvePermissions(ctx, f.user.ID, f.tenant.ID)
	require.NoError(t, err)
	require.Empty(t, perms)
}

func TestSetRolePrivilegeEnforcesCapabilitySubset(t *testing.T) {
	ctx := context.Background()
	f := newPrivilegeFixture(t)
	roles := &RoleService{Store: f.store}

	// items supports only read+update; granting print must be rejected.
	err := roles.SetRolePrivilege(ctx, f.viewer.ID, f.items.ID,
		domain.PrivilegeSet{Read: true, Print: true})
	require.ErrorIs(t, err, ErrValidationFailed)

	// Within capability it sticks.
	require.NoError(t, roles.SetRolePrivilege(ctx, f.viewer.ID, f.items.ID,
		domain.PrivilegeSet{Read: true, Update: true}))
}

func TestCheckPermission(t *testing.T) {
	ctx := context.Background()
	f := newPrivilegeFixture(t)
	roles := &RoleService{Store: f.store}

	require.NoError(t, roles.SetRolePrivilege(ctx, f.editor.ID, f.orders.ID,
		domain.PrivilegeSet{Read: true, Update: true}))

	resolver := &PrivilegeService{Store: f.store, IncludeInactiveApplications: true}

	ok, err := resolver.CheckPermission(ctx, f.user.ID, f.tenant.ID, "ORDERS", domain.ActionUpdate)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = resolver.CheckPermission(ctx, f.user.ID, f.tenant.ID, "ORDERS", domain.ActionDelete)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = resolver.CheckPermission(ctx, f.user.ID, f.tenant.ID, "UNKNOWN", domain.ActionRead)
	require.NoError(t, err)
	require.False(t, ok)
}
