package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tenauth/tenauth/internal/auth/store/drivers/sqlite"
)

func newAdminStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestCreateTenantNormalizesCode(t *testing.T) {
	ctx := context.Background()
	st := newAdminStore(t)
	svc := &TenantService{Store: st}

	tenant, err := svc.CreateTenant(ctx, "  acme   co ", "Acme Co", "")
	require.NoError(t, err)
	require.Equal(t, "ACME CO", tenant.Code)

	// The normalized forms collide.
	_, err = svc.CreateTenant(ctx, "ACME  CO", "Another", "")
	require.ErrorIs(t, err, ErrConflict)

	// And lookup by any spelling of the code works.
	got, err := svc.GetTenantByCode(ctx, "acme co")
	require.NoError(t, err)
	require.Equal(t, tenant.ID, got.ID)
}

func TestCreateTenantValidation(t *testing.T) {
	ctx := context.Background()
	st := newAdminStore(t)
	svc := &TenantService{Store: st}

	_, err := svc.CreateTenant(ctx, "", "Name", "")
	require.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.CreateTenant(ctx, "code", "   ", "")
	require.ErrorIs(t, err, ErrValidationFailed)
}

func TestDeleteTenantBlockedByMembers(t *testing.T) {
	ctx := context.Background()
	st := newAdminStore(t)
	tenants := &TenantService{Store: st}
	users := &UserService{Store: st}

	tenant, err := tenants.CreateTenant(ctx, "acme", "Acme", "")
	require.NoError(t, err)

	user, err := users.RegisterUser(ctx, RegisterUserInput{
		TenantID: tenant.ID,
		Username: "alice",
		Email:    "alice@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)

	require.ErrorIs(t, tenants.DeleteTenant(ctx, tenant.ID), ErrConflict)

	// Emptied out, the delete goes through.
	require.NoError(t, users.DeleteUser(ctx, user.ID))
	require.NoError(t, tenants.DeleteTenant(ctx, tenant.ID))

	_, err = tenants.GetTenant(ctx, tenant.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterUserValidation(t *testing.T) {
	ctx := context.Background()
	st := newAdminStore(t)
	tenants := &TenantService{Store: st}
	users := &UserService{Store: st}

	tenant, err := tenants.CreateTenant(ctx, "acme", "Acme", "")
	require.NoError(t, err)

	cases := []struct {
		name string
		in   RegisterUserInput
	}{
		{"missing username", RegisterUserInput{TenantID: tenant.ID, Email: "a@b.co", Password: testPassword}},
		{"bad email", RegisterUserInput{TenantID: tenant.ID, Username: "bob", Email: "not-an-email", Password: testPassword}},
		{"short password", RegisterUserInput{TenantID: tenant.ID, Username: "bob", Email: "bob@b.co", Password: "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := users.RegisterUser(ctx, tc.in)
			require.ErrorIs(t, err, ErrValidationFailed)
		})
	}

	_, err = users.RegisterUser(ctx, RegisterUserInput{
		TenantID: idNotThere(), Username: "bob", Email: "bob@b.co", Password: testPassword,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	st := newAdminStore(t)
	tenants := &TenantService{Store: st}
	users := &UserService{Store: st}

	tenant, err := tenants.CreateTenant(ctx, "acme", "Acme", "")
	require.NoError(t, err)

	_, err = users.RegisterUser(ctx, RegisterUserInput{
		TenantID: tenant.ID, Username: "alice", Email: "alice@example.com", Password: testPassword,
	})
	require.NoError(t, err)

	_, err = users.RegisterUser(ctx, RegisterUserInput{
		TenantID: tenant.ID, Username: "alice2", Email: "ALICE@example.com", Password: testPassword,
	})
	require.ErrorIs(t, err, ErrConflict)
}

func TestAssignRoleRejectsCrossTenant(t *testing.T) {
	ctx := context.Background()
	st := newAdminStore(t)
	tenants := &TenantService{Store: st}
	users := &UserService{Store: st}
	roles := &RoleService{Store: st}

	home, err := tenants.CreateTenant(ctx, "home", "Home", "")
	require.NoError(t, err)
	away, err := tenants.CreateTenant(ctx, "away", "Away", "")
	require.NoError(t, err)

	user, err := users.RegisterUser(ctx, RegisterUserInput{
		TenantID: home.ID, Username: "alice", Email: "alice@example.com", Password: testPassword,
	})
	require.NoError(t, err)

	foreign, err := roles.CreateRole(ctx, away.ID, "admin", "Admin", "")
	require.NoError(t, err)

	err = users.AssignRole(ctx, user.ID, foreign.ID)
	require.ErrorIs(t, err, ErrValidationFailed)
}

func idNotThere() string {
	return "01J00000000000000000000000"
}
