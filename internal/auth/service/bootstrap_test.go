package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tenauth/tenauth/internal/auth/domain"
)

func TestBootstrapSeedsCatalogAndAdmin(t *testing.T) {
	st := newAdminStore(t)
	boot := &BootstrapService{Store: st}

	done, err := boot.IsBootstrapped(t.Context())
	require.NoError(t, err)
	require.False(t, done)

	admin, err := boot.Bootstrap(t.Context(), "root@example.com", "a long enough password")
	require.NoError(t, err)
	require.Equal(t, SeedAdminUsername, admin.Username)
	require.Equal(t, "root@example.com", admin.Email)

	done, err = boot.IsBootstrapped(t.Context())
	require.NoError(t, err)
	require.True(t, done)

	tenant, err := st.Tenants().GetTenantByCode(t.Context(), SeedTenantCode)
	require.NoError(t, err)
	require.Equal(t, tenant.ID, admin.TenantID)

	// The admin holds every action bit on the seeded admin resource.
	privs := &PrivilegeService{Store: st}
	ok, err := privs.CheckPermission(t.Context(), admin.ID, admin.TenantID, SeedResourceCode, domain.ActionDelete)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = privs.CheckPermission(t.Context(), admin.ID, admin.TenantID, SeedResourceCode, domain.ActionPrint)
	require.NoError(t, err)
	require.True(t, ok)

	perms, err := privs.ResolvePermissionsByCode(t.Context(), admin.ID, admin.TenantID)
	require.NoError(t, err)
	require.Equal(t, domain.PrivilegeSet{
		Create: true, Read: true, Update: true, Delete: true,
		Export: true, Import: true, Print: true,
	}, perms[SeedResourceCode])
}

func TestBootstrapRunsOnlyOnce(t *testing.T) {
	st := newAdminStore(t)
	boot := &BootstrapService{Store: st}

	_, err := boot.Bootstrap(t.Context(), "root@example.com", "a long enough password")
	require.NoError(t, err)

	_, err = boot.Bootstrap(t.Context(), "other@example.com", "a different password")
	require.ErrorIs(t, err, ErrBootstrapAlready)
}
