package service

import (
	"context"

	"github.com/tenauth/tenauth/internal/auth/domain"
	"github.com/tenauth/tenauth/internal/auth/store"
)

// PrivilegeService resolves effective permissions: the per-resource OR of the
// grant bits of every active role the user holds within the tenant.
type PrivilegeService struct {
	Store store.Store

	// IncludeInactiveApplications keeps grants on resources of a deactivated
	// application contributing. On by default: deactivation hides an
	// application from catalogs, it does not strip standing permissions.
	IncludeInactiveApplications bool
}

// ResolvePermissions returns the user's effective permissions within the
// tenant, keyed by resource id. A user with no roles gets an empty map and no
// error: deny-all, not a failure.
func (s *PrivilegeService) ResolvePermissions(ctx context.Context, userID, tenantID string) (map[string]domain.PrivilegeSet, error) {
	grants, err := s.grantsFor(ctx, userID, tenantID)
	if err != nil {
		return nil, err
	}

	perms := make(map[string]domain.PrivilegeSet, len(grants))
	for _, g := range grants {
		perms[g.ResourceID] = perms[g.ResourceID].Union(g.Grants)
	}
	return perms, nil
}

// ResolvePermissionsByCode is ResolvePermissions keyed by resource code, the
// shape API consumers want.
func (s *PrivilegeService) ResolvePermissionsByCode(ctx context.Context, userID, tenantID string) (map[string]domain.PrivilegeSet, error) {
	grants, err := s.grantsFor(ctx, userID, tenantID)
	if err != nil {
		return nil, err
	}

	perms := make(map[string]domain.PrivilegeSet, len(grants))
	for _, g := range grants {
		perms[g.ResourceCode] = perms[g.ResourceCode].Union(g.Grants)
	}
	return perms, nil
}

// CheckPermission reports whether the user holds the action bit on the
// resource identified by code. Satisfies the authorization middleware.
func (s *PrivilegeService) CheckPermission(ctx context.Context, userID, tenantID, resourceCode, action string) (bool, error) {
	grants, err := s.grantsFor(ctx, userID, tenantID)
	if err != nil {
		return false, err
	}

	var effective domain.PrivilegeSet
	for _, g := range grants {
		if g.ResourceCode == resourceCode {
			effective = effective.Union(g.Grants)
		}
	}
	return effective.Has(action), nil
}

func (s *PrivilegeService) grantsFor(ctx context.Context, userID, tenantID string) ([]store.ResourceGrant, error) {
	roleIDs, err := s.Store.UserRoles().ListUserRoleIDs(ctx, userID, tenantID)
	if err != nil {
		return nil, mapInfra(err)
	}
	if len(roleIDs) == 0 {
		return nil, nil
	}

	grants, err := s.Store.RolePrivileges().ListGrantsForRoles(ctx, roleIDs)
	if err != nil {
		return nil, mapInfra(err)
	}

	if s.IncludeInactiveApplications {
		return grants, nil
	}

	filtered := grants[:0]
	for _, g := range grants {
		if g.ApplicationActive {
			filtered = append(filtered, g)
		}
	}
	return filtered, nil
}
