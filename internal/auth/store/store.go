package store

import (
	"context"
	"errors"
	"time"

	"github.com/tenauth/tenauth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrRestricted reports a delete blocked by referencing child rows
	// (e.g. a tenant that still owns users or roles).
	ErrRestricted = errors.New("store: delete restricted by references")

	// ErrStale reports a compare-and-swap update that matched no row because
	// another writer got there first. The refresh rotation race resolves
	// through this error: exactly one of two concurrent rotations sees it.
	ErrStale = errors.New("store: row already modified")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement it. Sub-repositories keep the surface tidy and make it obvious
// which tables an operation touches.
type Store interface {
	Tenants() Tenants
	Users() Users
	Roles() Roles
	UserRoles() UserRoles
	RolePrivileges() RolePrivileges
	Applications() Applications
	AppResources() AppResources
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction: rolled back if fn errors,
	// committed otherwise. Multi-step operations that must be atomic
	// (refresh rotation, chain containment) go through this.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Tenants interface {
	CreateTenant(ctx context.Context, t domain.Tenant) error
	GetTenantByID(ctx context.Context, id string) (domain.Tenant, error)
	GetTenantByCode(ctx context.Context, code string) (domain.Tenant, error)
	ListTenants(ctx context.Context) ([]domain.Tenant, error)

	// UpdateTenant rewrites the mutable fields (code, name, description,
	// org_count) and bumps updated_at.
	UpdateTenant(ctx context.Context, t domain.Tenant) error

	SetTenantActive(ctx context.Context, id string, active bool) error

	// DeleteTenant fails with ErrRestricted while users or roles still
	// reference the tenant.
	DeleteTenant(ctx context.Context, id string) error
}

type Users interface {
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByNameOrEmail matches username OR email, case-insensitively.
	// Login goes through this single lookup.
	GetUserByNameOrEmail(ctx context.Context, nameOrEmail string) (domain.User, error)

	ListTenantUsers(ctx context.Context, tenantID string) ([]domain.User, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	SetUserActive(ctx context.Context, userID string, active bool) error

	// DeleteUser cascades to refresh_tokens and user_roles (per schema).
	DeleteUser(ctx context.Context, userID string) error
}

type Roles interface {
	CreateRole(ctx context.Context, r domain.Role) error
	GetRoleByID(ctx context.Context, id string) (domain.Role, error)
	ListTenantRoles(ctx context.Context, tenantID string) ([]domain.Role, error)
	UpdateRole(ctx context.Context, r domain.Role) error
	SetRoleActive(ctx context.Context, roleID string, active bool) error

	// DeleteRole cascades to role_privileges and user_roles (per schema).
	DeleteRole(ctx context.Context, roleID string) error
}

type UserRoles interface {
	AssignRole(ctx context.Context, userID, roleID string) error
	UnassignRole(ctx context.Context, userID, roleID string) error

	// ListUserRoleIDs returns the ids of active roles assigned to the user
	// that belong to the given tenant. Roles outside the tenant never
	// appear, whatever the assignment table says; deactivated roles stop
	// contributing privileges without being unassigned.
	ListUserRoleIDs(ctx context.Context, userID, tenantID string) ([]string, error)
}

type RolePrivileges interface {
	// UpsertRolePrivilege inserts or replaces the grant row for
	// (RoleID, ResourceID).
	UpsertRolePrivilege(ctx context.Context, rp domain.RolePrivilege) error

	DeleteRolePrivilege(ctx context.Context, roleID, resourceID string) error
	ListRolePrivileges(ctx context.Context, roleID string) ([]domain.RolePrivilege, error)

	// ListGrantsForRoles returns every (resource, grants) row across the
	// given roles, joined with the resource so the resolver can aggregate by
	// resource and the caller can filter on application activity.
	ListGrantsForRoles(ctx context.Context, roleIDs []string) ([]ResourceGrant, error)
}

// ResourceGrant is one privilege row as seen by the resolver: the grants of a
// single role on a single resource, with enough resource context to key and
// filter the result.
type ResourceGrant struct {
	ResourceID        string
	ResourceCode      string
	ApplicationActive bool
	Grants            domain.PrivilegeSet
}

type Applications interface {
	CreateApplication(ctx context.Context, a domain.Application) error
	GetApplicationByID(ctx context.Context, id string) (domain.Application, error)
	GetApplicationByCode(ctx context.Context, code string) (domain.Application, error)
	ListApplications(ctx context.Context) ([]domain.Application, error)
	SetApplicationActive(ctx context.Context, id string, active bool) error
}

type AppResources interface {
	CreateAppResource(ctx context.Context, r domain.AppResource) error
	GetAppResourceByID(ctx context.Context, id string) (domain.AppResource, error)
	ListApplicationResources(ctx context.Context, applicationID string) ([]domain.AppResource, error)
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken marks the row revoked iff it is still unrevoked
	// (compare-and-swap on revoked_at IS NULL). replacedByHash may be empty
	// for explicit logout. Returns ErrStale when the row was already revoked
	// and ErrNotFound when no such row exists.
	RevokeRefreshToken(ctx context.Context, hash, revokedByIP, replacedByHash string, at time.Time) error

	// DeleteExpiredRefreshTokens removes rows whose expiry is older than the
	// cutoff. Revoked-but-unexpired rows are kept for reuse detection.
	DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) error
}
