package domain

import "time"

// Role is a named permission bundle scoped to exactly one tenant. Code and
// name are unique within the tenant, not globally.
type Role struct {
	ID          string
	TenantID    string
	Code        string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
