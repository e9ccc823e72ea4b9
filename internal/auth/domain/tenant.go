package domain

import "time"

// Tenant is the isolation boundary. Users and roles belong to exactly one
// tenant; privilege resolution never crosses it.
type Tenant struct {
	ID          string
	Code        string // unique, upper-cased
	Name        string // unique
	Description string
	OrgCount    int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
