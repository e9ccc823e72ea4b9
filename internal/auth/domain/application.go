package domain

import "time"

// Application groups protected resources. The catalog is administered
// elsewhere; this service reads it for privilege resolution and validates
// grant bits against resource capabilities.
type Application struct {
	ID          string
	Code        string // unique
	Name        string // unique
	Description string
	Edition     string
	Version     string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// AppResource is a protected capability surface within an application, e.g.
// "Invoices". The capability flags say which privilege bits are meaningful
// for this resource; a grant on an unsupported bit is a data-integrity error.
type AppResource struct {
	ID            string
	ApplicationID string
	Code          string // unique per application
	Name          string // unique per application
	Description   string
	Capabilities  PrivilegeSet
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
