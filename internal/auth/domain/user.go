package domain

import "time"

type User struct {
	ID           string
	TenantID     string
	Username     string // unique
	Email        string // unique
	FirstName    string
	LastName     string
	PasswordHash string // PHC-encoded argon2id (salt embedded)
	Active       bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
