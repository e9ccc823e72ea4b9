package domain

import "time"

// TokenPair is what a successful login or refresh returns: the short-lived
// signed access token and the opaque refresh token. The refresh token travels
// in an HTTP-only cookie, never in a JSON body.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string // "Bearer"
	ExpiresIn    time.Duration
}

// RefreshToken is one node in a rotation chain. Rows are terminal once
// revoked: they are kept (not deleted) so a replay can be recognised and the
// chain walked forward for containment.
type RefreshToken struct {
	ID             string
	UserID         string
	TokenHash      string // base64url SHA-256 fingerprint of the opaque token
	CreatedByIP    string
	ExpiresAt      time.Time
	RevokedAt      *time.Time
	RevokedByIP    string
	ReplacedByHash string // fingerprint of the successor token, lookup only
	CreatedAt      time.Time
}

// Active reports whether the token is usable at the given instant: not
// revoked and not expired.
func (t RefreshToken) Active(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
