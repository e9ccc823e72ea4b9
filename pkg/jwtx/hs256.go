package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrWeakSecret  = errors.New("jwtx: signing secret too short")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// MinSecretLen is the minimum byte length accepted for an HS256 secret.
// HMAC-SHA256 keys shorter than the hash output weaken the construction.
const MinSecretLen = 32

// Signer mints signed access tokens.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// Verifier validates a compact JWT and returns the claims if it is legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256 signs and verifies tokens with a server-held symmetric secret. The
// secret and expectations are fixed at construction: there is no process-wide
// key state, and the token header is never trusted to pick the algorithm.
type HS256 struct {
	secret   []byte
	issuer   string
	audience []string

	// now is stubbed in tests; nil means time.Now.
	now func() time.Time
}

// NewHS256 builds a combined Signer/Verifier over the given secret. The
// issuer is stamped on minted tokens and enforced on verification. audience
// may be nil to skip the audience check.
func NewHS256(secret []byte, issuer string, audience []string) (*HS256, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrWeakSecret
	}
	// Private copy so callers can't mutate the key from outside.
	key := make([]byte, len(secret))
	copy(key, secret)

	return &HS256{secret: key, issuer: issuer, audience: audience}, nil
}

func (h *HS256) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign produces a compact HS256-signed JWT for the given claims.
func (h *HS256) Sign(c Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(h.secret)
}

// Verify parses and validates a compact token. Any header algorithm other
// than HS256 is rejected before the signature is checked, which blocks
// alg-confusion (none / RS256-public-key) attacks. Expiry is strict.
func (h *HS256) Verify(raw string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithoutClaimsValidation(), // claims validated explicitly below
	)

	var claims Claims
	token, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrAlgMismatch
		}
		return h.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAlgMismatch):
			return Claims{}, ErrAlgMismatch
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		default:
			return Claims{}, ErrMalformed
		}
	}
	if !token.Valid {
		return Claims{}, ErrInvalidSig
	}

	if err := claims.ValidateIssuer(h.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(h.audience); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(h.timeNow()); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

func (h *HS256) timeNow() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now()
}
