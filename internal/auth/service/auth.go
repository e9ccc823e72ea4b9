package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tenauth/tenauth/internal/auth/domain"
	"github.com/tenauth/tenauth/internal/auth/store"
	"github.com/tenauth/tenauth/pkg/cryptox"
	"github.com/tenauth/tenauth/pkg/idx"
	"github.com/tenauth/tenauth/pkg/jwtx"
	"github.com/tenauth/tenauth/pkg/obs"
	"github.com/tenauth/tenauth/pkg/slogx"
)

// maxChainWalk caps containment chain traversal. A legitimate chain grows by
// one row per refresh; anything past this is corrupt data, not a session.
const maxChainWalk = 1000

// AuthService orchestrates login, refresh rotation and revocation.
type AuthService struct {
	Store      store.Store
	Signer     jwtx.Signer
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// dummyHash is verified against on the unknown-user login path so lookup
// misses cost the same as a real password check.
var dummyHash = sync.OnceValue(func() string {
	h, err := cryptox.HashPassword("tenauth-timing-equalizer")
	if err != nil {
		panic(err)
	}
	return h
})

// Login authenticates by username or email (case-insensitive) and password.
// Every failure the caller can cause comes back as ErrAuthenticationFailed:
// unknown name, wrong password and deactivated account are indistinguishable.
func (s *AuthService) Login(ctx context.Context, nameOrEmail, password, clientIP string) (domain.TokenPair, domain.User, error) {
	now := time.Now().UTC()
	l := slogx.FromContext(ctx)

	nameOrEmail = strings.TrimSpace(nameOrEmail)
	if nameOrEmail == "" || password == "" {
		_ = cryptox.VerifyPassword(password, dummyHash())
		obs.ObserveLogin(false)
		return domain.TokenPair{}, domain.User{}, ErrAuthenticationFailed
	}

	user, err := s.Store.Users().GetUserByNameOrEmail(ctx, nameOrEmail)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn the same argon2 work as a real verify.
			_ = cryptox.VerifyPassword(password, dummyHash())
			obs.ObserveLogin(false)
			return domain.TokenPair{}, domain.User{}, ErrAuthenticationFailed
		}
		return domain.TokenPair{}, domain.User{}, mapInfra(err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		obs.ObserveLogin(false)
		return domain.TokenPair{}, domain.User{}, ErrAuthenticationFailed
	}

	// Checked after the verify so an attacker cannot probe account status.
	if !user.Active {
		obs.ObserveLogin(false)
		return domain.TokenPair{}, domain.User{}, ErrAuthenticationFailed
	}

	pair, err := s.issuePair(ctx, user, clientIP, now, true)
	if err != nil {
		return domain.TokenPair{}, domain.User{}, err
	}

	obs.ObserveLogin(true)
	l.Info("login succeeded",
		slog.String("user_id", user.ID),
		slog.String("tenant_id", user.TenantID),
	)
	user.LastLoginAt = &now
	return pair, user, nil
}

// Refresh exchanges a live refresh token for a new pair. The presented token
// is revoked and replaced in one transaction; presenting a revoked token is
// treated as theft and revokes every live descendant of its chain.
func (s *AuthService) Refresh(ctx context.Context, refreshOpaque, clientIP string) (domain.TokenPair, domain.User, error) {
	now := time.Now().UTC()
	l := slogx.FromContext(ctx)

	fp := cryptox.FingerprintToken(refreshOpaque)

	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, domain.User{}, ErrAuthenticationFailed
		}
		return domain.TokenPair{}, domain.User{}, mapInfra(err)
	}

	if rt.RevokedAt != nil {
		if err := s.containChain(ctx, rt, clientIP, now); err != nil {
			return domain.TokenPair{}, domain.User{}, mapInfra(err)
		}
		return domain.TokenPair{}, domain.User{}, ErrAuthenticationFailed
	}

	if !now.Before(rt.ExpiresAt) {
		return domain.TokenPair{}, domain.User{}, ErrAuthenticationFailed
	}

	user, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, domain.User{}, ErrAuthenticationFailed
		}
		return domain.TokenPair{}, domain.User{}, mapInfra(err)
	}
	if !user.Active {
		return domain.TokenPair{}, domain.User{}, ErrAuthenticationFailed
	}

	newOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.TokenPair{}, domain.User{}, err
	}
	newFP := cryptox.FingerprintToken(newOpaque)

	successor := domain.RefreshToken{
		ID:          idx.New().String(),
		UserID:      user.ID,
		TokenHash:   newFP,
		CreatedByIP: clientIP,
		ExpiresAt:   now.Add(s.RefreshTTL),
		CreatedAt:   now,
	}

	// Revoke-then-insert in one transaction. The CAS revoke decides the
	// winner of a concurrent double-spend: the loser sees ErrStale.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp, clientIP, newFP, now); err != nil {
			return err
		}
		return tx.RefreshTokens().CreateRefreshToken(ctx, successor)
	})
	if errors.Is(err, store.ErrStale) {
		// Lost the race: someone spent this token first. Re-read the row so
		// the walk sees the winner's successor, then contain like a replay.
		if spent, gerr := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp); gerr == nil {
			rt = spent
		}
		if cerr := s.containChain(ctx, rt, clientIP, now); cerr != nil {
			return domain.TokenPair{}, domain.User{}, mapInfra(cerr)
		}
		return domain.TokenPair{}, domain.User{}, ErrAuthenticationFailed
	}
	if err != nil {
		return domain.TokenPair{}, domain.User{}, mapInfra(err)
	}

	access, err := s.signAccess(user, now)
	if err != nil {
		return domain.TokenPair{}, domain.User{}, err
	}

	obs.ObserveRotation()
	l.Debug("refresh token rotated", slog.String("user_id", user.ID))

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: newOpaque,
		TokenType:    "Bearer",
		ExpiresIn:    s.AccessTTL,
	}, user, nil
}

// Revoke ends the session holding the given refresh token. Revoking an
// already-revoked token is a success no-op: a double logout is not theft, and
// logout must never fail because it already happened.
func (s *AuthService) Revoke(ctx context.Context, refreshOpaque, clientIP string) error {
	now := time.Now().UTC()
	fp := cryptox.FingerprintToken(refreshOpaque)

	err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, fp, clientIP, "", now)
	switch {
	case err == nil, errors.Is(err, store.ErrStale):
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrAuthenticationFailed
	default:
		return mapInfra(err)
	}
}

// issuePair mints an access token and a fresh refresh token for the user. The
// refresh row insert and the last-login stamp share a transaction.
func (s *AuthService) issuePair(ctx context.Context, user domain.User, clientIP string, now time.Time, stampLogin bool) (domain.TokenPair, error) {
	access, err := s.signAccess(user, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.TokenPair{}, err
	}

	rt := domain.RefreshToken{
		ID:          idx.New().String(),
		UserID:      user.ID,
		TokenHash:   cryptox.FingerprintToken(opaque),
		CreatedByIP: clientIP,
		ExpiresAt:   now.Add(s.RefreshTTL),
		CreatedAt:   now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().CreateRefreshToken(ctx, rt); err != nil {
			return err
		}
		if stampLogin {
			return tx.Users().UpdateLastLogin(ctx, user.ID, now)
		}
		return nil
	})
	if err != nil {
		return domain.TokenPair{}, mapInfra(err)
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: opaque,
		TokenType:    "Bearer",
		ExpiresIn:    s.AccessTTL,
	}, nil
}

func (s *AuthService) signAccess(user domain.User, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(
		user.ID, user.TenantID, user.Username,
		s.AccessTTL, s.Issuer, nil, now,
	)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return token, nil
}

// containChain revokes every still-active descendant of a revoked token, in
// one transaction. Walks replaced_by_hash forward; already-revoked ancestors
// are left as they are, they are the audit trail.
func (s *AuthService) containChain(ctx context.Context, start domain.RefreshToken, clientIP string, now time.Time) error {
	l := slogx.FromContext(ctx)

	revoked := 0
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		cur := start
		for range maxChainWalk {
			if cur.RevokedAt == nil {
				err := tx.RefreshTokens().RevokeRefreshToken(ctx, cur.TokenHash, clientIP, "", now)
				if err != nil && !errors.Is(err, store.ErrStale) {
					return err
				}
				revoked++
			}
			if cur.ReplacedByHash == "" {
				return nil
			}
			next, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, cur.ReplacedByHash)
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			cur = next
		}
		return fmt.Errorf("refresh chain exceeds %d links", maxChainWalk)
	})
	if err != nil {
		return err
	}

	obs.ObserveContainment()
	l.Warn("refresh token replay detected, chain revoked",
		slog.String("user_id", start.UserID),
		slog.String("client_ip", clientIP),
		slog.Int("descendants_revoked", revoked),
	)
	return nil
}

// mapInfra folds infrastructure timeouts into the retryable sentinel.
func mapInfra(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return err
}
