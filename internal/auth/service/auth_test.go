package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tenauth/tenauth/internal/auth/domain"
	"github.com/tenauth/tenauth/internal/auth/store"
	"github.com/tenauth/tenauth/internal/auth/store/drivers/sqlite"
	"github.com/tenauth/tenauth/pkg/cryptox"
	"github.com/tenauth/tenauth/pkg/jwtx"
)

const testPassword = "correct horse battery staple"

func newTestHarness(t *testing.T) (*sqlite.Store, *AuthService, *jwtx.HS256) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	hs, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), "tenauth-test", nil)
	require.NoError(t, err)

	auth := &AuthService{
		Store:      st,
		Signer:     hs,
		Issuer:     "tenauth-test",
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}
	return st, auth, hs
}

func seedLoginUser(t *testing.T, st store.Store) (domain.Tenant, domain.User) {
	t.Helper()
	ctx := context.Background()

	tenants := &TenantService{Store: st}
	tenant, err := tenants.CreateTenant(ctx, "acme", "Acme Corp", "")
	require.NoError(t, err)

	users := &UserService{Store: st}
	user, err := users.RegisterUser(ctx, RegisterUserInput{
		TenantID: tenant.ID,
		Username: "alice",
		Email:    "alice@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)
	return tenant, user
}

func TestLoginSuccess(t *testing.T) {
	ctx := context.Background()
	st, auth, hs := newTestHarness(t)
	tenant, user := seedLoginUser(t, st)

	pair, got, err := auth.Login(ctx, "alice", testPassword, "10.0.0.1")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, "Bearer", pair.TokenType)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := hs.Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Equal(t, tenant.ID, claims.TenantID)
	require.Equal(t, "alice", claims.Username)

	// last_login_at advances only on success.
	stored, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)

	// The refresh token never lands in the database in plaintext.
	_, err = st.RefreshTokens().GetRefreshTokenByHash(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, store.ErrNotFound)
	fp := cryptox.FingerprintToken(pair.RefreshToken)
	rt, err := st.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	require.NoError(t, err)
	require.Equal(t, user.ID, rt.UserID)
	require.Equal(t, "10.0.0.1", rt.CreatedByIP)
}

func TestLoginByEmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	st, auth, _ := newTestHarness(t)
	seedLoginUser(t, st)

	_, _, err := auth.Login(ctx, "Alice@Example.COM", testPassword, "")
	require.NoError(t, err)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	st, auth, _ := newTestHarness(t)
	_, user := seedLoginUser(t, st)

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "nobody", testPassword, "")
		require.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "alice", "wrong password", "")
		require.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "", "", "")
		require.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("deactivated user", func(t *testing.T) {
		require.NoError(t, st.Users().SetUserActive(ctx, user.ID, false))
		_, _, err := auth.Login(ctx, "alice", testPassword, "")
		require.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	// No failure advanced the login stamp.
	stored, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Nil(t, stored.LastLoginAt)
}

func TestRefreshRotatesToken(t *testing.T) {
	ctx := context.Background()
	st, auth, hs := newTestHarness(t)
	_, user := seedLoginUser(t, st)

	pair, _, err := auth.Login(ctx, "alice", testPassword, "10.0.0.1")
	require.NoError(t, err)

	next, got, err := auth.Refresh(ctx, pair.RefreshToken, "10.0.0.2")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	claims, err := hs.Verify(next.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)

	// Presented row is revoked and linked forward to its successor.
	old, err := st.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(pair.RefreshToken))
	require.NoError(t, err)
	require.NotNil(t, old.RevokedAt)
	require.Equal(t, cryptox.FingerprintToken(next.RefreshToken), old.ReplacedByHash)

	// The successor still works.
	_, _, err = auth.Refresh(ctx, next.RefreshToken, "")
	require.NoError(t, err)
}

func TestRefreshUnknownTokenFails(t *testing.T) {
	ctx := context.Background()
	_, auth, _ := newTestHarness(t)

	_, _, err := auth.Refresh(ctx, "never-issued", "")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestRefreshExpiredTokenFails(t *testing.T) {
	ctx := context.Background()
	st, auth, _ := newTestHarness(t)
	seedLoginUser(t, st)

	auth.RefreshTTL = -time.Minute
	pair, _, err := auth.Login(ctx, "alice", testPassword, "")
	require.NoError(t, err)

	_, _, err = auth.Refresh(ctx, pair.RefreshToken, "")
	require.ErrorIs(t, err, ErrAuthenticationFailed)

	// Expired but never replayed: no containment, the row just sits there.
	rt, err := st.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(pair.RefreshToken))
	require.NoError(t, err)
	require.Nil(t, rt.RevokedAt)
}

func TestRefreshReplayRevokesWholeChain(t *testing.T) {
	ctx := context.Background()
	st, auth, _ := newTestHarness(t)
	seedLoginUser(t, st)

	// Build a three-generation chain: gen0 -> gen1 -> gen2.
	gen0, _, err := auth.Login(ctx, "alice", testPassword, "10.0.0.1")
	require.NoError(t, err)
	gen1, _, err := auth.Refresh(ctx, gen0.RefreshToken, "10.0.0.1")
	require.NoError(t, err)
	gen2, _, err := auth.Refresh(ctx, gen1.RefreshToken, "10.0.0.1")
	require.NoError(t, err)

	// Replaying the revoked root must kill the live tip as well.
	_, _, err = auth.Refresh(ctx, gen0.RefreshToken, "6.6.6.6")
	require.ErrorIs(t, err, ErrAuthenticationFailed)

	tip, err := st.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(gen2.RefreshToken))
	require.NoError(t, err)
	require.NotNil(t, tip.RevokedAt)
	require.Equal(t, "6.6.6.6", tip.RevokedByIP)

	// And the tip is now unusable.
	_, _, err = auth.Refresh(ctx, gen2.RefreshToken, "")
	require.ErrorIs(t, err, ErrAuthenticationFailed)

	// Mid-chain row kept its original revocation metadata.
	mid, err := st.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(gen1.RefreshToken))
	require.NoError(t, err)
	require.NotNil(t, mid.RevokedAt)
	require.Equal(t, "10.0.0.1", mid.RevokedByIP)
}

func TestConcurrentRefreshHasOneWinner(t *testing.T) {
	ctx := context.Background()
	st, auth, _ := newTestHarness(t)
	seedLoginUser(t, st)

	pair, _, err := auth.Login(ctx, "alice", testPassword, "")
	require.NoError(t, err)

	const attempts = 2
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = auth.Refresh(ctx, pair.RefreshToken, "")
		}()
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		default:
			require.ErrorIs(t, err, ErrAuthenticationFailed)
			losses++
		}
	}
	require.Equal(t, 1, wins, "exactly one concurrent rotation must win")
	require.Equal(t, attempts-1, losses)
}

func TestRevokeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st, auth, _ := newTestHarness(t)
	seedLoginUser(t, st)

	pair, _, err := auth.Login(ctx, "alice", testPassword, "")
	require.NoError(t, err)

	require.NoError(t, auth.Revoke(ctx, pair.RefreshToken, "10.0.0.1"))

	// Logging out twice is fine.
	require.NoError(t, auth.Revoke(ctx, pair.RefreshToken, "10.0.0.1"))

	// But the token itself is dead.
	_, _, err = auth.Refresh(ctx, pair.RefreshToken, "")
	require.ErrorIs(t, err, ErrAuthenticationFailed)

	// A token that was never issued cannot be revoked.
	require.ErrorIs(t, auth.Revoke(ctx, "never-issued", ""), ErrAuthenticationFailed)
}

func TestRefreshFailsForDeactivatedUser(t *testing.T) {
	ctx := context.Background()
	st, auth, _ := newTestHarness(t)
	_, user := seedLoginUser(t, st)

	pair, _, err := auth.Login(ctx, "alice", testPassword, "")
	require.NoError(t, err)

	require.NoError(t, st.Users().SetUserActive(ctx, user.ID, false))

	_, _, err = auth.Refresh(ctx, pair.RefreshToken, "")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}
