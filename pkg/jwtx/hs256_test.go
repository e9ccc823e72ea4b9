package jwtx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestHS256(t *testing.T) *HS256 {
	t.Helper()
	h, err := NewHS256(testSecret, "tenauth-test", nil)
	require.NoError(t, err)
	return h
}

func TestNewHS256RejectsWeakSecret(t *testing.T) {
	_, err := NewHS256([]byte("short"), "iss", nil)
	require.ErrorIs(t, err, ErrWeakSecret)

	_, err = NewHS256(nil, "iss", nil)
	require.ErrorIs(t, err, ErrWeakSecret)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	h := newTestHS256(t)
	now := time.Now()

	claims := NewAccessClaims(
		"user-123", "tenant-456", "alice",
		DefaultAccessTokenTTL,
		"tenauth-test", nil, now,
	)
	raw, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "user-123", got.Subject)
	require.Equal(t, "tenant-456", got.TenantID)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, "tenauth-test", got.Issuer)
	require.NotEmpty(t, got.ID)
}

func TestVerifyRejectsDifferentSecret(t *testing.T) {
	h := newTestHS256(t)

	other, err := NewHS256([]byte("ffffffffffffffffffffffffffffffff"), "tenauth-test", nil)
	require.NoError(t, err)

	raw, err := other.Sign(NewAccessClaims(
		"user-123", "tenant-456", "alice",
		time.Minute, "tenauth-test", nil, time.Now(),
	))
	require.NoError(t, err)

	_, err = h.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyRejectsForeignAlgorithm(t *testing.T) {
	h := newTestHS256(t)
	claims := NewAccessClaims(
		"user-123", "tenant-456", "alice",
		time.Minute, "tenauth-test", nil, time.Now(),
	)

	// HS384 is still HMAC but not the configured algorithm.
	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString(testSecret)
	require.NoError(t, err)
	_, err = h.Verify(hs384)
	require.ErrorIs(t, err, ErrAlgMismatch)

	// Unsigned tokens must never pass.
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = h.Verify(none)
	require.ErrorIs(t, err, ErrAlgMismatch)
}

func TestVerifyStrictExpiry(t *testing.T) {
	h := newTestHS256(t)

	issued := time.Now().Add(-2 * time.Minute)
	raw, err := h.Sign(NewAccessClaims(
		"user-123", "tenant-456", "alice",
		time.Minute, "tenauth-test", nil, issued,
	))
	require.NoError(t, err)

	// Expired one minute ago: no grace window.
	_, err = h.Verify(raw)
	require.ErrorIs(t, err, ErrExpired)

	// Even one second past exp is expired.
	h.now = func() time.Time { return issued.Add(time.Minute + time.Second) }
	_, err = h.Verify(raw)
	require.ErrorIs(t, err, ErrExpired)

	// Just inside the window it verifies.
	h.now = func() time.Time { return issued.Add(time.Minute - time.Second) }
	_, err = h.Verify(raw)
	require.NoError(t, err)
}

func TestVerifyNotYetValid(t *testing.T) {
	h := newTestHS256(t)

	future := time.Now().Add(time.Hour)
	raw, err := h.Sign(NewAccessClaims(
		"user-123", "tenant-456", "alice",
		time.Minute, "tenauth-test", nil, future,
	))
	require.NoError(t, err)

	_, err = h.Verify(raw)
	require.ErrorIs(t, err, ErrNotYetValid)
}

func TestVerifyIssuerAndAudience(t *testing.T) {
	h, err := NewHS256(testSecret, "tenauth-test", []string{"svc-a"})
	require.NoError(t, err)

	t.Run("issuer mismatch", func(t *testing.T) {
		raw, err := h.Sign(NewAccessClaims(
			"u", "t", "alice", time.Minute, "someone-else", []string{"svc-a"}, time.Now(),
		))
		require.NoError(t, err)
		_, err = h.Verify(raw)
		require.ErrorIs(t, err, ErrIssuer)
	})

	t.Run("audience mismatch", func(t *testing.T) {
		raw, err := h.Sign(NewAccessClaims(
			"u", "t", "alice", time.Minute, "tenauth-test", []string{"svc-b"}, time.Now(),
		))
		require.NoError(t, err)
		_, err = h.Verify(raw)
		require.ErrorIs(t, err, ErrAudience)
	})

	t.Run("matching audience", func(t *testing.T) {
		raw, err := h.Sign(NewAccessClaims(
			"u", "t", "alice", time.Minute, "tenauth-test", []string{"svc-b", "svc-a"}, time.Now(),
		))
		require.NoError(t, err)
		_, err = h.Verify(raw)
		require.NoError(t, err)
	})
}

func TestVerifyMalformed(t *testing.T) {
	h := newTestHS256(t)
	for _, raw := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := h.Verify(raw)
		require.Error(t, err, "input %q", raw)
	}
}
