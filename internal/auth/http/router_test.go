package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tenauth/tenauth/internal/auth/service"
	"github.com/tenauth/tenauth/internal/auth/store/drivers/sqlite"
	"github.com/tenauth/tenauth/pkg/authsdk"
	"github.com/tenauth/tenauth/pkg/httpx"
	"github.com/tenauth/tenauth/pkg/jwtx"
)

const (
	adminEmail    = "root@example.com"
	adminPassword = "correct horse battery staple"

	testSecret = "0123456789abcdef0123456789abcdef"
	testIssuer = "tenauth-test"
)

func TestMain(m *testing.M) {
	// Tests fire requests far faster than real clients; the production
	// per-IP limits would start returning 429 mid-test.
	generous := httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	httpx.StrictLimit = generous
	httpx.ModerateLimit = generous
	httpx.LenientLimit = generous

	os.Exit(m.Run())
}

type testEnv struct {
	t   *testing.T
	srv *httptest.Server
	st  *sqlite.Store
}

// newTestEnv wires the full router over an in-memory store, bootstraps the
// system tenant with an admin, and serves it on a loopback listener.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewHS256([]byte(testSecret), testIssuer, nil)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := NewRouter(signer, "test", st, logger)
	r.AuthService = &service.AuthService{
		Store:      st,
		Signer:     signer,
		Issuer:     testIssuer,
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
	r.PrivilegeService = &service.PrivilegeService{Store: st}
	r.TenantService = &service.TenantService{Store: st}
	r.UserService = &service.UserService{Store: st}
	r.RoleService = &service.RoleService{Store: st}
	r.ApplicationService = &service.ApplicationService{Store: st}
	r.ApplyRoutes()

	boot := &service.BootstrapService{Store: st}
	_, err = boot.Bootstrap(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{t: t, srv: srv, st: st}
}

type reqOption func(*http.Request)

func withBearer(token string) reqOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withCookie(c *http.Cookie) reqOption {
	return func(r *http.Request) { r.AddCookie(c) }
}

// do sends a request to the test server. A non-nil body is JSON-encoded.
// The caller owns the response body.
func (e *testEnv) do(method, path string, body any, opts ...reqOption) *http.Response {
	e.t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(e.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(e.t, err)
	e.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeResp(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// refreshCookie pulls the refresh cookie out of a response, failing the test
// when it is absent.
func refreshCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == RefreshCookieName {
			return c
		}
	}
	t.Fatalf("response carries no %q cookie", RefreshCookieName)
	return nil
}

// login authenticates and returns the token response plus the refresh cookie.
func (e *testEnv) login(nameOrEmail, password string) (authsdk.TokenResponse, *http.Cookie) {
	e.t.Helper()

	resp := e.do(http.MethodPost, "/v1/auth/login", authsdk.LoginRequest{
		NameOrEmail: nameOrEmail,
		Password:    password,
	})
	require.Equal(e.t, http.StatusOK, resp.StatusCode)

	cookie := refreshCookie(e.t, resp)
	var tok authsdk.TokenResponse
	decodeResp(e.t, resp, &tok)
	return tok, cookie
}

func (e *testEnv) adminToken() string {
	e.t.Helper()
	tok, _ := e.login(service.SeedAdminUsername, adminPassword)
	return tok.AccessToken
}
