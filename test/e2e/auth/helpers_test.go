package auth_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	httpapi "github.com/tenauth/tenauth/internal/auth/http"
	"github.com/tenauth/tenauth/internal/auth/service"
	"github.com/tenauth/tenauth/internal/auth/store/drivers/sqlite"
	"github.com/tenauth/tenauth/pkg/authsdk"
	"github.com/tenauth/tenauth/pkg/httpx"
	"github.com/tenauth/tenauth/pkg/jwtx"
)

/*
 * End-to-end tests: the whole service wired the way the application wires it,
 * served over a loopback listener and driven purely through the authsdk
 * client. Nothing here reaches into internals past setup.
 */

const (
	adminUsername = "admin"
	adminEmail    = "admin@example.com"
	adminPassword = "Admin123!long-enough"

	testSecret = "e2e-secret-0123456789abcdef012345"
	testIssuer = "tenauth-e2e"
)

func TestMain(m *testing.M) {
	// Raise the per-IP limits so rapid test traffic does not trip them.
	generous := httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	httpx.StrictLimit = generous
	httpx.ModerateLimit = generous
	httpx.LenientLimit = generous

	os.Exit(m.Run())
}

// startAuthService brings up a fully wired service over a file-backed
// database and returns its base URL.
func startAuthService(t *testing.T) string {
	t.Helper()

	dbFile := filepath.Join(t.TempDir(), "auth.db")
	st, err := sqlite.NewStore(fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", dbFile))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewHS256([]byte(testSecret), testIssuer, nil)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := httpapi.NewRouter(signer, "e2e", st, logger)
	router.AuthService = &service.AuthService{
		Store:      st,
		Signer:     signer,
		Issuer:     testIssuer,
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
	router.PrivilegeService = &service.PrivilegeService{Store: st}
	router.TenantService = &service.TenantService{Store: st}
	router.UserService = &service.UserService{Store: st}
	router.RoleService = &service.RoleService{Store: st}
	router.ApplicationService = &service.ApplicationService{Store: st}
	router.ApplyRoutes()

	boot := &service.BootstrapService{Store: st}
	_, err = boot.Bootstrap(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv.URL
}

// cloneJar copies the refresh cookie out of a client's jar into a fresh one,
// the way a stolen cookie would move between user agents.
func cloneJar(t *testing.T, baseURL string, from *authsdk.Client) http.CookieJar {
	t.Helper()

	u, err := url.Parse(baseURL + "/v1/auth/refresh")
	require.NoError(t, err)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	jar.SetCookies(u, from.HTTPClient.Jar.Cookies(u))
	return jar
}
