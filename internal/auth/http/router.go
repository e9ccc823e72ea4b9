package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tenauth/tenauth/internal/auth/service"
	"github.com/tenauth/tenauth/internal/auth/store"
	"github.com/tenauth/tenauth/pkg/httpx"
	"github.com/tenauth/tenauth/pkg/jwtx"
	"github.com/tenauth/tenauth/pkg/obs"
	"github.com/tenauth/tenauth/pkg/slogx"

	"github.com/tenauth/tenauth/internal/auth/domain"

	_ "github.com/tenauth/tenauth/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// AdminResource is the resource code guarding the administrative surface.
// The catalog seeds it under the service's own application entry; an admin
// role needs action bits on it to manage tenants, users, roles and the
// application catalog.
const AdminResource = "AUTH"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService        *service.AuthService
	PrivilegeService   *service.PrivilegeService
	TenantService      *service.TenantService
	UserService        *service.UserService
	RoleService        *service.RoleService
	ApplicationService *service.ApplicationService

	// SecureCookies is forwarded to the auth handler; off only for plain
	// HTTP in development.
	SecureCookies bool
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		obs.Instrument,
	}

	return r
}

// Use appends a middleware to the global chain. Must be called before the
// router starts serving.
func (r *Router) Use(mw httpx.Middleware) {
	r.middlewares = append(r.middlewares, mw)
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerTenants()
	r.registerUsers()
	r.registerRoles()
	r.registerApplications()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Tenauth Authentication Service API
//	@version		0.1.0
//	@description	Multi-tenant authentication and authorization service: password login, rotating refresh tokens with replay containment, and role-based resource privileges.
//	@description
//	@description				Access tokens are HS256-signed JWTs; refresh tokens are opaque HTTP-only cookies.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	auth := &AuthHandler{Auth: r.AuthService, SecureCookies: r.SecureCookies}

	// Credential-bearing endpoints get the strict per-IP limit.
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(auth.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(auth.HandleRefresh),
			httpx.RateLimitByIP(httpx.StrictLimit),
		))
	r.Mux.Handle("POST /v1/auth/revoke",
		httpx.Chain(http.HandlerFunc(auth.HandleRevoke),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))

	perms := &PermissionsHandler{Resolver: r.PrivilegeService}
	r.Mux.Handle("GET /v1/permissions",
		httpx.Chain(perms,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		))
}

// admin wraps a handler with authentication, the admin privilege check for
// the given action, and the moderate rate limit.
func (r *Router) admin(h http.HandlerFunc, action string) http.Handler {
	checker := r.PrivilegeService
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequirePrivilege(checker, AdminResource, action),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
}

func (r *Router) registerTenants() {
	h := &TenantsHandler{Tenants: r.TenantService}

	r.Mux.Handle("POST /v1/tenants", r.admin(h.HandleCreate, domain.ActionCreate))
	r.Mux.Handle("GET /v1/tenants", r.admin(h.HandleList, domain.ActionRead))
	r.Mux.Handle("GET /v1/tenants/{id}", r.admin(h.HandleGet, domain.ActionRead))
	r.Mux.Handle("PUT /v1/tenants/{id}", r.admin(h.HandleUpdate, domain.ActionUpdate))
	r.Mux.Handle("PUT /v1/tenants/{id}/status", r.admin(h.HandleStatus, domain.ActionUpdate))
	r.Mux.Handle("DELETE /v1/tenants/{id}", r.admin(h.HandleDelete, domain.ActionDelete))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Users: r.UserService}

	r.Mux.Handle("POST /v1/tenants/{id}/users", r.admin(h.HandleRegister, domain.ActionCreate))
	r.Mux.Handle("GET /v1/tenants/{id}/users", r.admin(h.HandleList, domain.ActionRead))
	r.Mux.Handle("GET /v1/users/{id}", r.admin(h.HandleGet, domain.ActionRead))
	r.Mux.Handle("PUT /v1/users/{id}/status", r.admin(h.HandleStatus, domain.ActionUpdate))
	r.Mux.Handle("DELETE /v1/users/{id}", r.admin(h.HandleDelete, domain.ActionDelete))
	r.Mux.Handle("POST /v1/users/{id}/roles", r.admin(h.HandleAssignRole, domain.ActionUpdate))
	r.Mux.Handle("DELETE /v1/users/{id}/roles/{roleID}", r.admin(h.HandleUnassignRole, domain.ActionUpdate))
}

func (r *Router) registerRoles() {
	h := &RolesHandler{Roles: r.RoleService}

	r.Mux.Handle("POST /v1/tenants/{id}/roles", r.admin(h.HandleCreate, domain.ActionCreate))
	r.Mux.Handle("GET /v1/tenants/{id}/roles", r.admin(h.HandleList, domain.ActionRead))
	r.Mux.Handle("GET /v1/roles/{id}", r.admin(h.HandleGet, domain.ActionRead))
	r.Mux.Handle("PUT /v1/roles/{id}", r.admin(h.HandleUpdate, domain.ActionUpdate))
	r.Mux.Handle("PUT /v1/roles/{id}/status", r.admin(h.HandleStatus, domain.ActionUpdate))
	r.Mux.Handle("DELETE /v1/roles/{id}", r.admin(h.HandleDelete, domain.ActionDelete))
	r.Mux.Handle("PUT /v1/roles/{id}/privileges", r.admin(h.HandleSetPrivilege, domain.ActionUpdate))
	r.Mux.Handle("DELETE /v1/roles/{id}/privileges/{resourceID}", r.admin(h.HandleRemovePrivilege, domain.ActionUpdate))
}

func (r *Router) registerApplications() {
	h := &ApplicationsHandler{Applications: r.ApplicationService}

	r.Mux.Handle("POST /v1/applications", r.admin(h.HandleCreate, domain.ActionCreate))
	r.Mux.Handle("GET /v1/applications", r.admin(h.HandleList, domain.ActionRead))
	r.Mux.Handle("GET /v1/applications/{id}", r.admin(h.HandleGet, domain.ActionRead))
	r.Mux.Handle("PUT /v1/applications/{id}/status", r.admin(h.HandleStatus, domain.ActionUpdate))
	r.Mux.Handle("POST /v1/applications/{id}/resources", r.admin(h.HandleCreateResource, domain.ActionCreate))
	r.Mux.Handle("GET /v1/applications/{id}/resources", r.admin(h.HandleListResources, domain.ActionRead))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
	r.Mux.Handle("GET /metrics", obs.Handler())
}
