package http

import (
	"net/http"

	"github.com/tenauth/tenauth/internal/auth/service"
	"github.com/tenauth/tenauth/pkg/httpx"
)

// PermissionsHandler serves GET /v1/permissions: the caller's effective
// permission map, keyed by resource code.
type PermissionsHandler struct {
	Resolver *service.PrivilegeService
}

// ServeHTTP godoc
//
//	@Summary		Effective Permissions
//	@Description	Returns the authenticated caller's effective permissions: the per-resource union of the grant bits of every active role they hold in their tenant.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.Permissions	"resource code -> action bits"
//	@Failure		401	{object}	authsdk.APIError	"error, error_description"
//	@Router			/v1/permissions [get]
func (h *PermissionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromCtx(ctx)
	tenantID := httpx.TenantIDFromCtx(ctx)

	perms, err := h.Resolver.ResolvePermissionsByCode(ctx, userID, tenantID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toPermissions(perms))
}
