package httpx

import (
	"context"
	"net/http"

	"github.com/tenauth/tenauth/pkg/slogx"
)

// PermissionChecker answers whether a tenant-scoped user holds a given
// privilege action on a named resource. The privilege resolver implements
// this; httpx stays ignorant of how permissions are computed.
type PermissionChecker interface {
	CheckPermission(ctx context.Context, userID, tenantID, resourceCode, action string) (bool, error)
}

// RequirePrivilege enforces that the authenticated caller holds the given
// action on resourceCode. It must run after AuthnMiddleware.
func RequirePrivilege(checker PermissionChecker, resourceCode, action string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := UserIDFromCtx(ctx)
			tenantID := TenantIDFromCtx(ctx)
			if userID == "" || tenantID == "" {
				writeBearerError(w, "missing authenticated identity")
				return
			}

			ok, err := checker.CheckPermission(ctx, userID, tenantID, resourceCode, action)
			if err != nil {
				slogx.FromContext(ctx).Error("permission check failed", "err", err,
					"resource", resourceCode, "action", action)
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			if !ok {
				writePrivilegeError(w, resourceCode, action)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writePrivilegeError(w http.ResponseWriter, resourceCode, action string) {
	w.Header().Set("WWW-Authenticate",
		`Bearer error="insufficient_privilege", resource="`+resourceCode+`", action="`+action+`"`)
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte("insufficient_privilege"))
}
