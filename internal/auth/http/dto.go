package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tenauth/tenauth/internal/auth/domain"
	"github.com/tenauth/tenauth/pkg/authsdk"
)

// Explicit, hand-written entity/DTO conversions. Password hashes and token
// fingerprints never cross this boundary.

const maxBodyBytes = 1 << 20 // 1 MiB

func readJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	return dec.Decode(dst)
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func toUserSummary(u domain.User) authsdk.UserSummary {
	return authsdk.UserSummary{
		ID:        u.ID,
		TenantID:  u.TenantID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func toUserDTO(u domain.User) authsdk.User {
	return authsdk.User{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Active:      u.Active,
		LastLoginAt: formatTimePtr(u.LastLoginAt),
		CreatedAt:   formatTime(u.CreatedAt),
	}
}

func toTenantDTO(t domain.Tenant) authsdk.Tenant {
	return authsdk.Tenant{
		ID:          t.ID,
		Code:        t.Code,
		Name:        t.Name,
		Description: t.Description,
		OrgCount:    t.OrgCount,
		Active:      t.Active,
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTimePtr(t.UpdatedAt),
	}
}

func toRoleDTO(r domain.Role) authsdk.Role {
	return authsdk.Role{
		ID:          r.ID,
		TenantID:    r.TenantID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		Active:      r.Active,
		CreatedAt:   formatTime(r.CreatedAt),
	}
}

func toApplicationDTO(a domain.Application) authsdk.Application {
	return authsdk.Application{
		ID:          a.ID,
		Code:        a.Code,
		Name:        a.Name,
		Description: a.Description,
		Edition:     a.Edition,
		Version:     a.Version,
		Active:      a.Active,
		CreatedAt:   formatTime(a.CreatedAt),
	}
}

func toAppResourceDTO(r domain.AppResource) authsdk.AppResource {
	return authsdk.AppResource{
		ID:            r.ID,
		ApplicationID: r.ApplicationID,
		Code:          r.Code,
		Name:          r.Name,
		Description:   r.Description,
		Capabilities:  toPermissionBits(r.Capabilities),
		Active:        r.Active,
		CreatedAt:     formatTime(r.CreatedAt),
	}
}

func toPermissionBits(p domain.PrivilegeSet) authsdk.PermissionBits {
	return authsdk.PermissionBits{
		Create: p.Create,
		Read:   p.Read,
		Update: p.Update,
		Delete: p.Delete,
		Export: p.Export,
		Import: p.Import,
		Print:  p.Print,
	}
}

func fromPermissionBits(p authsdk.PermissionBits) domain.PrivilegeSet {
	return domain.PrivilegeSet{
		Create: p.Create,
		Read:   p.Read,
		Update: p.Update,
		Delete: p.Delete,
		Export: p.Export,
		Import: p.Import,
		Print:  p.Print,
	}
}

func toPermissions(m map[string]domain.PrivilegeSet) authsdk.Permissions {
	out := make(authsdk.Permissions, len(m))
	for code, bits := range m {
		out[code] = toPermissionBits(bits)
	}
	return out
}
