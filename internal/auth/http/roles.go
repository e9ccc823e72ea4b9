package http

import (
	"net/http"

	"github.com/tenauth/tenauth/internal/auth/service"
	"github.com/tenauth/tenauth/pkg/authsdk"
	"github.com/tenauth/tenauth/pkg/httpx"
)

// RolesHandler serves role administration and privilege grants.
type RolesHandler struct {
	Roles *service.RoleService
}

// HandleCreate godoc
//
//	@Summary	Create Role
//	@Tags		Roles
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"Tenant id"
//	@Param		body	body		authsdk.CreateRoleRequest	true	"Role"
//	@Success	201		{object}	authsdk.Role
//	@Failure	409		{object}	authsdk.APIError	"duplicate code or name within tenant"
//	@Router		/v1/tenants/{id}/roles [post]
func (h *RolesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.CreateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	role, err := h.Roles.CreateRole(r.Context(), r.PathValue("id"),
		req.Code, req.Name, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toRoleDTO(role))
}

// HandleList godoc
//
//	@Summary	List Tenant Roles
//	@Tags		Roles
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Tenant id"
//	@Success	200	{array}	authsdk.Role
//	@Router		/v1/tenants/{id}/roles [get]
func (h *RolesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Roles.ListTenantRoles(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]authsdk.Role, 0, len(roles))
	for _, role := range roles {
		out = append(out, toRoleDTO(role))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary	Get Role
//	@Tags		Roles
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Role id"
//	@Success	200	{object}	authsdk.Role
//	@Failure	404	{object}	authsdk.APIError
//	@Router		/v1/roles/{id} [get]
func (h *RolesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	role, err := h.Roles.GetRole(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRoleDTO(role))
}

// HandleUpdate godoc
//
//	@Summary	Update Role
//	@Tags		Roles
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"Role id"
//	@Param		body	body		authsdk.CreateRoleRequest	true	"Role"
//	@Success	200		{object}	authsdk.Role
//	@Failure	404		{object}	authsdk.APIError
//	@Router		/v1/roles/{id} [put]
func (h *RolesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.CreateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	role, err := h.Roles.UpdateRole(r.Context(), r.PathValue("id"),
		req.Code, req.Name, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRoleDTO(role))
}

// HandleStatus godoc
//
//	@Summary	Activate / Deactivate Role
//	@Tags		Roles
//	@Accept		json
//	@Security	BearerAuth
//	@Param		id		path	string						true	"Role id"
//	@Param		body	body	authsdk.ChangeStatusRequest	true	"Status"
//	@Success	204
//	@Failure	404	{object}	authsdk.APIError
//	@Router		/v1/roles/{id}/status [put]
func (h *RolesHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ChangeStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Roles.ChangeRoleStatus(r.Context(), r.PathValue("id"), req.Active); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete godoc
//
//	@Summary	Delete Role
//	@Tags		Roles
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Role id"
//	@Success	204
//	@Failure	404	{object}	authsdk.APIError
//	@Router		/v1/roles/{id} [delete]
func (h *RolesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Roles.DeleteRole(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetPrivilege godoc
//
//	@Summary	Grant Privilege
//	@Description	Grants (or regrants) the role a set of action bits on a resource. The bits must be a subset of the resource's capabilities.
//	@Tags		Roles
//	@Accept		json
//	@Security	BearerAuth
//	@Param		id		path	string							true	"Role id"
//	@Param		body	body	authsdk.SetRolePrivilegeRequest	true	"Grant"
//	@Success	204
//	@Failure	404	{object}	authsdk.APIError
//	@Failure	422	{object}	authsdk.APIError	"grants exceed resource capabilities"
//	@Router		/v1/roles/{id}/privileges [put]
func (h *RolesHandler) HandleSetPrivilege(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SetRolePrivilegeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.Roles.SetRolePrivilege(r.Context(), r.PathValue("id"),
		req.ResourceID, fromPermissionBits(req.Grants))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRemovePrivilege godoc
//
//	@Summary	Remove Privilege
//	@Tags		Roles
//	@Security	BearerAuth
//	@Param		id			path	string	true	"Role id"
//	@Param		resourceID	path	string	true	"Resource id"
//	@Success	204
//	@Failure	404	{object}	authsdk.APIError
//	@Router		/v1/roles/{id}/privileges/{resourceID} [delete]
func (h *RolesHandler) HandleRemovePrivilege(w http.ResponseWriter, r *http.Request) {
	err := h.Roles.RemoveRolePrivilege(r.Context(), r.PathValue("id"), r.PathValue("resourceID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
