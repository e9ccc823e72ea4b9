package http

import (
	"net/http"

	"github.com/tenauth/tenauth/internal/auth/service"
	"github.com/tenauth/tenauth/pkg/authsdk"
	"github.com/tenauth/tenauth/pkg/httpx"
)

// TenantsHandler serves the /v1/tenants administrative surface.
type TenantsHandler struct {
	Tenants *service.TenantService
}

// HandleCreate godoc
//
//	@Summary	Create Tenant
//	@Tags		Tenants
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		authsdk.CreateTenantRequest	true	"Tenant"
//	@Success	201		{object}	authsdk.Tenant
//	@Failure	409		{object}	authsdk.APIError	"duplicate code or name"
//	@Failure	422		{object}	authsdk.APIError	"validation failure"
//	@Router		/v1/tenants [post]
func (h *TenantsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.CreateTenantRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tenant, err := h.Tenants.CreateTenant(r.Context(), req.Code, req.Name, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTenantDTO(tenant))
}

// HandleList godoc
//
//	@Summary	List Tenants
//	@Tags		Tenants
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	authsdk.Tenant
//	@Router		/v1/tenants [get]
func (h *TenantsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.Tenants.ListTenants(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]authsdk.Tenant, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, toTenantDTO(t))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary	Get Tenant
//	@Tags		Tenants
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Tenant id"
//	@Success	200	{object}	authsdk.Tenant
//	@Failure	404	{object}	authsdk.APIError
//	@Router		/v1/tenants/{id} [get]
func (h *TenantsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	tenant, err := h.Tenants.GetTenant(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTenantDTO(tenant))
}

// HandleUpdate godoc
//
//	@Summary	Update Tenant
//	@Tags		Tenants
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string						true	"Tenant id"
//	@Param		body	body		authsdk.UpdateTenantRequest	true	"Tenant"
//	@Success	200		{object}	authsdk.Tenant
//	@Failure	404		{object}	authsdk.APIError
//	@Failure	409		{object}	authsdk.APIError
//	@Router		/v1/tenants/{id} [put]
func (h *TenantsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.UpdateTenantRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tenant, err := h.Tenants.UpdateTenant(r.Context(), r.PathValue("id"),
		req.Code, req.Name, req.Description, req.OrgCount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTenantDTO(tenant))
}

// HandleStatus godoc
//
//	@Summary	Activate / Deactivate Tenant
//	@Tags		Tenants
//	@Accept		json
//	@Security	BearerAuth
//	@Param		id		path	string						true	"Tenant id"
//	@Param		body	body	authsdk.ChangeStatusRequest	true	"Status"
//	@Success	204
//	@Failure	404	{object}	authsdk.APIError
//	@Router		/v1/tenants/{id}/status [put]
func (h *TenantsHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ChangeStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Tenants.ChangeTenantStatus(r.Context(), r.PathValue("id"), req.Active); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete godoc
//
//	@Summary	Delete Tenant
//	@Description	Deletes an empty tenant. Fails with 409 while users or roles still belong to it.
//	@Tags		Tenants
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Tenant id"
//	@Success	204
//	@Failure	404	{object}	authsdk.APIError
//	@Failure	409	{object}	authsdk.APIError	"tenant still has members"
//	@Router		/v1/tenants/{id} [delete]
func (h *TenantsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Tenants.DeleteTenant(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
