package http

import (
	"net/http"

	"github.com/tenauth/tenauth/internal/auth/service"
	"github.com/tenauth/tenauth/pkg/authsdk"
	"github.com/tenauth/tenauth/pkg/httpx"
)

// ApplicationsHandler serves the protected-resource catalog.
type ApplicationsHandler struct {
	Applications *service.ApplicationService
}

// HandleCreate godoc
//
//	@Summary	Create Application
//	@Tags		Applications
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		authsdk.CreateApplicationRequest	true	"Application"
//	@Success	201		{object}	authsdk.Application
//	@Failure	409		{object}	authsdk.APIError
//	@Router		/v1/applications [post]
func (h *ApplicationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.CreateApplicationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	app, err := h.Applications.CreateApplication(r.Context(),
		req.Code, req.Name, req.Description, req.Edition, req.Version)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toApplicationDTO(app))
}

// HandleList godoc
//
//	@Summary	List Applications
//	@Tags		Applications
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	authsdk.Application
//	@Router		/v1/applications [get]
func (h *ApplicationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	apps, err := h.Applications.ListApplications(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]authsdk.Application, 0, len(apps))
	for _, a := range apps {
		out = append(out, toApplicationDTO(a))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary	Get Application
//	@Tags		Applications
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Application id"
//	@Success	200	{object}	authsdk.Application
//	@Failure	404	{object}	authsdk.APIError
//	@Router		/v1/applications/{id} [get]
func (h *ApplicationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	app, err := h.Applications.GetApplication(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toApplicationDTO(app))
}

// HandleStatus godoc
//
//	@Summary	Activate / Deactivate Application
//	@Tags		Applications
//	@Accept		json
//	@Security	BearerAuth
//	@Param		id		path	string						true	"Application id"
//	@Param		body	body	authsdk.ChangeStatusRequest	true	"Status"
//	@Success	204
//	@Failure	404	{object}	authsdk.APIError
//	@Router		/v1/applications/{id}/status [put]
func (h *ApplicationsHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ChangeStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Applications.ChangeApplicationStatus(r.Context(), r.PathValue("id"), req.Active); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateResource godoc
//
//	@Summary	Create Application Resource
//	@Tags		Applications
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string							true	"Application id"
//	@Param		body	body		authsdk.CreateAppResourceRequest	true	"Resource"
//	@Success	201		{object}	authsdk.AppResource
//	@Failure	409		{object}	authsdk.APIError
//	@Failure	422		{object}	authsdk.APIError	"no capability bits"
//	@Router		/v1/applications/{id}/resources [post]
func (h *ApplicationsHandler) HandleCreateResource(w http.ResponseWriter, r *http.Request) {
	var req authsdk.CreateAppResourceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Applications.CreateAppResource(r.Context(), r.PathValue("id"),
		req.Code, req.Name, req.Description, fromPermissionBits(req.Capabilities))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAppResourceDTO(res))
}

// HandleListResources godoc
//
//	@Summary	List Application Resources
//	@Tags		Applications
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Application id"
//	@Success	200	{array}	authsdk.AppResource
//	@Router		/v1/applications/{id}/resources [get]
func (h *ApplicationsHandler) HandleListResources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.Applications.ListApplicationResources(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]authsdk.AppResource, 0, len(resources))
	for _, res := range resources {
		out = append(out, toAppResourceDTO(res))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
