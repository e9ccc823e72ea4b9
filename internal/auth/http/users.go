package http

import (
	"net/http"

	"github.com/tenauth/tenauth/internal/auth/service"
	"github.com/tenauth/tenauth/pkg/authsdk"
	"github.com/tenauth/tenauth/pkg/httpx"
)

// UsersHandler serves user administration under tenants.
type UsersHandler struct {
	Users *service.UserService
}

// HandleRegister godoc
//
//	@Summary	Register User
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string						true	"Tenant id"
//	@Param		body	body		authsdk.RegisterUserRequest	true	"User"
//	@Success	201		{object}	authsdk.User
//	@Failure	409		{object}	authsdk.APIError	"duplicate username or email"
//	@Failure	422		{object}	authsdk.APIError	"validation failure"
//	@Router		/v1/tenants/{id}/users [post]
func (h *UsersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.Users.RegisterUser(r.Context(), service.RegisterUserInput{
		TenantID:  r.PathValue("id"),
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toUserDTO(user))
}

// HandleList godoc
//
//	@Summary	List Tenant Users
//	@Tags		Users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Tenant id"
//	@Success	200	{array}	authsdk.User
//	@Router		/v1/tenants/{id}/users [get]
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListTenantUsers(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]authsdk.User, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary	Get User
//	@Tags		Users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"User id"
//	@Success	200	{object}	authsdk.User
//	@Failure	404	{object}	authsdk.APIError
//	@Router		/v1/users/{id} [get]
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleStatus godoc
//
//	@Summary	Activate / Deactivate User
//	@Tags		Users
//	@Accept		json
//	@Security	BearerAuth
//	@Param		id		path	string						true	"User id"
//	@Param		body	body	authsdk.ChangeStatusRequest	true	"Status"
//	@Success	204
//	@Failure	404	{object}	authsdk.APIError
//	@Router		/v1/users/{id}/status [put]
func (h *UsersHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ChangeStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Users.ChangeUserStatus(r.Context(), r.PathValue("id"), req.Active); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete godoc
//
//	@Summary	Delete User
//	@Description	Deletes the user together with their refresh tokens and role assignments.
//	@Tags		Users
//	@Security	BearerAuth
//	@Param		id	path	string	true	"User id"
//	@Success	204
//	@Failure	404	{object}	authsdk.APIError
//	@Router		/v1/users/{id} [delete]
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAssignRole godoc
//
//	@Summary	Assign Role
//	@Tags		Users
//	@Accept		json
//	@Security	BearerAuth
//	@Param		id		path	string					true	"User id"
//	@Param		body	body	authsdk.AssignRoleRequest	true	"Role"
//	@Success	204
//	@Failure	409	{object}	authsdk.APIError	"already assigned"
//	@Failure	422	{object}	authsdk.APIError	"role from another tenant"
//	@Router		/v1/users/{id}/roles [post]
func (h *UsersHandler) HandleAssignRole(w http.ResponseWriter, r *http.Request) {
	var req authsdk.AssignRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Users.AssignRole(r.Context(), r.PathValue("id"), req.RoleID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUnassignRole godoc
//
//	@Summary	Unassign Role
//	@Tags		Users
//	@Security	BearerAuth
//	@Param		id		path	string	true	"User id"
//	@Param		roleID	path	string	true	"Role id"
//	@Success	204
//	@Failure	404	{object}	authsdk.APIError
//	@Router		/v1/users/{id}/roles/{roleID} [delete]
func (h *UsersHandler) HandleUnassignRole(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.UnassignRole(r.Context(), r.PathValue("id"), r.PathValue("roleID")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
