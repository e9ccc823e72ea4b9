package http

import (
	"net/http"
	"time"

	"github.com/tenauth/tenauth/internal/auth/service"
	"github.com/tenauth/tenauth/pkg/authsdk"
	"github.com/tenauth/tenauth/pkg/httpx"
)

// RefreshCookieName holds the opaque refresh token. HTTP-only and path-scoped
// to the auth endpoints so scripts and unrelated requests never see it.
const RefreshCookieName = "tenauth_refresh"

const refreshCookiePath = "/v1/auth"

// AuthHandler serves the login/refresh/revoke endpoints.
type AuthHandler struct {
	Auth *service.AuthService

	// SecureCookies is off only in local development over plain HTTP.
	SecureCookies bool
}

// HandleLogin godoc
//
//	@Summary		Login
//	@Description	Authenticates with username or email plus password. Returns a short-lived access token; the rotating refresh token is set as an HTTP-only cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.TokenResponse	"access_token, token_type, expires_in, user"
//	@Failure		400		{object}	authsdk.APIError		"error, error_description"
//	@Failure		401		{object}	authsdk.APIError		"error, error_description"
//	@Router			/v1/auth/login [post]
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pair, user, err := h.Auth.Login(r.Context(), req.NameOrEmail, req.Password, clientIP(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken, h.Auth.RefreshTTL)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   pair.TokenType,
		ExpiresIn:   int(pair.ExpiresIn.Seconds()),
		User:        toUserSummary(user),
	})
}

// HandleRefresh godoc
//
//	@Summary		Refresh
//	@Description	Rotates the refresh cookie and returns a fresh access token. Replaying an old cookie revokes the whole session chain.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	authsdk.TokenResponse	"access_token, token_type, expires_in, user"
//	@Failure		401	{object}	authsdk.APIError		"error, error_description"
//	@Router			/v1/auth/refresh [post]
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		authsdk.ErrAuthenticationFailed.WriteError(w)
		return
	}

	pair, user, err := h.Auth.Refresh(r.Context(), cookie.Value, clientIP(r))
	if err != nil {
		h.clearRefreshCookie(w)
		writeServiceError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken, h.Auth.RefreshTTL)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   pair.TokenType,
		ExpiresIn:   int(pair.ExpiresIn.Seconds()),
		User:        toUserSummary(user),
	})
}

// HandleRevoke godoc
//
//	@Summary		Logout
//	@Description	Revokes the session behind the refresh cookie and clears it. Revoking twice is fine.
//	@Tags			Auth
//	@Success		204	"session revoked"
//	@Failure		401	{object}	authsdk.APIError	"error, error_description"
//	@Router			/v1/auth/revoke [post]
func (h *AuthHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		authsdk.ErrAuthenticationFailed.WriteError(w)
		return
	}

	if err := h.Auth.Revoke(r.Context(), cookie.Value, clientIP(r)); err != nil {
		h.clearRefreshCookie(w)
		writeServiceError(w, r, err)
		return
	}

	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func clientIP(r *http.Request) string {
	return httpx.IPKeyExtractor(r)
}
