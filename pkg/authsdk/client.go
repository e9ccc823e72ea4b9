// Package authsdk is the Go client for the tenauth service, plus the wire
// types and error shapes shared between client and server.
package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// Client talks to a tenauth server. The refresh token lives in the client's
// cookie jar, exactly as a browser would hold it; callers only ever see the
// access token.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a client with a cookie jar so the refresh cookie survives
// between calls.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}
}

// Login authenticates and returns the token response. The refresh cookie is
// captured by the jar.
func (c *Client) Login(ctx context.Context, nameOrEmail, password string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login",
		LoginRequest{NameOrEmail: nameOrEmail, Password: password}, "", &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh rotates the session using the jarred refresh cookie.
func (c *Client) Refresh(ctx context.Context) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/refresh", nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Revoke logs out the session held by the refresh cookie.
func (c *Client) Revoke(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/revoke", nil, "", nil)
}

// Permissions fetches the caller's effective permission map.
func (c *Client) Permissions(ctx context.Context, accessToken string) (Permissions, error) {
	var out Permissions
	if err := c.doJSON(ctx, http.MethodGet, "/v1/permissions", nil, accessToken, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Livez reports whether the service answers at all.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON sends a request with an optional JSON body and bearer token, and
// decodes either the success body into out or the error body into *APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, accessToken string, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if derr := json.NewDecoder(resp.Body).Decode(apiErr); derr != nil || apiErr.Code == "" {
			apiErr.Code = ErrorCodeServerError
			apiErr.Description = resp.Status
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
