package backofficesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client is a minimal Go client for the back office API. The zero value is
// not usable; construct with NewClient.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// WithHTTPClient swaps the underlying HTTP client, e.g. for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// Login performs a password login.
func (c *Client) Login(ctx context.Context, email, password string) (SessionResponse, error) {
	var out SessionResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", "", LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

// Refresh rotates a refresh token into a new session.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (SessionResponse, error) {
	var out SessionResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/refresh", "", RefreshRequest{RefreshToken: refreshToken}, &out)
	return out, err
}

// Logout revokes a refresh token. Revoking an already-dead token succeeds.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/logout", "", LogoutRequest{RefreshToken: refreshToken}, nil)
}

// Me fetches the caller's profile using the given access token.
func (c *Client) Me(ctx context.Context, accessToken string) (MeResponse, error) {
	var out MeResponse
	err := c.do(ctx, http.MethodGet, "/v1/me", accessToken, nil, &out)
	return out, err
}

// ChangePassword rotates the caller's own password. The server revokes the
// caller's other sessions as part of the change.
func (c *Client) ChangePassword(ctx context.Context, accessToken, currentPassword, newPassword string) error {
	return c.do(ctx, http.MethodPut, "/v1/me/password", accessToken,
		ChangePasswordRequest{CurrentPassword: currentPassword, NewPassword: newPassword}, nil)
}

// ListRoles lists all roles. Requires the roles.view permission.
func (c *Client) ListRoles(ctx context.Context, accessToken string) (ListRolesResponse, error) {
	var out ListRolesResponse
	err := c.do(ctx, http.MethodGet, "/v1/roles", accessToken, nil, &out)
	return out, err
}

// ListPermissions lists the permission catalog. Requires permissions.view.
func (c *Client) ListPermissions(ctx context.Context, accessToken string) (ListPermissionsResponse, error) {
	var out ListPermissionsResponse
	err := c.do(ctx, http.MethodGet, "/v1/permissions", accessToken, nil, &out)
	return out, err
}

// Livez hits the liveness probe.
func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/livez", "", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Code == "" {
			return &APIError{Status: resp.StatusCode, Code: CodeServerError, Message: resp.Status}
		}
		return &APIError{Status: resp.StatusCode, Code: envelope.Code, Message: envelope.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
