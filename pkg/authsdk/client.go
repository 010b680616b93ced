// Package authsdk is the Go client for the storefront session API. It mirrors
// the wire envelopes the server emits and keeps the signed-in session in an
// optional SessionCache.
package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Client talks to the storefront session API. When Cache is set, successful
// register/login calls persist the session and Logout clears it.
//
// Credential submissions (register, login, password reset) are serialized per
// client, so a double-submitted form results in one request at a time.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Cache      *SessionCache

	submitMu sync.Mutex
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates an account and opens a session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.postJSON(ctx, "/api/register", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	c.saveSession(out)
	return &out, nil
}

// Login authenticates an email/password pair and opens a session.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.postJSON(ctx, "/api/login", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	c.saveSession(out)
	return &out, nil
}

// Profile fetches the signed-in account using the cached token.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	token := ""
	if c.Cache != nil {
		token = c.Cache.Token()
	}
	return c.ProfileWithToken(ctx, token)
}

// ProfileWithToken fetches the account the given token belongs to.
func (c *Client) ProfileWithToken(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/profile", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	var out ProfileResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ForgotPassword starts the password-reset flow. It succeeds whether or not
// the email has an account.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	var out MessageResponse
	return c.postJSON(ctx, "/api/forgot-password", ForgotPasswordRequest{Email: email}, &out, http.StatusOK)
}

// ResetPassword redeems a reset token with a new password.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	var out MessageResponse
	req := ResetPasswordRequest{Token: token, Password: password}
	return c.postJSON(ctx, "/api/reset-password", req, &out, http.StatusOK)
}

// Logout drops the cached session. Tokens are stateless so there is nothing
// to tell the server; the token simply ages out.
func (c *Client) Logout() error {
	if c.Cache == nil {
		return nil
	}
	return c.Cache.ClearSession()
}

func (c *Client) saveSession(resp AuthResponse) {
	if c.Cache == nil || resp.Token == "" {
		return
	}
	_ = c.Cache.SaveSession(resp.Token, resp.User)
}

func (c *Client) postJSON(ctx context.Context, path string, body, target any, expectedStatus int) error {
	c.submitMu.Lock()
	defer c.submitMu.Unlock()

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	return decodeJSON(resp, target, expectedStatus)
}

// decodeJSON decodes a response body into target, translating non-expected
// statuses into a typed *APIError.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, body)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
