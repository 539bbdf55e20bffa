// Package auth orchestrates the identity-service conversation:
// register, email confirmation, login, logout, token refresh, and the
// password-reset flows. It is the only component that writes login state
// into the credential store and the session manager.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/jobtrack/internal/client/credentials"
	"github.com/dmitrijs2005/jobtrack/internal/client/models"
	"github.com/dmitrijs2005/jobtrack/internal/client/session"
	"github.com/dmitrijs2005/jobtrack/internal/common"
	"github.com/dmitrijs2005/jobtrack/internal/logging"
)

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the login reply: a token pair plus the user profile.
type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *models.User `json:"user"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// Coordinator talks to the identity service and applies the resulting state
// changes to the credential store and session manager.
type Coordinator struct {
	baseURL  string
	http     *http.Client
	creds    credentials.Store
	sessions *session.Manager
	log      logging.Logger
}

// NewCoordinator binds a coordinator to the service base URL (scheme://host,
// no trailing slash) and the local state components. The HTTP client is
// expected to carry the request gate's transport so logout authenticates.
func NewCoordinator(baseURL string, httpClient *http.Client, creds credentials.Store, sessions *session.Manager, log logging.Logger) *Coordinator {
	return &Coordinator{
		baseURL:  baseURL,
		http:     httpClient,
		creds:    creds,
		sessions: sessions,
		log:      log,
	}
}

// Register creates an account. It changes no local state; the user still has
// to confirm their email and log in.
func (c *Coordinator) Register(ctx context.Context, req RegisterRequest) error {
	return c.postJSON(ctx, "/api/auth/register", req, nil)
}

// ConfirmEmail redeems an email-confirmation token. No local state change.
func (c *Coordinator) ConfirmEmail(ctx context.Context, token string) error {
	u := c.baseURL + "/api/auth/confirm?token=" + url.QueryEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

// Login authenticates and, on success, atomically persists the token pair,
// caches the profile, and publishes the user to the session state. On
// failure nothing changes locally.
func (c *Coordinator) Login(ctx context.Context, email, password string) (*models.User, error) {
	var out AuthResponse
	if err := c.postJSON(ctx, "/api/auth/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}

	if err := c.creds.SetTokens(ctx, out.AccessToken, out.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to persist tokens: %w", err)
	}
	if err := c.creds.SetUser(ctx, out.User); err != nil {
		c.log.Warn(ctx, "failed to cache user profile", "error", err)
	}
	c.sessions.Publish(out.User)

	return out.User, nil
}

// Logout tells the server to revoke the session and clears local state.
// The local clear happens regardless of the remote outcome: removing the
// session must never depend on a reachable server. The remote error, if any,
// is still returned so the caller can report it.
func (c *Coordinator) Logout(ctx context.Context) error {
	remoteErr := c.postJSON(ctx, "/api/auth/logout", struct{}{}, nil)
	if remoteErr != nil {
		c.log.Warn(ctx, "remote logout failed, clearing local session anyway", "error", remoteErr)
	}
	c.ClearSession(ctx)
	return remoteErr
}

// RefreshToken exchanges the stored refresh token for a new access token and
// persists it. On failure it does NOT clear the session: only the request
// gate knows whether the conversation is irrecoverably dead, so cascading
// cleanup is its call.
func (c *Coordinator) RefreshToken(ctx context.Context) (string, error) {
	refresh, err := c.creds.RefreshToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read refresh token: %w", err)
	}
	if refresh == "" {
		return "", common.ErrNoRefreshToken
	}

	var out refreshResponse
	if err := c.postJSON(ctx, "/api/auth/refresh", refreshRequest{RefreshToken: refresh}, &out); err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrRefreshFailed, err)
	}

	if err := c.creds.SetAccessToken(ctx, out.AccessToken); err != nil {
		return "", fmt.Errorf("failed to persist access token: %w", err)
	}
	return out.AccessToken, nil
}

// ForgotPassword submits a reset request. It always reports success, even
// when the backend fails: the reply must not reveal whether the address has
// an account.
func (c *Coordinator) ForgotPassword(ctx context.Context, email string) error {
	if err := c.postJSON(ctx, "/api/auth/forgot-password", map[string]string{"email": email}, nil); err != nil {
		c.log.Warn(ctx, "forgot-password request failed", "error", err)
	}
	return nil
}

// ResetPassword redeems a password-reset token. Stateless pass-through.
func (c *Coordinator) ResetPassword(ctx context.Context, token, newPassword string) error {
	return c.postJSON(ctx, "/api/auth/reset-password", map[string]string{
		"token":       token,
		"newPassword": newPassword,
	}, nil)
}

// ClearSession wipes the credential store and the session state.
func (c *Coordinator) ClearSession(ctx context.Context) {
	if err := c.creds.Clear(ctx); err != nil {
		c.log.Error(ctx, "failed to clear credential store", "error", err)
	}
	c.sessions.Clear()
}

func (c *Coordinator) postJSON(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// checkStatus converts a non-2xx reply into an *APIError, pulling the
// message from a {"message": ...} body when present and falling back to
// the raw body.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	msg := string(bytes.TrimSpace(raw))
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Message != "" {
		msg = parsed.Message
	}

	return &APIError{Status: resp.StatusCode, Message: msg}
}
