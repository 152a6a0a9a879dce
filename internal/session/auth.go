package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/plugspot/plugspot/internal/api/market"
	"github.com/plugspot/plugspot/internal/models"
)

// ErrRoleMismatch is returned when credentials are valid but the account's
// role does not match the portal being signed into. No state is persisted.
var ErrRoleMismatch = errors.New("account role does not match this portal")

// Redirect targets per role after a successful sign-in.
const (
	redirectUser  = "/dashboard"
	redirectOwner = "/owner"
)

// Authenticator runs the login/register/logout flows against the marketplace
// API and owns the rule that partial session state is never persisted.
type Authenticator struct {
	api    *market.Client
	store  *Store
	logger *zap.Logger
}

// NewAuthenticator builds the auth flow runner.
func NewAuthenticator(api *market.Client, store *Store, logger *zap.Logger) *Authenticator {
	return &Authenticator{api: api, store: store, logger: logger}
}

// Login signs into the given portal. On success the session is persisted and
// the role-based redirect target returned. A role mismatch rejects without
// persisting; any other failure surfaces the server message or a generic one.
func (a *Authenticator) Login(ctx context.Context, creds market.Credentials, portal models.Role) (string, error) {
	resp, err := a.api.Login(ctx, creds)
	if err != nil {
		return "", a.surface(err, "login failed, please try again")
	}
	return a.establish(resp, portal)
}

// Register creates an account against the given portal, then behaves like
// Login.
func (a *Authenticator) Register(ctx context.Context, req market.RegisterRequest, portal models.Role) (string, error) {
	req.Role = portal
	resp, err := a.api.Register(ctx, req)
	if err != nil {
		return "", a.surface(err, "registration failed, please try again")
	}
	return a.establish(resp, portal)
}

func (a *Authenticator) establish(resp *market.AuthResponse, portal models.Role) (string, error) {
	if resp.Token == "" {
		return "", errors.New("login failed, please try again")
	}
	if resp.User.Role != portal {
		a.logger.Info("rejected sign-in on wrong portal",
			zap.String("portal", string(portal)),
			zap.String("role", string(resp.User.Role)))
		return "", ErrRoleMismatch
	}

	if err := a.store.Set(resp.Token, resp.User); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}

	return RedirectFor(resp.User.Role), nil
}

// Logout clears the session pair and reports where to send the browser.
func (a *Authenticator) Logout() string {
	a.store.Clear()
	return "/"
}

// RedirectFor maps a role to its portal landing page.
func RedirectFor(role models.Role) string {
	if role == models.RoleOwner {
		return redirectOwner
	}
	return redirectUser
}

// surface converts an API failure into the user-facing message: the server's
// own wording when it sent one, regardless of status code, the generic
// fallback otherwise.
func (a *Authenticator) surface(err error, fallback string) error {
	if apiErr, ok := market.AsAPIError(err); ok && apiErr.FromServer && apiErr.Message != "" {
		return errors.New(apiErr.Message)
	}
	return errors.New(fallback)
}
