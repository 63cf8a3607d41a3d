package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aim-ba/ravenlink/internal/model"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Email            string     `json:"email"`
	Password         string     `json:"password"`
	Role             model.Role `json:"role"`
	OrganizationName string     `json:"organization_name,omitempty"`
}

type authResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         model.Profile `json:"user"`
}

func (r authResponse) session() model.Session {
	return model.Session{
		Profile:      r.User,
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
	}
}

// rejected reports whether the server refused the credentials or token.
// Transport failures and server faults are not rejections; the session store
// must not treat them as a dead session.
func rejected(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden
}

// SignIn exchanges credentials for a session. Rejections surface as
// ErrAuthFailed; the password is never stored.
func (c *Client) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/api/auth/login", signInRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return model.Session{}, err
	}

	var resp authResponse
	if err := c.doJSON(req, &resp); err != nil {
		if rejected(err) {
			return model.Session{}, fmt.Errorf("%w: %v", ErrAuthFailed, err)
		}
		return model.Session{}, err
	}
	return resp.session(), nil
}

// SignUp registers a new account with the given role. organizationName is
// only meaningful for project proponents.
func (c *Client) SignUp(ctx context.Context, email, password string, role model.Role, organizationName string) (model.Session, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/api/auth/register", signUpRequest{
		Email:            email,
		Password:         password,
		Role:             role,
		OrganizationName: organizationName,
	})
	if err != nil {
		return model.Session{}, err
	}

	var resp authResponse
	if err := c.doJSON(req, &resp); err != nil {
		if rejected(err) {
			return model.Session{}, fmt.Errorf("%w: %v", ErrAuthFailed, err)
		}
		return model.Session{}, err
	}
	return resp.session(), nil
}

// CurrentUser fetches the profile behind the current access token. Used by
// the session store to confirm a silently restored token is still accepted:
// ErrAuthFailed means the token was refused, anything else is a fault the
// token may survive.
func (c *Client) CurrentUser(ctx context.Context) (model.Profile, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return model.Profile{}, err
	}

	var resp struct {
		User model.Profile `json:"user"`
	}
	if err := c.doJSON(req, &resp); err != nil {
		if rejected(err) {
			return model.Profile{}, fmt.Errorf("%w: %v", ErrAuthFailed, err)
		}
		return model.Profile{}, err
	}
	return resp.User, nil
}

// SignOut invalidates the token server-side. Best effort: the local session
// is cleared regardless of the outcome.
func (c *Client) SignOut(ctx context.Context) error {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/api/auth/logout", nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, nil)
}
