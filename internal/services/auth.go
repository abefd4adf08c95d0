package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/evently/evently/internal/models"
	"github.com/evently/evently/internal/shared"
)

// AuthAPI talks to the /user endpoints. Signup and login are the anonymous
// endpoints; the gateway simply sends no bearer header when the store is
// empty.
type AuthAPI struct {
	gw *Gateway
}

// NewAuthAPI creates an AuthAPI over the given gateway.
func NewAuthAPI(gw *Gateway) *AuthAPI {
	return &AuthAPI{gw: gw}
}

// authPayload is the success body of signup and login.
type authPayload struct {
	Token string          `json:"token"`
	User  *models.Profile `json:"user"`
}

func (p authPayload) session() (models.Session, error) {
	sess := models.Session{Token: p.Token, User: p.User}
	if !sess.Valid() || !sess.Authenticated() {
		return models.Session{}, fmt.Errorf("%w: server returned an incomplete session", shared.ErrAPIRequest)
	}
	return sess, nil
}

// Signup registers a new account. Returns the issued session on success.
func (a *AuthAPI) Signup(ctx context.Context, name, email, password string) (models.Session, error) {
	body := map[string]string{"name": name, "email": email, "password": password}

	var payload authPayload
	if err := a.gw.Do(ctx, http.MethodPost, "/user/signup", body, &payload); err != nil {
		return models.Session{}, credentialError(err)
	}
	return payload.session()
}

// Login exchanges credentials for a session.
func (a *AuthAPI) Login(ctx context.Context, email, password string) (models.Session, error) {
	body := map[string]string{"email": email, "password": password}

	var payload authPayload
	if err := a.gw.Do(ctx, http.MethodPost, "/user/login", body, &payload); err != nil {
		return models.Session{}, credentialError(err)
	}
	return payload.session()
}

// Profile fetches the authenticated user's profile.
func (a *AuthAPI) Profile(ctx context.Context) (*models.Profile, error) {
	var payload struct {
		User *models.Profile `json:"user"`
	}
	if err := a.gw.Do(ctx, http.MethodGet, "/user/profile", nil, &payload); err != nil {
		return nil, err
	}
	if payload.User == nil {
		return nil, fmt.Errorf("%w: server returned no profile", shared.ErrAPIRequest)
	}
	return payload.User, nil
}

// credentialError maps a rejected signup/login onto ErrInvalidCredentials
// while keeping the server's verbatim message. Other failures pass through.
func credentialError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) &&
		(apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
		return fmt.Errorf("%w: %s", shared.ErrInvalidCredentials, apiErr.Error())
	}
	return err
}
