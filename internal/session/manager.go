package session

import (
	"context"
	"fmt"

	"github.com/evently/evently/internal/models"
)

// AuthAPI is the slice of the remote service the Manager needs. Implemented
// by services.AuthAPI.
type AuthAPI interface {
	Signup(ctx context.Context, name, email, password string) (models.Session, error)
	Login(ctx context.Context, email, password string) (models.Session, error)
	Profile(ctx context.Context) (*models.Profile, error)
}

// Manager owns the credential store's lifecycle and exposes authentication
// state to the rest of the application.
//
// State machine: Anonymous --(Register | Login success)--> Authenticated;
// Authenticated --(Logout | gateway 401)--> Anonymous. The gateway clears the
// store directly on 401, so IsAuthenticated reflects that transition without
// the Manager being involved.
type Manager struct {
	api   AuthAPI
	store Store
}

// NewManager creates a Manager around the given API client and store.
func NewManager(api AuthAPI, store Store) *Manager {
	return &Manager{api: api, store: store}
}

// Register creates an account and transitions to Authenticated on success.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*models.Profile, error) {
	sess, err := m.api.Signup(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	if err := m.store.Set(sess); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return sess.User, nil
}

// Login authenticates and transitions to Authenticated on success.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.Profile, error) {
	sess, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := m.store.Set(sess); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return sess.User, nil
}

// Logout clears the store unconditionally. Local-only and idempotent; no
// server round trip.
func (m *Manager) Logout() error {
	return m.store.Clear()
}

// CurrentUser returns the cached profile, or nil when anonymous. Never blocks.
func (m *Manager) CurrentUser() *models.Profile {
	return m.store.Get().User
}

// CurrentUserID returns the cached profile id, or "" when anonymous.
func (m *Manager) CurrentUserID() string {
	if u := m.store.Get().User; u != nil {
		return u.ID
	}
	return ""
}

// IsAuthenticated derives authentication state purely from token presence.
func (m *Manager) IsAuthenticated() bool {
	return m.store.Get().Authenticated()
}

// RefreshProfile re-fetches the profile from the server and updates the
// cached copy, keeping the existing token.
func (m *Manager) RefreshProfile(ctx context.Context) (*models.Profile, error) {
	user, err := m.api.Profile(ctx)
	if err != nil {
		return nil, err
	}

	sess := m.store.Get()
	if !sess.Authenticated() {
		// The fetch itself may have invalidated the session via the gateway.
		return user, nil
	}
	sess.User = user
	if err := m.store.Set(sess); err != nil {
		return nil, fmt.Errorf("failed to store refreshed profile: %w", err)
	}
	return user, nil
}
