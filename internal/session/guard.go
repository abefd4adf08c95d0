package session

import (
	"fmt"

	"github.com/evently/evently/internal/shared"
)

// Guard gates access to protected surfaces. It is consulted before a
// protected command runs or a protected TUI view mounts, so protected content
// is never produced for an anonymous user, not even transiently.
type Guard struct {
	sessions *Manager
}

// NewGuard creates a Guard over the given Manager.
func NewGuard(m *Manager) *Guard {
	return &Guard{sessions: m}
}

// Allowed reports whether protected content may be shown. Re-evaluated on
// every check; the Guard itself is stateless.
func (g *Guard) Allowed() bool {
	return g.sessions.IsAuthenticated()
}

// Require returns shared.ErrNotAuthenticated with a login hint when the
// current session is anonymous.
func (g *Guard) Require() error {
	if g.Allowed() {
		return nil
	}
	return fmt.Errorf("%w: run 'evently auth login' first", shared.ErrNotAuthenticated)
}
