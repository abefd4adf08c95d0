package main

import (
	"context"
	"errors"

	"github.com/evently/evently/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthRegister creates an account via /user/signup and stores the issued session.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	email := cmd.String("email")
	password := cmd.String("password")

	r.logger.Info("registering account", "email", email)

	user, err := r.sessions.Register(ctx, name, email, password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			return r.writePlain("✗ Registration rejected: %v\n", err)
		}
		return err
	}

	r.writePlain("✓ Account created\n")
	return r.writePlain("Signed in as %s\n", user.Name)
}

// AuthLogin exchanges credentials for a session via /user/login.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	r.logger.Info("logging in", "email", email)

	user, err := r.sessions.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			return r.writePlain("✗ Login failed: %v\n", err)
		}
		return err
	}

	return r.writePlain("✓ Signed in as %s\n", user.Name)
}

// AuthLogout clears the stored session. Local-only; safe to repeat.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.sessions.Logout(); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthWhoami prints the current session state. With --remote it re-fetches
// the profile and refreshes the cached copy.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if !r.sessions.IsAuthenticated() {
		return r.writePlain("Not signed in\n")
	}

	user := r.sessions.CurrentUser()
	if cmd.Bool("remote") {
		refreshed, err := r.sessions.RefreshProfile(ctx)
		if err != nil {
			return err
		}
		user = refreshed
	}

	r.writePlain("Signed in as %s", user.Name)
	if user.Email != "" {
		r.writePlain(" <%s>", user.Email)
	}
	return r.writePlain("\n")
}
