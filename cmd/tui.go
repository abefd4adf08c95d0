package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/evently/evently/internal/shared"
	"github.com/evently/evently/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing and managing events.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.events == nil {
		return fmt.Errorf("%w: event service not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/evently-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.sessions, r.guard, r.events)
	p := tea.NewProgram(model)

	// Expired sessions detected mid-request kick the UI back to the login view.
	r.gateway.OnSessionInvalid(func() {
		p.Send(ui.SessionInvalidMsg{})
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
