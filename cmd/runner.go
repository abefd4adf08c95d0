package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/evently/evently/internal/services"
	"github.com/evently/evently/internal/session"
	"github.com/evently/evently/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	store    session.Store
	sessions *session.Manager
	guard    *session.Guard
	gateway  *services.Gateway
	events   *services.EventsAPI
	logger   *log.Logger
	output   io.Writer
	input    io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Store      session.Store
	Gateway    *services.Gateway
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration, filling in
// defaults for anything unset.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Store == nil {
		opts.Store = session.NewMemoryStore()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Gateway == nil {
		opts.Gateway = services.NewGateway(services.GatewayOpts{
			BaseURL:     opts.Config.Server.BaseURL,
			Client:      opts.HTTPClient,
			Credentials: opts.Store,
			RateLimit:   opts.Config.Server.RateLimit,
			Logger:      opts.Logger,
		})
	}

	sessions := session.NewManager(services.NewAuthAPI(opts.Gateway), opts.Store)

	return &Runner{
		config:   opts.Config,
		store:    opts.Store,
		sessions: sessions,
		guard:    session.NewGuard(sessions),
		gateway:  opts.Gateway,
		events:   services.NewEventsAPI(opts.Gateway),
		logger:   opts.Logger,
		output:   opts.Output,
		input:    opts.Input,
	}
}

// SetLogger replaces the Runner's logger (used when the TUI takes over the terminal).
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
