package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/evently/evently/internal/session"
	"github.com/evently/evently/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}

	if config.Log.Level != "" {
		if level, err := log.ParseLevel(config.Log.Level); err == nil {
			shared.SetLogLevel(logger, level)
		}
	}
	if config.Log.File != "" {
		if fileLogger, err := shared.NewFileLogger(config.Log.File); err == nil {
			logger = fileLogger
		}
	}

	var store session.Store
	if db, err := shared.NewDatabase(config.Database.Path); err != nil {
		logger.Warn("credential database unavailable, sessions will not persist", "error", err)
		store = session.NewMemoryStore()
	} else {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			logger.Warn("migrations failed, sessions will not persist", "error", err)
			db.Close()
			store = session.NewMemoryStore()
		} else if store, err = session.NewSQLiteStore(db); err != nil {
			logger.Warn("credential store unavailable, sessions will not persist", "error", err)
			db.Close()
			store = session.NewMemoryStore()
		}
	}

	client := &http.Client{Timeout: time.Duration(config.Server.Timeout) * time.Second}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		Store:      store,
		HTTPClient: client,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "evently",
		Usage:    "Browse, create, and join community events from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
