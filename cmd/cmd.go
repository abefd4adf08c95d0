// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, eventsCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Display name", Required: true},
					&cli.StringFlag{Name: "email", Usage: "Email address", Required: true},
					&cli.StringFlag{Name: "password", Usage: "Password", Required: true},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "login",
				Usage: "Sign in with existing credentials",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Email address", Required: true},
					&cli.StringFlag{Name: "password", Usage: "Password", Required: true},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session (local only)",
				Action: r.AuthLogout,
			},
			{
				Name:  "whoami",
				Usage: "Show the signed-in user",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "remote",
						Usage: "Re-fetch the profile from the server",
					},
				},
				Action: r.AuthWhoami,
			},
		},
	}
}

// eventsCommand handles event browsing and management
func eventsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "events",
		Aliases: []string{"ev"},
		Usage:   "Browse and manage events",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all events",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "search",
						Usage: "Filter by title search",
					},
					&cli.StringFlag{
						Name:  "filter",
						Usage: "Time window: today, currentWeek, lastWeek, currentMonth, lastMonth",
					},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.EventsList,
			},
			{
				Name:  "mine",
				Usage: "List events you created",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.EventsMine,
			},
			{
				Name:  "create",
				Usage: "Create a new event",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Event title", Required: true},
					&cli.StringFlag{
						Name:  "organizer",
						Usage: "Organizer display name (defaults to your profile name)",
					},
					&cli.StringFlag{
						Name:     "date",
						Usage:    "Date and time, e.g. \"2026-09-15 18:30\"",
						Required: true,
					},
					&cli.StringFlag{Name: "location", Usage: "Event location", Required: true},
					&cli.StringFlag{Name: "description", Usage: "Event description", Required: true},
				},
				Action: r.EventsCreate,
			},
			{
				Name:  "join",
				Usage: "Join an event",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.EventsJoin,
			},
			{
				Name:  "update",
				Usage: "Update an event you own",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "New event title"},
					&cli.StringFlag{Name: "location", Usage: "New location"},
					&cli.StringFlag{Name: "description", Usage: "New description"},
				},
				Action: r.EventsUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete an event you own",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.EventsDelete,
			},
			{
				Name:  "export",
				Usage: "Export the event listing to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, markdown, txt, json",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
					&cli.StringFlag{Name: "search", Usage: "Filter by title search"},
					&cli.StringFlag{Name: "filter", Usage: "Time window filter"},
					&cli.BoolFlag{Name: "mine", Usage: "Export only events you created"},
				},
				Action: r.EventsExport,
			},
		},
	}
}

// setupCommand handles setup operations for the credential database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize the credential database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive event browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive event browser",
		Action:  r.TUI,
	}
}
