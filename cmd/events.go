package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evently/evently/internal/events"
	"github.com/evently/evently/internal/formatter"
	"github.com/evently/evently/internal/models"
	"github.com/evently/evently/internal/shared"
	"github.com/urfave/cli/v3"
)

// dateLayouts are accepted input formats for --date, tried in order.
var dateLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.RFC3339,
}

func parseEventDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", shared.ErrInvalidFlag, s)
}

func parseFilters(cmd *cli.Command) (models.Filters, error) {
	f := models.Filters{Search: cmd.String("search")}
	if raw := cmd.String("filter"); raw != "" {
		window, err := models.ParseTimeWindow(raw)
		if err != nil {
			return models.Filters{}, fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
		}
		f.Window = window
	}
	return f, nil
}

// newController builds a collection controller scoped to this invocation.
func (r *Runner) newController(source events.Source) *events.Controller {
	return events.NewController(r.events, source, r.sessions.CurrentUserID)
}

func (r *Runner) writeEvents(collection []models.Event) {
	if len(collection) == 0 {
		r.writePlain("No events found\n")
		return
	}

	userID := r.sessions.CurrentUserID()
	for _, event := range collection {
		joined := ""
		if event.HasAttendee(userID) {
			joined = " [joined]"
		}
		r.writePlain("%s  %s%s\n", event.ID, event.EventTitle, joined)
		r.writePlain("    Posted by %s · %s · %s · %d attendees\n",
			event.OrganizerName,
			event.DateTime.Local().Format("Mon Jan 2 15:04"),
			event.Location,
			event.AttendeeCount,
		)
	}
}

// EventsList fetches and prints the filtered event listing.
func (r *Runner) EventsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard.Require(); err != nil {
		return err
	}

	filters, err := parseFilters(cmd)
	if err != nil {
		return err
	}

	collection, err := r.newController(events.SourceAll).Fetch(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(collection, true)
	}
	r.writeEvents(collection)
	return nil
}

// EventsMine fetches and prints the events owned by the signed-in user.
func (r *Runner) EventsMine(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard.Require(); err != nil {
		return err
	}

	collection, err := r.newController(events.SourceMine).Fetch(ctx, models.Filters{})
	if err != nil {
		return fmt.Errorf("failed to fetch your events: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(collection, true)
	}
	r.writeEvents(collection)
	return nil
}

// EventsCreate validates and submits a new event. Local validation failures
// are printed per field and never reach the network.
func (r *Runner) EventsCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard.Require(); err != nil {
		return err
	}

	dateTime, err := parseEventDate(cmd.String("date"))
	if err != nil {
		return err
	}

	organizer := cmd.String("organizer")
	if organizer == "" {
		if user := r.sessions.CurrentUser(); user != nil {
			organizer = user.Name
		}
	}

	draft := models.EventDraft{
		EventTitle:    cmd.String("title"),
		OrganizerName: organizer,
		DateTime:      dateTime,
		Location:      cmd.String("location"),
		Description:   cmd.String("description"),
	}

	created, err := r.newController(events.SourceAll).Create(ctx, draft)
	if err != nil {
		var verr *events.ValidationError
		if errors.As(err, &verr) {
			for field, message := range verr.Fields {
				r.writePlain("✗ %s: %s\n", field, message)
			}
			return shared.ErrValidation
		}
		return fmt.Errorf("failed to create event: %w", err)
	}

	r.logger.Info("event created", "id", created.ID)
	return r.writePlain("✓ Event created: %s (%s)\n", created.EventTitle, created.ID)
}

// EventsJoin joins an event and prints the server's authoritative attendee count.
func (r *Runner) EventsJoin(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard.Require(); err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: event id", shared.ErrMissingArgument)
	}

	joined, err := r.newController(events.SourceAll).Join(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrAlreadyJoined) {
			return r.writePlain("Already joined: %v\n", err)
		}
		return fmt.Errorf("failed to join event: %w", err)
	}

	return r.writePlain("✓ Joined — %d attendees\n", joined.AttendeeCount)
}

// EventsUpdate patches an owned event's editable fields. The event's date
// and time are fixed at creation and not editable here.
func (r *Runner) EventsUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard.Require(); err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: event id", shared.ErrMissingArgument)
	}

	patch := models.EventPatch{
		EventTitle:  cmd.String("title"),
		Location:    cmd.String("location"),
		Description: cmd.String("description"),
	}

	updated, err := r.newController(events.SourceMine).Update(ctx, id, patch)
	if err != nil {
		var verr *events.ValidationError
		if errors.As(err, &verr) {
			for field, message := range verr.Fields {
				r.writePlain("✗ %s: %s\n", field, message)
			}
			return shared.ErrValidation
		}
		if errors.Is(err, shared.ErrNotFound) {
			return r.writePlain("✗ Event not found: %v\n", err)
		}
		return fmt.Errorf("failed to update event: %w", err)
	}

	return r.writePlain("✓ Event updated: %s\n", updated.EventTitle)
}

// EventsDelete removes an owned event after confirmation. Irreversible.
func (r *Runner) EventsDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard.Require(); err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: event id", shared.ErrMissingArgument)
	}

	if !cmd.Bool("yes") {
		r.writePlain("Delete event %s? This action cannot be undone. [y/N] ", id)
		reader := bufio.NewReader(r.input)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if answer = strings.ToLower(strings.TrimSpace(answer)); answer != "y" && answer != "yes" {
			return r.writePlain("Aborted\n")
		}
	}

	if err := r.newController(events.SourceMine).Remove(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return r.writePlain("✗ Event not found: %v\n", err)
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}

	return r.writePlain("✓ Event deleted\n")
}

// EventsExport writes the (optionally filtered) listing to a file.
func (r *Runner) EventsExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard.Require(); err != nil {
		return err
	}

	var (
		collection []models.Event
		err        error
	)
	if cmd.Bool("mine") {
		collection, err = r.newController(events.SourceMine).Fetch(ctx, models.Filters{})
	} else {
		var filters models.Filters
		if filters, err = parseFilters(cmd); err != nil {
			return err
		}
		collection, err = r.newController(events.SourceAll).Fetch(ctx, filters)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	path, err := formatter.WriteExport(collection, cmd.String("format"), cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("export written", "path", path, "count", len(collection))
	return r.writePlain("✓ Exported %d events to %s\n", len(collection), path)
}
