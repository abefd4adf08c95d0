package ui

import (
	"github.com/evently/evently/internal/events"
	"github.com/evently/evently/internal/models"
)

// SessionInvalidMsg is sent from outside the program when the server rejects
// the stored token mid-session. The model drops back to the login view.
type SessionInvalidMsg struct{}

type authDoneMsg struct {
	profile *models.Profile
	err     error
}

type eventsFetchedMsg struct {
	source events.Source
	events []models.Event
	err    error
}

type eventCreatedMsg struct {
	event     *models.Event
	fieldErrs map[string]string
	err       error
}

type eventUpdatedMsg struct {
	event     *models.Event
	fieldErrs map[string]string
	err       error
}

type eventJoinedMsg struct {
	id    string
	event *models.Event
	err   error
}

type eventDeletedMsg struct {
	id  string
	err error
}
