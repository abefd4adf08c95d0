package models

import (
	"fmt"
	"time"
)

// Profile is the server's record of a registered user. Owned by the session;
// read-only everywhere else.
type Profile struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	PhotoURL string `json:"photoURL,omitempty"`
}

// Session pairs an opaque bearer token with the profile it was issued for.
// Token and User are present together or not at all; Authenticated is the
// only derivation anything else should rely on.
type Session struct {
	Token string
	User  *Profile
}

// Authenticated reports whether the session holds a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Valid reports whether the token/user pairing invariant holds.
func (s Session) Valid() bool {
	return (s.Token == "") == (s.User == nil)
}

// Event mirrors one event document from the service. Field tags follow the
// server's wire names (`name` is the organizer's display name).
type Event struct {
	ID            string    `json:"_id"`
	EventTitle    string    `json:"eventTitle"`
	OrganizerName string    `json:"name"`
	DateTime      time.Time `json:"dateTime"`
	Location      string    `json:"location"`
	Description   string    `json:"description"`
	Attendees     []string  `json:"attendees,omitempty"`
	AttendeeCount int       `json:"attendeeCount"`
	OwnerID       string    `json:"createdBy,omitempty"`
}

// HasAttendee reports whether the given user id is in the event's attendee set.
func (e Event) HasAttendee(userID string) bool {
	if userID == "" {
		return false
	}
	for _, id := range e.Attendees {
		if id == userID {
			return true
		}
	}
	return false
}

// EventDraft is the payload for creating an event. DateTime is immutable once
// the event exists.
type EventDraft struct {
	EventTitle    string    `json:"eventTitle"`
	OrganizerName string    `json:"name"`
	DateTime      time.Time `json:"dateTime"`
	Location      string    `json:"location"`
	Description   string    `json:"description"`
}

// EventPatch carries the only fields editable after creation. DateTime is
// deliberately absent.
type EventPatch struct {
	EventTitle  string `json:"eventTitle"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// TimeWindow enumerates the server's relative date filters for event listings.
type TimeWindow string

const (
	WindowAll          TimeWindow = ""
	WindowToday        TimeWindow = "today"
	WindowCurrentWeek  TimeWindow = "currentWeek"
	WindowLastWeek     TimeWindow = "lastWeek"
	WindowCurrentMonth TimeWindow = "currentMonth"
	WindowLastMonth    TimeWindow = "lastMonth"
)

// TimeWindows lists every window in the order the UI cycles through them.
var TimeWindows = []TimeWindow{
	WindowAll,
	WindowToday,
	WindowCurrentWeek,
	WindowLastWeek,
	WindowCurrentMonth,
	WindowLastMonth,
}

// ParseTimeWindow validates a filter string from user input.
func ParseTimeWindow(s string) (TimeWindow, error) {
	for _, w := range TimeWindows {
		if s == string(w) {
			return w, nil
		}
	}
	return WindowAll, fmt.Errorf("unknown time window %q", s)
}

// Label returns the human-readable name of the window.
func (w TimeWindow) Label() string {
	switch w {
	case WindowToday:
		return "Today"
	case WindowCurrentWeek:
		return "Current Week"
	case WindowLastWeek:
		return "Last Week"
	case WindowCurrentMonth:
		return "Current Month"
	case WindowLastMonth:
		return "Last Month"
	default:
		return "All Events"
	}
}

// Filters narrow an event listing. Zero value means no filtering.
type Filters struct {
	Search string
	Window TimeWindow
}
