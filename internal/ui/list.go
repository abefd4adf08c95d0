package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/evently/evently/internal/events"
	"github.com/evently/evently/internal/models"
)

var (
	_ list.Item = eventItem{}
)

// eventItem wraps [models.Event] to implement [list.Item].
type eventItem struct {
	event   models.Event
	joined  bool
	pending events.Op
}

func (i eventItem) FilterValue() string { return i.event.EventTitle }

func (i eventItem) Title() string {
	title := i.event.EventTitle
	switch {
	case i.pending == events.OpJoining:
		title = fmt.Sprintf("%s (joining...)", title)
	case i.pending == events.OpDeleting:
		title = fmt.Sprintf("%s (deleting...)", title)
	case i.joined:
		title = fmt.Sprintf("%s ✓", title)
	}
	return title
}

func (i eventItem) Description() string {
	desc := fmt.Sprintf("%s • %s • %d attendees",
		i.event.DateTime.Local().Format("Mon Jan 2 15:04"),
		i.event.Location,
		i.event.AttendeeCount,
	)
	if i.event.OrganizerName != "" {
		desc = fmt.Sprintf("%s • by %s", desc, i.event.OrganizerName)
	}
	return desc
}

// eventItems converts a controller snapshot to list items, marking events the
// user already joined and events with an in-flight operation.
func eventItems(collection []models.Event, userID string, pending func(string) (events.Op, bool)) []list.Item {
	items := make([]list.Item, len(collection))
	for i, event := range collection {
		item := eventItem{event: event, joined: event.HasAttendee(userID)}
		if op, ok := pending(event.ID); ok {
			item.pending = op
		}
		items[i] = item
	}
	return items
}
