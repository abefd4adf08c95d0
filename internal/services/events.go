package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/evently/evently/internal/models"
	"github.com/evently/evently/internal/shared"
)

// EventsAPI talks to the /events endpoints. All of them are protected; an
// expired token surfaces as the gateway's 401 handling, never here.
type EventsAPI struct {
	gw *Gateway
}

// NewEventsAPI creates an EventsAPI over the given gateway.
func NewEventsAPI(gw *Gateway) *EventsAPI {
	return &EventsAPI{gw: gw}
}

type eventEnvelope struct {
	Data models.Event `json:"data"`
}

type eventListEnvelope struct {
	Data []models.Event `json:"data"`
}

// All lists events, optionally narrowed by a title search and a relative
// time window. Filtering happens server-side; the client passes values
// through untouched.
func (a *EventsAPI) All(ctx context.Context, f models.Filters) ([]models.Event, error) {
	params := url.Values{}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.Window != models.WindowAll {
		params.Set("filter", string(f.Window))
	}

	path := "/events/all"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var payload eventListEnvelope
	if err := a.gw.Do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// Mine lists the events owned by the authenticated user.
func (a *EventsAPI) Mine(ctx context.Context) ([]models.Event, error) {
	var payload eventListEnvelope
	if err := a.gw.Do(ctx, http.MethodGet, "/events/my-events", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// Create submits a draft and returns the server-assigned record.
func (a *EventsAPI) Create(ctx context.Context, draft models.EventDraft) (*models.Event, error) {
	var payload eventEnvelope
	if err := a.gw.Do(ctx, http.MethodPost, "/events/create", draft, &payload); err != nil {
		return nil, err
	}
	return &payload.Data, nil
}

// Join registers the current user as an attendee. The returned record carries
// the server's authoritative attendeeCount; the client never increments it
// locally.
func (a *EventsAPI) Join(ctx context.Context, id string) (*models.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: event id", shared.ErrMissingArgument)
	}

	body := map[string]string{"eventId": id}

	var payload eventEnvelope
	if err := a.gw.Do(ctx, http.MethodPost, "/events/join", body, &payload); err != nil {
		return nil, err
	}
	return &payload.Data, nil
}

// Update patches the editable fields of an owned event. DateTime is never
// part of the patch.
func (a *EventsAPI) Update(ctx context.Context, id string, patch models.EventPatch) (*models.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: event id", shared.ErrMissingArgument)
	}

	var payload eventEnvelope
	if err := a.gw.Do(ctx, http.MethodPatch, "/events/"+id, patch, &payload); err != nil {
		return nil, err
	}
	return &payload.Data, nil
}

// Delete removes an owned event. Irreversible; callers confirm first.
func (a *EventsAPI) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: event id", shared.ErrMissingArgument)
	}
	return a.gw.Do(ctx, http.MethodDelete, "/events/"+id, nil, nil)
}
