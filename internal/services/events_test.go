package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evently/evently/internal/models"
	"github.com/evently/evently/internal/session"
	"github.com/evently/evently/internal/shared"
)

func testEventsAPI(t *testing.T, handler http.HandlerFunc) *EventsAPI {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewEventsAPI(NewGateway(GatewayOpts{BaseURL: server.URL, Credentials: authedStore(t)}))
}

func TestEventsAPI(t *testing.T) {
	sample := map[string]any{
		"_id":           "ev1",
		"eventTitle":    "Go Meetup",
		"name":          "Ada",
		"dateTime":      "2026-09-15T18:30:00Z",
		"location":      "Community Hall",
		"description":   "Monthly meetup",
		"attendeeCount": 3,
	}

	t.Run("All", func(t *testing.T) {
		t.Run("No Filters", func(t *testing.T) {
			api := testEventsAPI(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/events/all" {
					t.Errorf("expected path /events/all, got %s", r.URL.Path)
				}
				if r.URL.RawQuery != "" {
					t.Errorf("expected no query, got %s", r.URL.RawQuery)
				}
				json.NewEncoder(w).Encode(map[string]any{"data": []any{sample}})
			})

			events, err := api.All(context.Background(), models.Filters{})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(events) != 1 || events[0].ID != "ev1" {
				t.Errorf("unexpected events: %+v", events)
			}
		})

		t.Run("With Search And Window", func(t *testing.T) {
			api := testEventsAPI(t, func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("search") != "meetup" {
					t.Errorf("expected search=meetup, got %s", q.Get("search"))
				}
				if q.Get("filter") != "currentWeek" {
					t.Errorf("expected filter=currentWeek, got %s", q.Get("filter"))
				}
				json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
			})

			_, err := api.All(context.Background(), models.Filters{
				Search: "meetup",
				Window: models.WindowCurrentWeek,
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("Mine", func(t *testing.T) {
		api := testEventsAPI(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/events/my-events" {
				t.Errorf("expected path /events/my-events, got %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]any{"data": []any{sample}})
		})

		events, err := api.Mine(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(events) != 1 {
			t.Errorf("expected one event, got %d", len(events))
		}
	})

	t.Run("Create", func(t *testing.T) {
		api := testEventsAPI(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/events/create" {
				t.Errorf("expected POST /events/create, got %s %s", r.Method, r.URL.Path)
			}

			var draft models.EventDraft
			json.NewDecoder(r.Body).Decode(&draft)
			if draft.EventTitle != "Go Meetup" {
				t.Errorf("expected draft title, got %+v", draft)
			}

			json.NewEncoder(w).Encode(map[string]any{"data": sample})
		})

		created, err := api.Create(context.Background(), models.EventDraft{EventTitle: "Go Meetup"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if created.ID != "ev1" {
			t.Errorf("expected server-assigned id, got %s", created.ID)
		}
	})

	t.Run("Join", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			api := testEventsAPI(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/events/join" {
					t.Errorf("expected POST /events/join, got %s %s", r.Method, r.URL.Path)
				}

				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				if body["eventId"] != "ev1" {
					t.Errorf("expected eventId in body, got %+v", body)
				}

				json.NewEncoder(w).Encode(map[string]any{"data": sample})
			})

			joined, err := api.Join(context.Background(), "ev1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if joined.AttendeeCount != 3 {
				t.Errorf("expected server's attendee count, got %d", joined.AttendeeCount)
			}
		})

		t.Run("Already Joined", func(t *testing.T) {
			api := testEventsAPI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"message": "You already joined this event"}`))
			})

			_, err := api.Join(context.Background(), "ev1")
			if !errors.Is(err, shared.ErrAlreadyJoined) {
				t.Errorf("expected ErrAlreadyJoined, got %v", err)
			}
		})

		t.Run("Empty ID", func(t *testing.T) {
			api := NewEventsAPI(NewGateway(GatewayOpts{Credentials: session.NewMemoryStore()}))
			if _, err := api.Join(context.Background(), ""); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		api := testEventsAPI(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPatch || r.URL.Path != "/events/ev1" {
				t.Errorf("expected PATCH /events/ev1, got %s %s", r.Method, r.URL.Path)
			}

			var patch models.EventPatch
			json.NewDecoder(r.Body).Decode(&patch)
			if patch.Location != "New Hall" {
				t.Errorf("expected patched location, got %+v", patch)
			}

			json.NewEncoder(w).Encode(map[string]any{"data": sample})
		})

		if _, err := api.Update(context.Background(), "ev1", models.EventPatch{
			EventTitle:  "Go Meetup",
			Location:    "New Hall",
			Description: "Monthly meetup",
		}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			api := testEventsAPI(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete || r.URL.Path != "/events/ev1" {
					t.Errorf("expected DELETE /events/ev1, got %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(http.StatusOK)
			})

			if err := api.Delete(context.Background(), "ev1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Not Found", func(t *testing.T) {
			api := testEventsAPI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"message": "Event not found"}`))
			})

			if err := api.Delete(context.Background(), "ev9"); !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	})
}
