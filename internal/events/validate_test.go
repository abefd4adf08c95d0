package events

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/evently/evently/internal/models"
	"github.com/evently/evently/internal/shared"
)

func validDraft(now time.Time) models.EventDraft {
	return models.EventDraft{
		EventTitle:    "Go Meetup",
		OrganizerName: "Ada",
		DateTime:      now.Add(24 * time.Hour),
		Location:      "Community Hall",
		Description:   "A monthly gathering",
	}
}

func TestValidateDraft(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	t.Run("Valid Draft", func(t *testing.T) {
		if errs := ValidateDraft(validDraft(now), now); len(errs) != 0 {
			t.Errorf("expected no errors, got %+v", errs)
		}
	})

	t.Run("Required Fields", func(t *testing.T) {
		errs := ValidateDraft(models.EventDraft{}, now)

		want := map[string]string{
			"eventTitle":  "Event title is required",
			"name":        "Name is required",
			"dateTime":    "Date and time is required",
			"location":    "Location is required",
			"description": "Description is required",
		}
		for field, message := range want {
			if errs[field] != message {
				t.Errorf("expected %s=%q, got %q", field, message, errs[field])
			}
		}
	})

	t.Run("Whitespace Only Fields", func(t *testing.T) {
		draft := validDraft(now)
		draft.EventTitle = "   "
		draft.Location = "\t"

		errs := ValidateDraft(draft, now)
		if errs["eventTitle"] != "Event title is required" {
			t.Errorf("whitespace title should be rejected, got %q", errs["eventTitle"])
		}
		if errs["location"] != "Location is required" {
			t.Errorf("whitespace location should be rejected, got %q", errs["location"])
		}
	})

	t.Run("DateTime Boundary Is Strict", func(t *testing.T) {
		draft := validDraft(now)

		draft.DateTime = now
		if errs := ValidateDraft(draft, now); errs["dateTime"] != "Event date must be in the future" {
			t.Errorf("an event starting exactly now must be rejected, got %q", errs["dateTime"])
		}

		draft.DateTime = now.Add(-time.Minute)
		if errs := ValidateDraft(draft, now); errs["dateTime"] != "Event date must be in the future" {
			t.Errorf("a past event must be rejected, got %q", errs["dateTime"])
		}

		draft.DateTime = now.Add(time.Second)
		if errs := ValidateDraft(draft, now); errs["dateTime"] != "" {
			t.Errorf("a future event must pass, got %q", errs["dateTime"])
		}
	})

	t.Run("Description Length Boundary", func(t *testing.T) {
		draft := validDraft(now)

		draft.Description = "123456789" // 9 characters
		if errs := ValidateDraft(draft, now); errs["description"] != "Description must be at least 10 characters" {
			t.Errorf("9 characters must be rejected, got %q", errs["description"])
		}

		draft.Description = "1234567890" // exactly 10
		if errs := ValidateDraft(draft, now); errs["description"] != "" {
			t.Errorf("10 characters must pass, got %q", errs["description"])
		}
	})
}

func TestValidatePatch(t *testing.T) {
	t.Run("Valid Patch", func(t *testing.T) {
		patch := models.EventPatch{
			EventTitle:  "Go Meetup",
			Location:    "New Hall",
			Description: "A monthly gathering",
		}
		if errs := ValidatePatch(patch); len(errs) != 0 {
			t.Errorf("expected no errors, got %+v", errs)
		}
	})

	t.Run("Empty Patch", func(t *testing.T) {
		errs := ValidatePatch(models.EventPatch{})
		for _, field := range []string{"eventTitle", "location", "description"} {
			if errs[field] == "" {
				t.Errorf("expected an error for %s", field)
			}
		}
	})

	t.Run("Short Description", func(t *testing.T) {
		patch := models.EventPatch{EventTitle: "T", Location: "L", Description: "short"}
		if errs := ValidatePatch(patch); errs["description"] != "Description must be at least 10 characters" {
			t.Errorf("unexpected message: %q", errs["description"])
		}
	})
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"location":   "Location is required",
		"eventTitle": "Event title is required",
	}}

	t.Run("Is", func(t *testing.T) {
		if !errors.Is(err, shared.ErrValidation) {
			t.Error("expected ErrValidation match")
		}
	})

	t.Run("Error Sorts Fields", func(t *testing.T) {
		msg := err.Error()
		if !strings.HasPrefix(msg, "eventTitle:") {
			t.Errorf("expected sorted field order, got %q", msg)
		}
		if !strings.Contains(msg, "location: Location is required") {
			t.Errorf("expected location message, got %q", msg)
		}
	})

	t.Run("Empty Fields Falls Back", func(t *testing.T) {
		empty := &ValidationError{}
		if empty.Error() != shared.ErrValidation.Error() {
			t.Errorf("unexpected message: %q", empty.Error())
		}
	})
}
