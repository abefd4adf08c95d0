package events

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/evently/evently/internal/models"
	"github.com/evently/evently/internal/shared"
)

// ValidationError maps field names to user-facing messages. It never reaches
// the network; submission is blocked while any message is present.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return shared.ErrValidation.Error()
	}

	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == shared.ErrValidation
}

// ValidateDraft checks a draft before submission. The dateTime boundary is
// strict: an event starting exactly now is rejected.
func ValidateDraft(d models.EventDraft, now time.Time) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(d.EventTitle) == "" {
		errs["eventTitle"] = "Event title is required"
	}
	if strings.TrimSpace(d.OrganizerName) == "" {
		errs["name"] = "Name is required"
	}
	if d.DateTime.IsZero() {
		errs["dateTime"] = "Date and time is required"
	} else if !d.DateTime.After(now) {
		errs["dateTime"] = "Event date must be in the future"
	}
	if strings.TrimSpace(d.Location) == "" {
		errs["location"] = "Location is required"
	}
	if strings.TrimSpace(d.Description) == "" {
		errs["description"] = "Description is required"
	} else if len(d.Description) < 10 {
		errs["description"] = "Description must be at least 10 characters"
	}

	return errs
}

// ValidatePatch checks the editable fields of an update. Identical rules to
// the create path for the fields a patch carries.
func ValidatePatch(p models.EventPatch) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(p.EventTitle) == "" {
		errs["eventTitle"] = "Event title is required"
	}
	if strings.TrimSpace(p.Location) == "" {
		errs["location"] = "Location is required"
	}
	if strings.TrimSpace(p.Description) == "" {
		errs["description"] = "Description is required"
	} else if len(p.Description) < 10 {
		errs["description"] = "Description must be at least 10 characters"
	}

	return errs
}
