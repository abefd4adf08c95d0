package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/evently/evently/internal/models"
	"github.com/evently/evently/internal/shared"
)

// API is the slice of the remote service the controller needs. Implemented
// by services.EventsAPI.
type API interface {
	All(ctx context.Context, f models.Filters) ([]models.Event, error)
	Mine(ctx context.Context) ([]models.Event, error)
	Create(ctx context.Context, draft models.EventDraft) (*models.Event, error)
	Join(ctx context.Context, id string) (*models.Event, error)
	Update(ctx context.Context, id string, patch models.EventPatch) (*models.Event, error)
	Delete(ctx context.Context, id string) error
}

// Op identifies the kind of in-flight mutation tracked per event.
type Op int

const (
	OpJoining Op = iota + 1
	OpDeleting
)

func (o Op) String() string {
	switch o {
	case OpJoining:
		return "joining"
	case OpDeleting:
		return "deleting"
	default:
		return "unknown"
	}
}

// Source selects which listing a controller reconciles.
type Source int

const (
	SourceAll  Source = iota // every event, filterable
	SourceMine               // events owned by the current user
)

// Controller owns one cached event collection. The cache is rebuilt wholesale
// on every successful fetch and patched in place for mutation outcomes.
//
// All methods are safe for concurrent use; the TUI runs fetches and mutations
// from separate goroutines.
type Controller struct {
	api    API
	source Source
	userID func() string
	now    func() time.Time

	mu      sync.Mutex
	cache   []models.Event
	filters models.Filters
	seq     uint64
	pending map[string]Op
}

// NewController creates a Controller over the given API client. userID
// reports the current user's id for join-membership reconciliation; it may
// be nil for views that never join.
func NewController(a API, source Source, userID func() string) *Controller {
	return &Controller{
		api:     a,
		source:  source,
		userID:  userID,
		now:     time.Now,
		pending: make(map[string]Op),
	}
}

// Events returns a snapshot of the cached collection.
func (c *Controller) Events() []models.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Filters returns the filters of the most recently issued fetch.
func (c *Controller) Filters() models.Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// Pending reports the in-flight operation for an event, if any.
func (c *Controller) Pending(id string) (Op, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	op, ok := c.pending[id]
	return op, ok
}

func (c *Controller) snapshotLocked() []models.Event {
	out := make([]models.Event, len(c.cache))
	copy(out, c.cache)
	return out
}

// Fetch replaces the collection with the server's listing for f. Each call
// supersedes the previous one: a response belonging to an older call is
// discarded on arrival and the current cache snapshot is returned instead,
// so a stale in-flight fetch never overwrites a newer result.
func (c *Controller) Fetch(ctx context.Context, f models.Filters) ([]models.Event, error) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.filters = f
	c.mu.Unlock()

	var (
		fetched []models.Event
		err     error
	)
	if c.source == SourceMine {
		fetched, err = c.api.Mine(ctx)
	} else {
		fetched, err = c.api.All(ctx, f)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		// Superseded while in flight; its outcome, success or failure, is stale.
		return c.snapshotLocked(), nil
	}
	if err != nil {
		return nil, err
	}

	c.cache = make([]models.Event, len(fetched))
	copy(c.cache, fetched)
	return c.snapshotLocked(), nil
}

// Create validates the draft locally, submits it, and appends the
// server-assigned record to the collection. A validation failure returns
// *ValidationError and performs no network call.
func (c *Controller) Create(ctx context.Context, draft models.EventDraft) (*models.Event, error) {
	if fields := ValidateDraft(draft, c.now()); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	created, err := c.api.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache = append(c.cache, *created)
	c.mu.Unlock()

	record := *created
	return &record, nil
}

// Update validates the patch locally, submits it, and replaces the cached
// record with the server's copy. DateTime survives unchanged: it is never
// part of the patch, and a server response omitting it keeps the cached value.
func (c *Controller) Update(ctx context.Context, id string, patch models.EventPatch) (*models.Event, error) {
	if fields := ValidatePatch(patch); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	updated, err := c.api.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.cache {
		if c.cache[i].ID != id {
			continue
		}
		if updated.DateTime.IsZero() {
			updated.DateTime = c.cache[i].DateTime
		}
		if updated.ID == "" {
			updated.ID = id
		}
		c.cache[i] = *updated
		break
	}

	record := *updated
	return &record, nil
}

// Remove deletes an event and drops exactly that record from the collection,
// leaving the order and fields of all others unchanged. Callers are expected
// to have confirmed with the user first. A second Remove for the same id
// while one is in flight fails locally with ErrOperationPending.
func (c *Controller) Remove(ctx context.Context, id string) error {
	if err := c.begin(id, OpDeleting); err != nil {
		return err
	}
	defer c.settle(id)

	if err := c.api.Delete(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.cache {
		if c.cache[i].ID == id {
			c.cache = append(c.cache[:i], c.cache[i+1:]...)
			break
		}
	}
	return nil
}

// Join registers the current user for an event and patches the cached record
// with the server's authoritative attendee count. The count is never
// incremented optimistically. A second Join for the same id while one is in
// flight fails locally with ErrOperationPending and issues no network call.
func (c *Controller) Join(ctx context.Context, id string) (*models.Event, error) {
	if err := c.begin(id, OpJoining); err != nil {
		return nil, err
	}
	defer c.settle(id)

	result, err := c.api.Join(ctx, id)
	if err != nil {
		return nil, err
	}

	uid := ""
	if c.userID != nil {
		uid = c.userID()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.cache {
		if c.cache[i].ID != id {
			continue
		}
		c.cache[i].AttendeeCount = result.AttendeeCount
		if len(result.Attendees) > 0 {
			c.cache[i].Attendees = result.Attendees
		} else if uid != "" && !c.cache[i].HasAttendee(uid) {
			// Server omitted the membership list; record the join so the
			// control stays disabled for this session's view of the record.
			c.cache[i].Attendees = append(c.cache[i].Attendees, uid)
		}
		record := c.cache[i]
		return &record, nil
	}

	record := *result
	return &record, nil
}

// begin claims the pending slot for id or rejects the duplicate locally.
func (c *Controller) begin(id string, op Op) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if current, ok := c.pending[id]; ok {
		return fmt.Errorf("%w: %s", shared.ErrOperationPending, current)
	}
	c.pending[id] = op
	return nil
}

// settle releases the pending slot unconditionally, success or failure.
func (c *Controller) settle(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}
