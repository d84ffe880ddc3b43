package repo

import (
	"context"
	"sort"
	"time"

	"github.com/opencampus/portal/internal/apperr"
	"github.com/opencampus/portal/internal/cache"
	"github.com/opencampus/portal/internal/domain"
	"github.com/opencampus/portal/internal/logger"
)

// Events reads and appends rows of the events table.
type Events struct {
	store    TableStore
	listings *cache.Store
	ttl      time.Duration
	log      logger.Logger
	now      func() time.Time
}

func NewEvents(store TableStore, listings *cache.Store, ttl time.Duration, log logger.Logger) *Events {
	if ttl <= 0 {
		ttl = cache.DefaultListingTTL
	}
	return &Events{store: store, listings: listings, ttl: ttl, log: log, now: time.Now}
}

func eventRow(e domain.Event) []string {
	return []string{
		e.ID,
		e.Title,
		e.Description,
		timeCell(e.Date),
		e.Location,
		e.RSVPForm,
		boolCell(e.Visible),
		timeCell(e.CreatedAt),
	}
}

func mapEvent(row []string) domain.Event {
	return domain.Event{
		ID:          cell(row, 0),
		Title:       cell(row, 1),
		Description: cell(row, 2),
		Date:        parseTimeCell(cell(row, 3)),
		Location:    cell(row, 4),
		RSVPForm:    cell(row, 5),
		Visible:     parseBoolCell(cell(row, 6)),
		CreatedAt:   parseTimeCell(cell(row, 7)),
	}
}

// current reconstructs present state from the append-only table: the latest
// row per id is authoritative (visibility flips are fresh appends).
func (r *Events) current(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.store.ReadRange(ctx, TableEvents, "")
	if err != nil {
		return nil, err
	}

	byID := make(map[string]int)
	events := make([]domain.Event, 0, len(rows))
	for _, row := range dataRows(rows) {
		e := mapEvent(row)
		if e.ID == "" {
			continue
		}
		if i, ok := byID[e.ID]; ok {
			events[i] = e
			continue
		}
		byID[e.ID] = len(events)
		events = append(events, e)
	}
	return events, nil
}

// Upcoming lists visible events that have not started yet, soonest first.
// A short-TTL cached listing is served when present.
func (r *Events) Upcoming(ctx context.Context) ([]domain.Event, error) {
	if r.listings != nil {
		var cached []domain.Event
		if hit, err := r.listings.GetListing(ctx, cache.KeyEvents, &cached); err == nil && hit {
			return cached, nil
		} else if err != nil {
			r.log.Debug("event listing cache unavailable", logger.Error(err))
		}
	}

	events, err := r.current(ctx)
	if err != nil {
		return nil, err
	}

	now := r.now()
	upcoming := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if e.Visible && !e.Date.Before(now) {
			upcoming = append(upcoming, e)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Date.Before(upcoming[j].Date) })

	if r.listings != nil {
		if err := r.listings.SetListing(ctx, cache.KeyEvents, upcoming, r.ttl); err != nil {
			r.log.Warn("failed to cache event listing", logger.Error(err))
		}
	}
	return upcoming, nil
}

// Get returns the current state of one event, hidden or not.
func (r *Events) Get(ctx context.Context, id string) (domain.Event, error) {
	events, err := r.current(ctx)
	if err != nil {
		return domain.Event{}, err
	}
	for _, e := range events {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.Event{}, apperr.NotFound("event not found")
}

// Create appends a new event row, generating its id and creation time.
func (r *Events) Create(ctx context.Context, e domain.Event) (domain.Event, error) {
	now := r.now()
	e.ID = newID(now)
	e.CreatedAt = now
	e.Visible = true

	if err := r.store.Append(ctx, TableEvents, eventRow(e)); err != nil {
		return domain.Event{}, err
	}
	r.invalidateListing(ctx)
	return e, nil
}

// Hide flips the visibility flag by appending a fresh row with the same id.
// The store has no update-in-place for single records and no delete at all.
func (r *Events) Hide(ctx context.Context, id string) error {
	e, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	e.Visible = false
	if err := r.store.Append(ctx, TableEvents, eventRow(e)); err != nil {
		return err
	}
	r.invalidateListing(ctx)
	return nil
}

func (r *Events) invalidateListing(ctx context.Context) {
	if r.listings == nil {
		return
	}
	if err := r.listings.Invalidate(ctx, cache.KeyEvents); err != nil {
		r.log.Warn("failed to invalidate event listing", logger.Error(err))
	}
}
