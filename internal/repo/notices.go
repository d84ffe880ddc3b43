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

// Notices reads and appends rows of the notices table.
type Notices struct {
	store    TableStore
	listings *cache.Store
	ttl      time.Duration
	log      logger.Logger
	now      func() time.Time
}

func NewNotices(store TableStore, listings *cache.Store, ttl time.Duration, log logger.Logger) *Notices {
	if ttl <= 0 {
		ttl = cache.DefaultListingTTL
	}
	return &Notices{store: store, listings: listings, ttl: ttl, log: log, now: time.Now}
}

func noticeRow(n domain.Notice) []string {
	return []string{
		n.ID,
		n.Title,
		n.BodyHTML,
		n.Category,
		timeCell(n.PostedAt),
		boolCell(n.Visible),
		timeCell(n.CreatedAt),
	}
}

func mapNotice(row []string) domain.Notice {
	return domain.Notice{
		ID:        cell(row, 0),
		Title:     cell(row, 1),
		BodyHTML:  cell(row, 2),
		Category:  cell(row, 3),
		PostedAt:  parseTimeCell(cell(row, 4)),
		Visible:   parseBoolCell(cell(row, 5)),
		CreatedAt: parseTimeCell(cell(row, 6)),
	}
}

func (r *Notices) current(ctx context.Context) ([]domain.Notice, error) {
	rows, err := r.store.ReadRange(ctx, TableNotices, "")
	if err != nil {
		return nil, err
	}

	byID := make(map[string]int)
	notices := make([]domain.Notice, 0, len(rows))
	for _, row := range dataRows(rows) {
		n := mapNotice(row)
		if n.ID == "" {
			continue
		}
		if i, ok := byID[n.ID]; ok {
			notices[i] = n
			continue
		}
		byID[n.ID] = len(notices)
		notices = append(notices, n)
	}
	return notices, nil
}

// Visible lists published notices, newest first.
func (r *Notices) Visible(ctx context.Context) ([]domain.Notice, error) {
	if r.listings != nil {
		var cached []domain.Notice
		if hit, err := r.listings.GetListing(ctx, cache.KeyNotices, &cached); err == nil && hit {
			return cached, nil
		} else if err != nil {
			r.log.Debug("notice listing cache unavailable", logger.Error(err))
		}
	}

	notices, err := r.current(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]domain.Notice, 0, len(notices))
	for _, n := range notices {
		if n.Visible {
			visible = append(visible, n)
		}
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].PostedAt.After(visible[j].PostedAt) })

	if r.listings != nil {
		if err := r.listings.SetListing(ctx, cache.KeyNotices, visible, r.ttl); err != nil {
			r.log.Warn("failed to cache notice listing", logger.Error(err))
		}
	}
	return visible, nil
}

// Create appends a new notice row, generating id, posting and creation times.
func (r *Notices) Create(ctx context.Context, n domain.Notice) (domain.Notice, error) {
	now := r.now()
	n.ID = newID(now)
	if n.PostedAt.IsZero() {
		n.PostedAt = now
	}
	n.CreatedAt = now
	n.Visible = true

	if err := r.store.Append(ctx, TableNotices, noticeRow(n)); err != nil {
		return domain.Notice{}, err
	}
	r.invalidateListing(ctx)
	return n, nil
}

// Hide appends a fresh row with the visibility flag off.
func (r *Notices) Hide(ctx context.Context, id string) error {
	notices, err := r.current(ctx)
	if err != nil {
		return err
	}
	for _, n := range notices {
		if n.ID == id {
			n.Visible = false
			if err := r.store.Append(ctx, TableNotices, noticeRow(n)); err != nil {
				return err
			}
			r.invalidateListing(ctx)
			return nil
		}
	}
	return apperr.NotFound("notice not found")
}

func (r *Notices) invalidateListing(ctx context.Context) {
	if r.listings == nil {
		return
	}
	if err := r.listings.Invalidate(ctx, cache.KeyNotices); err != nil {
		r.log.Warn("failed to invalidate notice listing", logger.Error(err))
	}
}
