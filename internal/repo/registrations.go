package repo

import (
	"context"
	"strings"
	"time"

	"github.com/opencampus/portal/internal/apperr"
	"github.com/opencampus/portal/internal/domain"
	"github.com/opencampus/portal/internal/logger"
)

// Registrations appends and scans rows of the registrations table.
type Registrations struct {
	store TableStore
	log   logger.Logger
	now   func() time.Time
}

func NewRegistrations(store TableStore, log logger.Logger) *Registrations {
	return &Registrations{store: store, log: log, now: time.Now}
}

func registrationRow(reg domain.Registration) []string {
	return []string{
		reg.ID,
		reg.EventID,
		reg.Name,
		reg.Email,
		reg.Phone,
		reg.Department,
		reg.Year,
		reg.AdditionalInfo,
		timeCell(reg.CreatedAt),
	}
}

func mapRegistration(row []string) domain.Registration {
	return domain.Registration{
		ID:             cell(row, 0),
		EventID:        cell(row, 1),
		Name:           cell(row, 2),
		Email:          cell(row, 3),
		Phone:          cell(row, 4),
		Department:     cell(row, 5),
		Year:           cell(row, 6),
		AdditionalInfo: cell(row, 7),
		CreatedAt:      parseTimeCell(cell(row, 8)),
	}
}

// Add appends a registration after a full-table duplicate scan on the
// (event_id, email) pair. O(n) per registration - fine at campus volume,
// and the only option the store gives us anyway.
func (r *Registrations) Add(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	rows, err := r.store.ReadRange(ctx, TableRegistrations, "")
	if err != nil {
		return domain.Registration{}, err
	}

	for _, row := range dataRows(rows) {
		existing := mapRegistration(row)
		if existing.EventID == reg.EventID && strings.EqualFold(existing.Email, reg.Email) {
			return domain.Registration{}, apperr.Duplicate("this email is already registered for the event")
		}
	}

	now := r.now()
	reg.ID = newID(now)
	reg.CreatedAt = now

	if err := r.store.Append(ctx, TableRegistrations, registrationRow(reg)); err != nil {
		return domain.Registration{}, err
	}
	return reg, nil
}

// All returns every registration, oldest first.
func (r *Registrations) All(ctx context.Context) ([]domain.Registration, error) {
	rows, err := r.store.ReadRange(ctx, TableRegistrations, "")
	if err != nil {
		return nil, err
	}

	regs := make([]domain.Registration, 0, len(rows))
	for _, row := range dataRows(rows) {
		regs = append(regs, mapRegistration(row))
	}
	return regs, nil
}

// ByEvent filters registrations for one event.
func (r *Registrations) ByEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	regs := make([]domain.Registration, 0, len(all))
	for _, reg := range all {
		if reg.EventID == eventID {
			regs = append(regs, reg)
		}
	}
	return regs, nil
}
