// Package domain holds the portal's record types and input validation rules.
// Records are pure values mapped from spreadsheet rows; they are never mutated
// in place - every change is a fresh appended row.
package domain

import "time"

// Event is a campus event open for registration.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	RSVPForm    string    `json:"rsvp_form,omitempty"`
	Visible     bool      `json:"visible"`
	CreatedAt   time.Time `json:"created_at"`
}

// RegistrationCutoff is how close to an event's start registrations close.
const RegistrationCutoff = time.Hour

// OpenForRegistration reports whether the event still accepts registrations
// at t: it must start at least RegistrationCutoff from now.
func (e Event) OpenForRegistration(t time.Time) bool {
	return e.Date.After(t.Add(RegistrationCutoff))
}
