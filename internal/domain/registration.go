package domain

import "time"

// Registration is one attendee's sign-up for an event. Uniqueness of
// (EventID, Email) is enforced by a linear scan at write time, not by the
// store itself.
type Registration struct {
	ID             string    `json:"id"`
	EventID        string    `json:"event_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Department     string    `json:"department,omitempty"`
	Year           string    `json:"year,omitempty"`
	AdditionalInfo string    `json:"additional_info,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
