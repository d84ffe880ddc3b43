package domain

import "time"

// Notice is a published announcement. BodyHTML is stored pre-rendered; the
// portal never edits a notice, hiding happens via a visibility flip.
type Notice struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	BodyHTML  string    `json:"body_html"`
	Category  string    `json:"category"`
	PostedAt  time.Time `json:"posted_at"`
	Visible   bool      `json:"visible"`
	CreatedAt time.Time `json:"created_at"`
}
