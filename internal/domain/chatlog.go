package domain

import "time"

// Chat exchange outcomes recorded in the log.
const (
	ChatStatusSuccess = "success"
	ChatStatusError   = "error"
)

// ChatLogEntry records one chat exchange for later review. Logging is a
// side effect: a failed append must never fail the chat response itself.
type ChatLogEntry struct {
	Timestamp       time.Time `json:"timestamp"`
	UserEmail       string    `json:"user_email,omitempty"`
	UserName        string    `json:"user_name,omitempty"`
	Question        string    `json:"question"`
	ModelUsed       string    `json:"model_used"`
	Status          string    `json:"status"`
	RawResponse     string    `json:"raw_response,omitempty"`
	FinalAnswerHTML string    `json:"final_answer_html"`
	SourceLinks     []string  `json:"source_links,omitempty"`
	Error           string    `json:"error,omitempty"`
}
