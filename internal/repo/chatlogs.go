package repo

import (
	"context"
	"strings"
	"time"

	"github.com/opencampus/portal/internal/domain"
	"github.com/opencampus/portal/internal/logger"
)

// sourceLinkSeparator joins multiple links into one cell.
const sourceLinkSeparator = "\n"

// ChatLogs appends and scans rows of the chat_logs table.
type ChatLogs struct {
	store TableStore
	log   logger.Logger
	now   func() time.Time
}

func NewChatLogs(store TableStore, log logger.Logger) *ChatLogs {
	return &ChatLogs{store: store, log: log, now: time.Now}
}

func chatLogRow(e domain.ChatLogEntry) []string {
	return []string{
		timeCell(e.Timestamp),
		e.UserEmail,
		e.UserName,
		e.Question,
		e.ModelUsed,
		e.Status,
		e.RawResponse,
		e.FinalAnswerHTML,
		strings.Join(e.SourceLinks, sourceLinkSeparator),
		e.Error,
	}
}

func mapChatLogEntry(row []string) domain.ChatLogEntry {
	var links []string
	if raw := cell(row, 8); raw != "" {
		links = strings.Split(raw, sourceLinkSeparator)
	}
	return domain.ChatLogEntry{
		Timestamp:       parseTimeCell(cell(row, 0)),
		UserEmail:       cell(row, 1),
		UserName:        cell(row, 2),
		Question:        cell(row, 3),
		ModelUsed:       cell(row, 4),
		Status:          cell(row, 5),
		RawResponse:     cell(row, 6),
		FinalAnswerHTML: cell(row, 7),
		SourceLinks:     links,
		Error:           cell(row, 9),
	}
}

// Append records one chat exchange. Callers treat failures here as
// non-critical: log and move on, the chat answer already went out.
func (r *ChatLogs) Append(ctx context.Context, e domain.ChatLogEntry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = r.now()
	}
	return r.store.Append(ctx, TableChatLogs, chatLogRow(e))
}

// Recent returns the last n exchanges, newest first. The store offers no
// indexed lookup, so this is a trailing slice of a full scan.
func (r *ChatLogs) Recent(ctx context.Context, n int) ([]domain.ChatLogEntry, error) {
	rows, err := r.store.ReadRange(ctx, TableChatLogs, "")
	if err != nil {
		return nil, err
	}

	data := dataRows(rows)
	if n > 0 && len(data) > n {
		data = data[len(data)-n:]
	}

	entries := make([]domain.ChatLogEntry, 0, len(data))
	for i := len(data) - 1; i >= 0; i-- {
		entries = append(entries, mapChatLogEntry(data[i]))
	}
	return entries, nil
}
