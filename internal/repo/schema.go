// Package repo maps spreadsheet rows to domain records and back. The store is
// append-only: current state is reconstructed by scanning all rows, and the
// latest row per id wins. Column order per table is the wire contract below
// and must never be reordered.
package repo

import (
	"context"
	"strings"
	"time"
)

// Table names in the backing spreadsheet. Row 0 of every table is a header
// row skipped by readers.
const (
	TableEvents        = "events"
	TableNotices       = "notices"
	TableRegistrations = "registrations"
	TableChatLogs      = "chat_logs"
)

// events columns:        id, title, description, date_iso, location, rsvp_form, visible, created_at
// notices columns:       id, title, body_html, category, posted_at_iso, visible, created_at
// registrations columns: id, event_id, name, email, phone, department, year, additional_info, created_at_iso
// chat_logs columns:     timestamp, user_email, user_name, question, model_used, status, raw_response, final_answer_html, source_links, error

// TableStore is the narrow row-store contract the repositories depend on.
// It matches the spreadsheet client; there is no delete.
type TableStore interface {
	Append(ctx context.Context, table string, row []string) error
	ReadRange(ctx context.Context, table, rng string) ([][]string, error)
	UpdateRange(ctx context.Context, table, rng string, rows [][]string) error
}

// cell returns row[i], defaulting to "" when the row is too short. The API
// trims trailing empty cells, so short rows are normal.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func boolCell(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func parseBoolCell(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "TRUE")
}

func timeCell(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// parseTimeCell returns the zero time for anything unparseable; callers treat
// zero as "not set" and filter accordingly.
func parseTimeCell(s string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

// dataRows strips the header row. Readers must tolerate a bare header or a
// completely empty table.
func dataRows(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}
