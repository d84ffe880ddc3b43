package repo

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeStore is an in-memory TableStore. Row 0 of each table is the header.
type fakeStore struct {
	tables  map[string][][]string
	reads   int
	appends int
	failAll error
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: map[string][][]string{
		TableEvents:        {{"id", "title", "description", "date_iso", "location", "rsvp_form", "visible", "created_at"}},
		TableNotices:       {{"id", "title", "body_html", "category", "posted_at_iso", "visible", "created_at"}},
		TableRegistrations: {{"id", "event_id", "name", "email", "phone", "department", "year", "additional_info", "created_at_iso"}},
		TableChatLogs:      {{"timestamp", "user_email", "user_name", "question", "model_used", "status", "raw_response", "final_answer_html", "source_links", "error"}},
	}}
}

func (f *fakeStore) Append(_ context.Context, table string, row []string) error {
	if f.failAll != nil {
		return f.failAll
	}
	f.appends++
	f.tables[table] = append(f.tables[table], row)
	return nil
}

func (f *fakeStore) ReadRange(_ context.Context, table, _ string) ([][]string, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	f.reads++
	rows := f.tables[table]
	out := make([][]string, len(rows))
	copy(out, rows)
	return out, nil
}

func (f *fakeStore) UpdateRange(_ context.Context, table, _ string, rows [][]string) error {
	if f.failAll != nil {
		return f.failAll
	}
	return nil
}

func TestFakeStoreFailuresPropagate(t *testing.T) {
	f := newFakeStore()
	f.failAll = errors.New("down")
	if _, err := f.ReadRange(context.Background(), TableEvents, ""); err == nil {
		t.Fatalf("fake should propagate failures")
	}
}

func TestNewID(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	a := newID(now)
	b := newID(now)

	if a == "" || b == "" {
		t.Fatalf("newID() returned empty id")
	}
	if a == b {
		t.Errorf("two ids from the same instant should differ: %q", a)
	}
	wantPrefix := "1772359200000-"
	if len(a) != len(wantPrefix)+idSuffixLength || a[:len(wantPrefix)] != wantPrefix {
		t.Errorf("newID() = %q, want prefix %q and %d random chars", a, wantPrefix, idSuffixLength)
	}
}
