package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/opencampus/portal/internal/ai"
	"github.com/opencampus/portal/internal/auth"
	"github.com/opencampus/portal/internal/cache"
	"github.com/opencampus/portal/internal/domain"
	"github.com/opencampus/portal/internal/httpserver/deps"
	"github.com/opencampus/portal/internal/logger"
	"github.com/opencampus/portal/internal/notify"
	"github.com/opencampus/portal/internal/repo"
	"github.com/opencampus/portal/internal/search"
	"github.com/opencampus/portal/internal/session"
)

// fakeStore is an in-memory TableStore. Row 0 of each table is the header.
type fakeStore struct {
	tables map[string][][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: map[string][][]string{
		repo.TableEvents:        {{"id", "title", "description", "date_iso", "location", "rsvp_form", "visible", "created_at"}},
		repo.TableNotices:       {{"id", "title", "body_html", "category", "posted_at_iso", "visible", "created_at"}},
		repo.TableRegistrations: {{"id", "event_id", "name", "email", "phone", "department", "year", "additional_info", "created_at_iso"}},
		repo.TableChatLogs:      {{"timestamp", "user_email", "user_name", "question", "model_used", "status", "raw_response", "final_answer_html", "source_links", "error"}},
	}}
}

func (f *fakeStore) Append(_ context.Context, table string, row []string) error {
	f.tables[table] = append(f.tables[table], row)
	return nil
}

func (f *fakeStore) ReadRange(_ context.Context, table, _ string) ([][]string, error) {
	rows := f.tables[table]
	out := make([][]string, len(rows))
	copy(out, rows)
	return out, nil
}

func (f *fakeStore) UpdateRange(_ context.Context, _, _ string, _ [][]string) error {
	return nil
}

type fixedProvider struct {
	id   string
	text string
}

func (p fixedProvider) ID() string { return p.id }

func (p fixedProvider) Complete(context.Context, string) (string, error) {
	return p.text, nil
}

type testEnv struct {
	deps  deps.Deps
	store *fakeStore
}

func newTestEnv(t *testing.T, providers ...ai.Provider) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := newFakeStore()
	log := logger.Nop()
	listings := cache.NewStore(client)

	d := deps.Deps{
		Logger:        log,
		StartTime:     time.Now(),
		TimeNow:       time.Now,
		Events:        repo.NewEvents(store, listings, time.Minute, log),
		Notices:       repo.NewNotices(store, listings, time.Minute, log),
		Registrations: repo.NewRegistrations(store, log),
		ChatLogs:      repo.NewChatLogs(store, log),
		Retriever:     search.NewRetriever("http://unused.invalid", "", "", "", time.Second, log),
		Orchestrator:  ai.NewOrchestrator(providers, log),
		Persona:       "You are the campus assistant.",
		AdminSecret:   "operator-secret",
		Issuer:        auth.NewIssuer("session-secret"),
		Sessions:      session.New(client, time.Hour),
		SessionTTL:    time.Hour,
		Mailer:        notify.NewMailer(notify.Config{}, log),
		RedisClient:   client,
	}
	return &testEnv{deps: d, store: store}
}

func (e *testEnv) addEvent(t *testing.T, title string, date time.Time) domain.Event {
	t.Helper()
	created, err := e.deps.Events.Create(context.Background(), domain.Event{
		Title:    title,
		Date:     date,
		Location: "Main Hall",
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return created
}

func noticeWith(title string) domain.Notice {
	return domain.Notice{
		Title:    title,
		BodyHTML: "<p>details</p>",
		Category: "academics",
	}
}

// do runs a handler with an optional chi URL param and JSON body.
func do(h http.HandlerFunc, method, target, paramID, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if paramID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", paramID)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
}
