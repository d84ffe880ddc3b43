package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"

	"github.com/opencampus/portal/internal/ai"
	"github.com/opencampus/portal/internal/auth"
	"github.com/opencampus/portal/internal/cache"
	"github.com/opencampus/portal/internal/httpserver/deps"
	"github.com/opencampus/portal/internal/httpserver/routes"
	"github.com/opencampus/portal/internal/logger"
	"github.com/opencampus/portal/internal/notify"
	"github.com/opencampus/portal/internal/repo"
	"github.com/opencampus/portal/internal/search"
	"github.com/opencampus/portal/internal/session"
)

// memStore is an in-memory TableStore mirroring the spreadsheet layout.
type memStore struct {
	tables map[string][][]string
}

func newMemStore() *memStore {
	return &memStore{tables: map[string][][]string{
		repo.TableEvents:        {{"header"}},
		repo.TableNotices:       {{"header"}},
		repo.TableRegistrations: {{"header"}},
		repo.TableChatLogs:      {{"header"}},
	}}
}

func (m *memStore) Append(_ context.Context, table string, row []string) error {
	m.tables[table] = append(m.tables[table], row)
	return nil
}

func (m *memStore) ReadRange(_ context.Context, table, _ string) ([][]string, error) {
	rows := m.tables[table]
	out := make([][]string, len(rows))
	copy(out, rows)
	return out, nil
}

func (m *memStore) UpdateRange(_ context.Context, _, _ string, _ [][]string) error {
	return nil
}

type echoProvider struct{ id string }

func (p echoProvider) ID() string { return p.id }

func (p echoProvider) Complete(context.Context, string) (string, error) {
	return "the library opens at 9", nil
}

func newPortal(t *testing.T) *httptest.Server {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := newMemStore()
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
		Orchestrator:  ai.NewOrchestrator([]ai.Provider{echoProvider{id: "gemini"}}, log),
		Persona:       "You are the campus assistant.",
		AdminSecret:   "operator-secret",
		Issuer:        auth.NewIssuer("session-secret"),
		Sessions:      session.New(client, time.Hour),
		SessionTTL:    time.Hour,
		Mailer:        notify.NewMailer(notify.Config{}, log),
		RedisClient:   client,
	}

	r := chi.NewRouter()
	routes.RegisterAll(r, d)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, out.Bytes()
}

// TestPortalFlow drives the portal end to end through the router: admin
// publishes an event, a visitor finds it, registers, asks the assistant,
// and the admin reviews the results.
func TestPortalFlow(t *testing.T) {
	srv := newPortal(t)
	eventDate := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)

	// Admin endpoints refuse anonymous calls.
	resp, _ := call(t, srv, http.MethodPost, "/api/admin/events", "", map[string]string{"title": "x"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous admin call: %d, want 401", resp.StatusCode)
	}

	// Login for a session token.
	resp, body := call(t, srv, http.MethodPost, "/api/admin/login", "", map[string]string{
		"email":  "admin@campus.example.edu",
		"secret": "operator-secret",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: %d %s", resp.StatusCode, body)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &login); err != nil || login.Token == "" {
		t.Fatalf("login body: %s", body)
	}

	// Publish an event.
	resp, body = call(t, srv, http.MethodPost, "/api/admin/events", login.Token, map[string]string{
		"title":    "Open Day",
		"date":     eventDate,
		"location": "Main Hall",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create event: %d %s", resp.StatusCode, body)
	}
	var event struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &event); err != nil || event.ID == "" {
		t.Fatalf("event body: %s", body)
	}

	// Visitors see it.
	resp, body = call(t, srv, http.MethodGet, "/api/events", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list events: %d", resp.StatusCode)
	}
	var listing struct {
		Events []struct {
			ID string `json:"id"`
		} `json:"events"`
	}
	if err := json.Unmarshal(body, &listing); err != nil || len(listing.Events) != 1 {
		t.Fatalf("listing body: %s", body)
	}

	// Register, then try to register twice.
	reg := map[string]string{"name": "Ana", "email": "ana@example.com"}
	resp, body = call(t, srv, http.MethodPost, "/api/events/"+event.ID+"/register", "", reg)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: %d %s", resp.StatusCode, body)
	}
	resp, _ = call(t, srv, http.MethodPost, "/api/events/"+event.ID+"/register", "", reg)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register: %d, want 409", resp.StatusCode)
	}

	// Ask the assistant.
	resp, body = call(t, srv, http.MethodPost, "/api/chat", "", map[string]string{
		"question": "when does the library open?",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chat: %d %s", resp.StatusCode, body)
	}
	var chat struct {
		ModelUsed string `json:"model_used"`
		HTML      string `json:"html"`
	}
	if err := json.Unmarshal(body, &chat); err != nil || chat.ModelUsed != "gemini" || chat.HTML == "" {
		t.Fatalf("chat body: %s", body)
	}

	// Admin review: registrations and chat logs.
	resp, body = call(t, srv, http.MethodGet, "/api/admin/registrations?event_id="+event.ID, login.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("registrations: %d", resp.StatusCode)
	}
	var regs struct {
		Registrations []struct {
			Email string `json:"email"`
		} `json:"registrations"`
	}
	if err := json.Unmarshal(body, &regs); err != nil || len(regs.Registrations) != 1 {
		t.Fatalf("registrations body: %s", body)
	}

	resp, body = call(t, srv, http.MethodGet, "/api/admin/chatlogs", login.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chatlogs: %d", resp.StatusCode)
	}

	// Hide the event; the public listing empties out.
	resp, _ = call(t, srv, http.MethodPost, "/api/admin/events/"+event.ID+"/hide", login.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("hide: %d", resp.StatusCode)
	}
	resp, body = call(t, srv, http.MethodGet, "/api/events", "", nil)
	if err := json.Unmarshal(body, &listing); err != nil || len(listing.Events) != 0 {
		t.Fatalf("hidden event still listed: %s", body)
	}
}

func TestChatRateLimited(t *testing.T) {
	srv := newPortal(t)

	q := map[string]string{"question": "hello?"}
	for i := 0; i < 5; i++ {
		resp, body := call(t, srv, http.MethodPost, "/api/chat", "", q)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: %d %s", i+1, resp.StatusCode, body)
		}
	}

	resp, body := call(t, srv, http.MethodPost, "/api/chat", "", q)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("6th chat in a minute: %d, want 429 (%s)", resp.StatusCode, body)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Fatal("429 must carry Retry-After")
	}
	if !bytes.Contains(body, []byte("rate_limited")) {
		t.Fatalf("429 body: %s", body)
	}

	// Other classes keep their own windows.
	if resp, _ := call(t, srv, http.MethodGet, "/api/events", "", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("read class should be unaffected: %d", resp.StatusCode)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newPortal(t)

	if resp, _ := call(t, srv, http.MethodGet, "/healthz", "", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz: %d", resp.StatusCode)
	}
	resp, body := call(t, srv, http.MethodGet, "/readyz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("readyz: %d %s", resp.StatusCode, body)
	}
	if !bytes.Contains(body, []byte(`"ready":true`)) {
		t.Fatalf("readyz body: %s", body)
	}
}
