package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, ttl), mr
}

func TestSessionLifecycle(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	if err := s.Create(ctx, "tok-1", "admin@campus.example.edu"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := s.Active(ctx, "tok-1")
	if err != nil || !ok {
		t.Fatalf("Active = %v, %v; want true", ok, err)
	}

	if ok, _ := s.Active(ctx, "tok-unknown"); ok {
		t.Fatal("unknown token should not be active")
	}

	if err := s.Revoke(ctx, "tok-1"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if ok, _ := s.Active(ctx, "tok-1"); ok {
		t.Fatal("revoked token should not be active")
	}
}

func TestSessionExpires(t *testing.T) {
	s, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	if err := s.Create(ctx, "tok-2", "a@b.edu"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if ok, err := s.Active(ctx, "tok-2"); err != nil || ok {
		t.Fatalf("Active after expiry = %v, %v; want false", ok, err)
	}
}

func TestRawTokenNotStored(t *testing.T) {
	s, mr := newTestStore(t, time.Hour)
	if err := s.Create(context.Background(), "raw-secret-token", "a@b.edu"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, key := range mr.Keys() {
		if key == keyPrefix+"raw-secret-token" {
			t.Fatal("token must be hashed before use as a key")
		}
	}
}
