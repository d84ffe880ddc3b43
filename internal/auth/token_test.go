package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/opencampus/portal/internal/apperr"
)

func TestIssueAndVerify(t *testing.T) {
	i := NewIssuer("topsecret")

	token, err := i.Issue("admin@campus.example.edu", "admin", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := i.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Email != "admin@campus.example.edu" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Exp-claims.IssuedAt != int64(time.Hour/time.Second) {
		t.Fatalf("expiry window = %d seconds", claims.Exp-claims.IssuedAt)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	i := NewIssuer("topsecret")
	token, err := i.Issue("a@b.edu", "admin", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	payload, sig, _ := strings.Cut(token, ".")

	cases := map[string]string{
		"flipped payload": "x" + payload[1:] + "." + sig,
		"flipped sig":     payload + "." + "x" + sig[1:],
		"no separator":    payload + sig,
		"empty":           "",
	}
	for name, bad := range cases {
		if _, err := i.Verify(bad); !apperr.Is(err, apperr.CodeUnauthorized) {
			t.Errorf("%s: err = %v, want unauthorized", name, err)
		}
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewIssuer("one").Issue("a@b.edu", "admin", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewIssuer("two").Verify(token); !apperr.Is(err, apperr.CodeUnauthorized) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	i := NewIssuer("topsecret")
	i.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	token, err := i.Issue("a@b.edu", "admin", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	i.now = func() time.Time { return time.Date(2026, 3, 1, 10, 2, 0, 0, time.UTC) }
	if _, err := i.Verify(token); !apperr.Is(err, apperr.CodeUnauthorized) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}
