package gauth

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/opencampus/portal/internal/apperr"
	"github.com/opencampus/portal/internal/logger"
)

const jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// Credential is an opaque bearer value plus the instant it stops being usable.
// It is replaced wholesale on refresh, never mutated field by field.
type Credential struct {
	Value     string
	ExpiresAt time.Time
}

// Valid reports whether the credential can still be handed out at t.
// The safety margin is already baked into ExpiresAt.
func (c Credential) Valid(t time.Time) bool {
	return c.Value != "" && t.Before(c.ExpiresAt)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// TokenSource caches a bearer credential and re-derives it on expiry via the
// assertion exchange. Safe for concurrent callers; the mutex makes refresh
// single-flight within the process.
type TokenSource struct {
	signer   *Signer
	http     *resty.Client
	tokenURL string
	margin   time.Duration
	now      func() time.Time
	log      logger.Logger

	mu  sync.Mutex
	cur Credential
}

func NewTokenSource(signer *Signer, tokenURL string, margin time.Duration, log logger.Logger) *TokenSource {
	return &TokenSource{
		signer:   signer,
		http:     resty.New().SetTimeout(15 * time.Second),
		tokenURL: tokenURL,
		margin:   margin,
		now:      time.Now,
		log:      log,
	}
}

// Token returns the cached credential while it is valid, otherwise performs
// one assertion exchange. Exchange rejection surfaces as an authentication
// error and is not retried.
func (ts *TokenSource) Token(ctx context.Context) (Credential, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := ts.now()
	if ts.cur.Valid(now) {
		return ts.cur, nil
	}

	cred, err := ts.exchange(ctx, now)
	if err != nil {
		return Credential{}, err
	}
	ts.cur = cred
	ts.log.Debug("bearer credential refreshed",
		logger.Time("expires_at", cred.ExpiresAt))
	return cred, nil
}

// Invalidate drops the cached credential so the next Token call re-exchanges.
// Used by the sheet client when the remote side rejects a bearer as stale.
func (ts *TokenSource) Invalidate() {
	ts.mu.Lock()
	ts.cur = Credential{}
	ts.mu.Unlock()
}

func (ts *TokenSource) exchange(ctx context.Context, now time.Time) (Credential, error) {
	assertion, err := ts.signer.Assertion(now)
	if err != nil {
		return Credential{}, err
	}

	var tr tokenResponse
	resp, err := ts.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type": jwtBearerGrant,
			"assertion":  assertion,
		}).
		Post(ts.tokenURL)
	if err != nil {
		return Credential{}, apperr.Authentication("token exchange request failed").WithCause(err)
	}
	if resp.StatusCode() != http.StatusOK {
		return Credential{}, apperr.Authentication("token exchange rejected by endpoint")
	}
	if err := json.Unmarshal(resp.Body(), &tr); err != nil {
		return Credential{}, apperr.Authentication("token exchange returned unparseable body").WithCause(err)
	}
	if tr.AccessToken == "" || tr.ExpiresIn <= 0 {
		return Credential{}, apperr.Authentication("token exchange returned no usable credential")
	}

	return Credential{
		Value:     tr.AccessToken,
		ExpiresAt: now.Add(time.Duration(tr.ExpiresIn)*time.Second - ts.margin),
	}, nil
}
