// Package gauth implements the service-account authentication flow for the
// spreadsheet API: a self-signed RS256 assertion exchanged for a short-lived
// bearer credential, cached in-process until shortly before expiry.
package gauth

import (
	"crypto/rsa"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/opencampus/portal/internal/apperr"
)

// AssertionLifetime is the nominal validity of a signed assertion. Assertions
// are single-use: one is built fresh for every token exchange.
const AssertionLifetime = time.Hour

// Signer builds signed service-account assertions.
type Signer struct {
	key      *rsa.PrivateKey
	issuer   string
	scope    string
	audience string
}

// NewSigner parses a PEM-encoded RSA private key. A missing or malformed key
// will not self-heal, so the error is surfaced and never retried.
func NewSigner(pemKey []byte, issuer, scope, audience string) (*Signer, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemKey)
	if err != nil {
		return nil, apperr.Authentication("service account key is not a valid PEM-encoded RSA key").WithCause(err)
	}
	return &Signer{key: key, issuer: issuer, scope: scope, audience: audience}, nil
}

// NewSignerFromFile reads the key from disk. The key material itself is never
// logged or written anywhere else.
func NewSignerFromFile(path, issuer, scope, audience string) (*Signer, error) {
	pemKey, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Authentication("service account key file unreadable").WithCause(err)
	}
	return NewSigner(pemKey, issuer, scope, audience)
}

// Assertion returns a three-segment header.payload.signature token, each
// segment base64url-encoded, claiming the configured identity for one hour.
func (s *Signer) Assertion(now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iss":   s.issuer,
		"scope": s.scope,
		"aud":   s.audience,
		"iat":   now.Unix(),
		"exp":   now.Add(AssertionLifetime).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.key)
	if err != nil {
		return "", apperr.Authentication("failed to sign assertion").WithCause(err)
	}
	return signed, nil
}
