// Package auth issues and verifies the signed bearer tokens used by the
// admin surface. A token is base64url(payload) + "." + base64url(hmac):
// compact, stateless to verify, and pairs with the session store for
// revocation.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/opencampus/portal/internal/apperr"
)

// Claims is the signed token payload.
type Claims struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	IssuedAt int64  `json:"iat"`
	Exp      int64  `json:"exp"`
}

// Issuer signs and verifies admin tokens with a shared HMAC secret.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// Issue mints a token for the given identity, valid for ttl.
func (i *Issuer) Issue(email, role string, ttl time.Duration) (string, error) {
	now := i.now()
	payload, err := json.Marshal(Claims{
		Email:    email,
		Role:     role,
		IssuedAt: now.Unix(),
		Exp:      now.Add(ttl).Unix(),
	})
	if err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + i.sign(encoded), nil
}

// Verify checks the signature and expiry and returns the claims.
func (i *Issuer) Verify(token string) (Claims, error) {
	var claims Claims

	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return claims, apperr.Unauthorized("malformed token")
	}
	if !hmac.Equal([]byte(i.sign(encoded)), []byte(sig)) {
		return claims, apperr.Unauthorized("invalid token signature")
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return claims, apperr.Unauthorized("malformed token payload")
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return claims, apperr.Unauthorized("malformed token payload")
	}
	if claims.Exp <= i.now().Unix() {
		return Claims{}, apperr.Unauthorized("token expired")
	}
	return claims, nil
}

func (i *Issuer) sign(encoded string) string {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
