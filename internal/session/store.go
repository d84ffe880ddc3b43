// Package session tracks live admin sessions in redis so a token can be
// revoked before its signature expires. Only a hash of the token is stored.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "portal:session:"

// Store persists one redis key per active session, expiring with the token.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create records a session for token, bound to the admin's email.
func (s *Store) Create(ctx context.Context, token, email string) error {
	return s.client.Set(ctx, keyPrefix+hashToken(token), email, s.ttl).Err()
}

// Active reports whether the token still has a live session.
func (s *Store) Active(ctx context.Context, token string) (bool, error) {
	_, err := s.client.Get(ctx, keyPrefix+hashToken(token)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Revoke drops the session. Verifying the same token afterwards fails even
// though its signature is still valid.
func (s *Store) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, keyPrefix+hashToken(token)).Err()
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
