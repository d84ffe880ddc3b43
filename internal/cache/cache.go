// Package cache is a thin redis layer in front of the spreadsheet's
// full-table scans. Listings are JSON blobs with a short TTL; a miss or a
// redis hiccup simply means the caller re-reads the sheet.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultListingTTL bounds how stale a cached listing can get.
const DefaultListingTTL = 5 * time.Minute

// Store handles cached listings in Redis.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// GetListing unmarshals a cached listing into v. Returns false on a miss.
func (s *Store) GetListing(ctx context.Context, key string, v any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // cache miss
		}
		return false, fmt.Errorf("failed to get cached listing: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached listing: %w", err)
	}
	return true, nil
}

// SetListing stores a listing with the given TTL.
func (s *Store) SetListing(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal listing: %w", err)
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache listing: %w", err)
	}
	return nil
}

// Invalidate removes a cached listing, e.g. after an append changed the table.
func (s *Store) Invalidate(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate listing: %w", err)
	}
	return nil
}
