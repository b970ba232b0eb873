package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/p-n-ai/pai-planner/internal/lesson"
	"github.com/p-n-ai/pai-planner/internal/platform/kv"
)

const snapshotKey = "catalog:snapshot"

// CachedStore keeps the last successful fetch in a kv.Store and serves it
// while the inner store is failing.
type CachedStore struct {
	inner ContentStore
	cache kv.Store
	ttl   time.Duration
}

// NewCachedStore wraps inner. Snapshots expire after ttl (zero keeps them).
func NewCachedStore(inner ContentStore, cache kv.Store, ttl time.Duration) *CachedStore {
	return &CachedStore{inner: inner, cache: cache, ttl: ttl}
}

func (s *CachedStore) FetchActivities(ctx context.Context) ([]lesson.Activity, error) {
	acts, err := s.inner.FetchActivities(ctx)
	if err == nil {
		if err := kv.SetJSON(ctx, s.cache, snapshotKey, acts, s.ttl); err != nil {
			slog.Warn("failed to cache catalog snapshot", "error", err)
		}
		return acts, nil
	}

	var cached []lesson.Activity
	if cerr := kv.GetJSON(ctx, s.cache, snapshotKey, &cached); cerr != nil {
		if !errors.Is(cerr, kv.ErrNotFound) {
			slog.Warn("failed to read catalog snapshot", "error", cerr)
		}
		return nil, err
	}

	slog.Warn("content store failed, serving cached snapshot",
		"activities", len(cached),
		"error", err,
	)
	return cached, nil
}
