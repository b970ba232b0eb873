// Package catalog holds the library of lesson activities: bundled YAML
// content merged with records from an external content store.
package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/p-n-ai/pai-planner/internal/lesson"
)

// Catalog is a read-only view of the activity library. The bundled
// activities are always available; fetched activities are merged in by
// Refresh.
type Catalog struct {
	static     []lesson.Activity
	store      ContentStore
	activities []lesson.Activity
	fetchedAt  time.Time
	lastErr    error
	mu         sync.RWMutex
}

// New creates a catalog over the bundled activities. store may be nil.
func New(static []lesson.Activity, store ContentStore) *Catalog {
	s := append([]lesson.Activity(nil), static...)
	return &Catalog{
		static:     s,
		store:      store,
		activities: s,
	}
}

// All returns every activity in catalog order.
func (c *Catalog) All() []lesson.Activity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]lesson.Activity(nil), c.activities...)
}

// ByPhase returns the activities for phase in catalog order.
func (c *Catalog) ByPhase(phase lesson.Phase) []lesson.Activity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []lesson.Activity
	for _, a := range c.activities {
		if a.Phase() == phase {
			out = append(out, a)
		}
	}
	return out
}

// Get returns the activity with id.
func (c *Catalog) Get(id string) (lesson.Activity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.activities {
		if a.ID == id {
			return a, true
		}
	}
	return lesson.Activity{}, false
}

// FetchedAt returns the time of the last successful refresh.
func (c *Catalog) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

// Refresh merges the content store's activities into the bundled ones. A
// store failure is logged and not surfaced: the catalog falls back to the
// bundled activities and LastError reports the failure.
func (c *Catalog) Refresh(ctx context.Context) {
	if c.store == nil {
		return
	}

	fetched, err := c.store.FetchActivities(ctx)
	if err != nil {
		c.mu.Lock()
		c.activities = c.static
		c.lastErr = err
		c.mu.Unlock()
		slog.Warn("content store fetch failed, using bundled activities",
			"bundled", len(c.static),
			"error", err,
		)
		return
	}

	merged := merge(c.static, fetched)

	c.mu.Lock()
	c.activities = merged
	c.fetchedAt = time.Now()
	c.lastErr = nil
	c.mu.Unlock()

	slog.Info("catalog refreshed",
		"bundled", len(c.static),
		"fetched", len(fetched),
		"total", len(merged),
	)
}

// LastError returns the failure of the most recent refresh, or nil when it
// succeeded.
func (c *Catalog) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// StartRefresh refreshes in the background now and then every interval until
// ctx is done. A zero interval refreshes once.
func (c *Catalog) StartRefresh(ctx context.Context, every time.Duration) {
	go func() {
		c.Refresh(ctx)
		if every <= 0 {
			return
		}
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				c.Refresh(ctx)
			}
		}
	}()
}

// merge replaces bundled activities in place by id and appends new ids in
// fetched order.
func merge(static, fetched []lesson.Activity) []lesson.Activity {
	out := append([]lesson.Activity(nil), static...)
	index := make(map[string]int, len(out))
	for i, a := range out {
		index[a.ID] = i
	}
	for _, a := range fetched {
		if i, ok := index[a.ID]; ok {
			out[i] = a
			continue
		}
		index[a.ID] = len(out)
		out = append(out, a)
	}
	return out
}
