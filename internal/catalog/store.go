package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/p-n-ai/pai-planner/internal/lesson"
)

// ErrContentStore matches every ContentStoreError.
var ErrContentStore = errors.New("content store unavailable")

// ContentStoreError reports a failed fetch from a content store.
type ContentStoreError struct {
	Op  string
	Err error
}

func (e *ContentStoreError) Error() string {
	return fmt.Sprintf("content store: %s: %v", e.Op, e.Err)
}

func (e *ContentStoreError) Unwrap() error {
	return e.Err
}

func (e *ContentStoreError) Is(target error) bool {
	return target == ErrContentStore
}

// ContentStore supplies activities from outside the bundled library.
type ContentStore interface {
	FetchActivities(ctx context.Context) ([]lesson.Activity, error)
}

// StaticStore serves a fixed list of activities, or Err when set.
type StaticStore struct {
	Activities []lesson.Activity
	Err        error
}

func (s StaticStore) FetchActivities(context.Context) ([]lesson.Activity, error) {
	if s.Err != nil {
		return nil, &ContentStoreError{Op: "fetch", Err: s.Err}
	}
	return append([]lesson.Activity(nil), s.Activities...), nil
}
