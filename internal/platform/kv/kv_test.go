package kv_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/p-n-ai/pai-planner/internal/platform/kv"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemoryStore()

	if err := s.Set(ctx, "profile", []byte("ms smith"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get(ctx, "profile")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "ms smith" {
		t.Errorf("Get() = %q, want %q", got, "ms smith")
	}

	if err := s.Delete(ctx, "profile"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "profile"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("Get() after Delete() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	s := kv.NewMemoryStore()
	s.SetClock(func() time.Time { return now })

	if err := s.Set(ctx, "nav:abc", []byte("{}"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := s.Get(ctx, "nav:abc"); err != nil {
		t.Fatalf("Get() before expiry error = %v", err)
	}

	now = now.Add(time.Minute)
	if _, err := s.Get(ctx, "nav:abc"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("Get() after expiry error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_EmptyKey(t *testing.T) {
	s := kv.NewMemoryStore()
	if err := s.Set(context.Background(), "", []byte("x"), 0); err == nil {
		t.Error("Set() with empty key should fail")
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemoryStore()

	type term struct {
		Name string `json:"name"`
	}
	if err := kv.SetJSON(ctx, s, "term", term{Name: "Autumn"}, 0); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}

	var got term
	if err := kv.GetJSON(ctx, s, "term", &got); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if got.Name != "Autumn" {
		t.Errorf("Name = %q, want Autumn", got.Name)
	}

	if err := kv.GetJSON(ctx, s, "missing", &got); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("GetJSON(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_GetDel(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	s := kv.NewMemoryStore()
	s.SetClock(func() time.Time { return now })

	if err := s.Set(ctx, "handoff:a", []byte("lesson"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.GetDel(ctx, "handoff:a")
	if err != nil {
		t.Fatalf("GetDel() error = %v", err)
	}
	if string(got) != "lesson" {
		t.Errorf("GetDel() = %q, want %q", got, "lesson")
	}
	if _, err := s.GetDel(ctx, "handoff:a"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("second GetDel() error = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(ctx, "handoff:a"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("Get() after GetDel() error = %v, want ErrNotFound", err)
	}

	if err := s.Set(ctx, "handoff:b", []byte("lesson"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	now = now.Add(time.Hour)
	if _, err := s.GetDel(ctx, "handoff:b"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("GetDel() after expiry error = %v, want ErrNotFound", err)
	}
}

func TestTakeJSON(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemoryStore()

	if err := kv.SetJSON(ctx, s, "handoff:c", map[string]int{"week": 3}, 0); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}
	var got map[string]int
	if err := kv.TakeJSON(ctx, s, "handoff:c", &got); err != nil {
		t.Fatalf("TakeJSON() error = %v", err)
	}
	if got["week"] != 3 {
		t.Errorf("TakeJSON() = %v, want week 3", got)
	}
	if err := kv.TakeJSON(ctx, s, "handoff:c", &got); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("second TakeJSON() error = %v, want ErrNotFound", err)
	}
}
