// Package navigation hands an assembled lesson to the presentation front end.
// The lesson and its route plan are parked in the key/value store under a
// short-lived token; the front end opens the returned path and takes the
// payload exactly once.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/p-n-ai/pai-planner/internal/lesson"
	"github.com/p-n-ai/pai-planner/internal/platform/kv"
	"github.com/p-n-ai/pai-planner/internal/route"
)

// ErrHandoffNotFound is returned for an unknown, expired or already taken token.
var ErrHandoffNotFound = errors.New("handoff not found")

const (
	keyPrefix  = "handoff:"
	defaultTTL = 30 * time.Minute
)

// Payload is the navigation state delivered to the presentation.
type Payload struct {
	Lesson lesson.Lesson `json:"lesson"`
	Plan   route.Plan    `json:"plan"`
	Phase  lesson.Phase  `json:"phase"`
}

// Handoff identifies a parked payload.
type Handoff struct {
	Path      string    `json:"path"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type envelope struct {
	Path    string  `json:"path"`
	Payload Payload `json:"payload"`
}

// PathFor returns the front-end path for a routing decision. Specialized
// decisions open their own presentation; generic ones open the default
// lesson view for the phase.
func PathFor(d route.Decision, phase lesson.Phase) string {
	if d.IsSpecialized() && d.Presentation != "" {
		return "/teach/" + d.Presentation
	}
	name, err := phase.MarshalText()
	if err != nil {
		name = []byte("starter")
	}
	return "/teach/lesson/" + string(name)
}

// Option configures a Service.
type Option func(*Service)

// WithTTL sets how long a handoff stays available.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithTokenGenerator replaces the uuid token source.
func WithTokenGenerator(gen func() string) Option {
	return func(s *Service) { s.newToken = gen }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service parks navigation payloads in a kv.Store.
type Service struct {
	store    kv.Store
	ttl      time.Duration
	newToken func() string
	now      func() time.Time
}

// NewService creates a navigation service over store.
func NewService(store kv.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		ttl:      defaultTTL,
		newToken: uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NavigateTo parks payload for path and returns the handoff.
func (s *Service) NavigateTo(ctx context.Context, path string, payload Payload) (Handoff, error) {
	if path == "" {
		return Handoff{}, fmt.Errorf("navigation path is required")
	}
	token := s.newToken()
	env := envelope{Path: path, Payload: payload}
	if err := kv.SetJSON(ctx, s.store, keyPrefix+token, env, s.ttl); err != nil {
		return Handoff{}, fmt.Errorf("storing handoff: %w", err)
	}
	return Handoff{Path: path, Token: token, ExpiresAt: s.now().Add(s.ttl)}, nil
}

// Start opens a lesson at its first phase, following the plan's decision.
func (s *Service) Start(ctx context.Context, l lesson.Lesson, plan route.Plan) (Handoff, error) {
	phase := lesson.Starter
	path := PathFor(plan[phase], phase)
	return s.NavigateTo(ctx, path, Payload{Lesson: l, Plan: plan, Phase: phase})
}

// Take returns the parked path and payload for token and removes them
// atomically, so a token is honoured at most once.
func (s *Service) Take(ctx context.Context, token string) (string, Payload, error) {
	if token == "" {
		return "", Payload{}, ErrHandoffNotFound
	}
	key := keyPrefix + token

	var env envelope
	if err := kv.TakeJSON(ctx, s.store, key, &env); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return "", Payload{}, ErrHandoffNotFound
		}
		return "", Payload{}, fmt.Errorf("taking handoff: %w", err)
	}
	return env.Path, env.Payload, nil
}
