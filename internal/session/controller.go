// Package session drives an assembled lesson through its phases with a
// per-phase countdown timer.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/p-n-ai/pai-planner/internal/lesson"
	"github.com/p-n-ai/pai-planner/internal/route"
)

const defaultTickInterval = time.Second

// PhaseTimer is the countdown state for the current phase.
type PhaseTimer struct {
	RemainingSeconds int  `json:"remaining_seconds"`
	Running          bool `json:"running"`
}

// Snapshot is the observable state of a session.
type Snapshot struct {
	LessonID     string          `json:"lesson_id"`
	Phase        lesson.Phase    `json:"phase"`
	Step         int             `json:"step"`
	StepCount    int             `json:"step_count"`
	Timer        *PhaseTimer     `json:"timer"`
	Activity     lesson.Activity `json:"activity"`
	Presentation route.Decision  `json:"presentation"`
}

// Notifier plays the end-of-countdown signal. Failures are ignored.
type Notifier interface {
	Notify(ctx context.Context, lessonID string, phase lesson.Phase) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, lessonID string, phase lesson.Phase) error

func (f NotifierFunc) Notify(ctx context.Context, lessonID string, phase lesson.Phase) error {
	return f(ctx, lessonID, phase)
}

// Config holds dependencies for a Controller.
type Config struct {
	Lesson     lesson.Lesson
	StartPhase lesson.Phase // defaults to Starter
	Plan       route.Plan   // resolved from Lesson when nil
	Notifier   Notifier
	Events     EventLogger
	OnChange   func(Snapshot)

	// TickInterval is the countdown period (default one second).
	TickInterval time.Duration
	// ManualTick disables the background ticker; the caller drives Tick.
	ManualTick bool
}

// Controller owns one teaching session. Each session has its own timer and
// cursors; nothing is shared between sessions.
type Controller struct {
	lesson   lesson.Lesson
	plan     route.Plan
	notifier Notifier
	events   EventLogger
	onChange func(Snapshot)
	interval time.Duration
	manual   bool

	mu     sync.Mutex
	phase  lesson.Phase
	step   int
	timer  *PhaseTimer
	gen    uint64
	stop   chan struct{}
	closed bool
}

// NewController starts a session at cfg.StartPhase.
func NewController(cfg Config) (*Controller, error) {
	if !cfg.StartPhase.Valid() {
		return nil, fmt.Errorf("invalid start phase %d", int(cfg.StartPhase))
	}
	plan := cfg.Plan
	if plan == nil {
		plan = route.NewResolver().Plan(cfg.Lesson)
	}
	events := cfg.Events
	if events == nil {
		events = NopEventLogger{}
	}
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = defaultTickInterval
	}

	c := &Controller{
		lesson:   cfg.Lesson,
		plan:     plan,
		notifier: cfg.Notifier,
		events:   events,
		onChange: cfg.OnChange,
		interval: interval,
		manual:   cfg.ManualTick,
		phase:    cfg.StartPhase,
	}
	c.logEvent(EventSessionStarted, map[string]any{"phase": phaseName(c.phase)})
	return c, nil
}

// Phase returns the current phase.
func (c *Controller) Phase() lesson.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Step returns the step cursor within the current phase.
func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Timer returns the current timer. The second result is false when no timer
// has been started in this phase.
func (c *Controller) Timer() (PhaseTimer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer == nil {
		return PhaseTimer{}, false
	}
	return *c.timer, true
}

// Snapshot returns the full session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// NextPhase advances Starter to Main to Plenary. It is a no-op at Plenary.
func (c *Controller) NextPhase() bool {
	return c.movePhase(1)
}

// PreviousPhase moves back one phase. It is a no-op at Starter.
func (c *Controller) PreviousPhase() bool {
	return c.movePhase(-1)
}

func (c *Controller) movePhase(delta int) bool {
	c.mu.Lock()
	next := c.phase + lesson.Phase(delta)
	if !next.Valid() {
		c.mu.Unlock()
		return false
	}
	c.phase = next
	c.step = 0
	c.clearTimerLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logEvent(EventPhaseChanged, map[string]any{"phase": phaseName(next)})
	c.emit(snap)
	return true
}

// NextStep advances the step cursor within the phase's activity steps.
func (c *Controller) NextStep() bool {
	c.mu.Lock()
	act, _ := c.lesson.Activity(c.phase)
	if c.step >= act.StepCount()-1 {
		c.mu.Unlock()
		return false
	}
	c.step++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
	return true
}

// PreviousStep moves the step cursor back, stopping at zero.
func (c *Controller) PreviousStep() bool {
	c.mu.Lock()
	if c.step == 0 {
		c.mu.Unlock()
		return false
	}
	c.step--
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
	return true
}

// StartTimer begins a countdown of seconds, replacing any running timer.
func (c *Controller) StartTimer(seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("timer duration must be positive, got %d", seconds)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("session closed")
	}
	c.clearTimerLocked()
	c.timer = &PhaseTimer{RemainingSeconds: seconds, Running: true}
	gen := c.gen
	if !c.manual {
		c.stop = make(chan struct{})
		go c.run(gen, c.stop)
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logEvent(EventTimerStarted, map[string]any{"phase": phaseName(snap.Phase), "seconds": seconds})
	c.emit(snap)
	return nil
}

// StopTimer stops and clears the timer. Calling it with no timer is a no-op.
func (c *Controller) StopTimer() {
	c.mu.Lock()
	if c.timer == nil {
		c.mu.Unlock()
		return
	}
	c.clearTimerLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logEvent(EventTimerStopped, map[string]any{"phase": phaseName(snap.Phase)})
	c.emit(snap)
}

// Tick performs one countdown step on the running timer. The background
// ticker calls it every interval; with ManualTick the caller does.
func (c *Controller) Tick() {
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()
	c.tick(gen)
}

// Close stops background work. The session state stays readable.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.clearTimerLocked()
}

func (c *Controller) run(gen uint64, stop <-chan struct{}) {
	t := time.NewTicker(c.interval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if !c.tick(gen) {
				return
			}
		}
	}
}

// tick decrements the timer started in generation gen. It reports whether
// the countdown should continue.
func (c *Controller) tick(gen uint64) bool {
	c.mu.Lock()
	if c.gen != gen || c.timer == nil || !c.timer.Running {
		c.mu.Unlock()
		return false
	}
	c.timer.RemainingSeconds--
	finished := c.timer.RemainingSeconds <= 0
	if finished {
		c.timer.RemainingSeconds = 0
		c.timer.Running = false
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
	if finished {
		c.logEvent(EventTimerFinished, map[string]any{"phase": phaseName(snap.Phase)})
		c.notify(snap.Phase)
	}
	return !finished
}

func (c *Controller) notify(phase lesson.Phase) {
	if c.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.notifier.Notify(ctx, c.lesson.ID, phase); err != nil {
		slog.Warn("timer notification failed",
			"lesson_id", c.lesson.ID,
			"phase", phaseName(phase),
			"error", err,
		)
	}
}

// clearTimerLocked drops the timer and invalidates any running countdown.
func (c *Controller) clearTimerLocked() {
	c.timer = nil
	c.gen++
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	act, _ := c.lesson.Activity(c.phase)
	snap := Snapshot{
		LessonID:     c.lesson.ID,
		Phase:        c.phase,
		Step:         c.step,
		StepCount:    act.StepCount(),
		Activity:     act,
		Presentation: c.plan[c.phase],
	}
	if c.timer != nil {
		t := *c.timer
		snap.Timer = &t
	}
	return snap
}

func (c *Controller) emit(snap Snapshot) {
	if c.onChange != nil {
		c.onChange(snap)
	}
}

func (c *Controller) logEvent(eventType string, data map[string]any) {
	err := c.events.LogEvent(Event{
		LessonID:  c.lesson.ID,
		ClassID:   c.lesson.ClassID,
		EventType: eventType,
		Data:      data,
	})
	if err != nil {
		slog.Warn("failed to log session event", "type", eventType, "error", err)
	}
}

func phaseName(p lesson.Phase) string {
	b, err := p.MarshalText()
	if err != nil {
		return "unknown"
	}
	return string(b)
}
