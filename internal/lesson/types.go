// Package lesson defines the lesson activity model and assembles lessons from
// one starter, one main and one plenary activity.
package lesson

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one part of the three-part lesson structure.
type Phase int

const (
	Starter Phase = iota
	Main
	Plenary
)

// Phases returns every phase in teaching order.
func Phases() []Phase {
	return []Phase{Starter, Main, Plenary}
}

func (p Phase) String() string {
	switch p {
	case Starter:
		return "Starter"
	case Main:
		return "Main"
	case Plenary:
		return "Plenary"
	default:
		return "unknown"
	}
}

// Valid reports whether p is one of the three phases.
func (p Phase) Valid() bool {
	return p >= Starter && p <= Plenary
}

// ParsePhase parses a phase name, ignoring case.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "starter":
		return Starter, nil
	case "main":
		return Main, nil
	case "plenary":
		return Plenary, nil
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

func (p Phase) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid phase %d", int(p))
	}
	return []byte(strings.ToLower(p.String())), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	parsed, err := ParsePhase(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Details is structured teaching content passed through to presentation.
type Details struct {
	Steps   []string `json:"steps,omitempty" yaml:"steps"`
	Tips    []string `json:"tips,omitempty" yaml:"tips"`
	Answers []string `json:"answers,omitempty" yaml:"answers"`
}

// Activity is one teachable lesson activity. Its phase is fixed by
// NewActivity and cannot be reassigned.
type Activity struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	DurationMinutes int      `json:"duration_minutes"`
	Subject         string   `json:"subject"`
	YearGroup       string   `json:"year_group"`
	Theme           string   `json:"theme,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	Details         *Details `json:"details,omitempty"`

	phase Phase
}

// NewActivity returns a copy of a with its phase set to phase.
func NewActivity(phase Phase, a Activity) (Activity, error) {
	if !phase.Valid() {
		return Activity{}, fmt.Errorf("invalid phase %d", int(phase))
	}
	if a.ID == "" {
		return Activity{}, fmt.Errorf("activity id is required")
	}
	if a.DurationMinutes <= 0 {
		return Activity{}, fmt.Errorf("activity %s: duration must be positive, got %d", a.ID, a.DurationMinutes)
	}
	a.phase = phase
	return a, nil
}

// MustActivity is NewActivity that panics on error. Intended for static
// fixtures and tests.
func MustActivity(phase Phase, a Activity) Activity {
	act, err := NewActivity(phase, a)
	if err != nil {
		panic(err)
	}
	return act
}

// Phase returns the phase the activity belongs to.
func (a Activity) Phase() Phase {
	return a.phase
}

// StepCount returns the number of presentation steps in the activity details.
func (a Activity) StepCount() int {
	if a.Details == nil {
		return 0
	}
	return len(a.Details.Steps)
}

// FilterCriteria narrows the catalog and supplies the lesson's classification.
// Week is zero when unset.
type FilterCriteria struct {
	Subject    string `json:"subject,omitempty"`
	YearGroup  string `json:"year_group,omitempty"`
	ClassID    string `json:"class_id,omitempty"`
	Theme      string `json:"theme,omitempty"`
	SearchText string `json:"search,omitempty"`
	Week       int    `json:"week,omitempty"`
}

// SelectedActivities holds at most one activity per phase.
type SelectedActivities map[Phase]Activity

// Select sets the activity for its phase, replacing any earlier choice.
func (s SelectedActivities) Select(a Activity) {
	s[a.Phase()] = a
}

// Complete reports whether every phase has an activity.
func (s SelectedActivities) Complete() bool {
	for _, p := range Phases() {
		if _, ok := s[p]; !ok {
			return false
		}
	}
	return true
}

// Missing returns the phases without an activity, in teaching order.
func (s SelectedActivities) Missing() []Phase {
	var missing []Phase
	for _, p := range Phases() {
		if _, ok := s[p]; !ok {
			missing = append(missing, p)
		}
	}
	return missing
}

func (s SelectedActivities) clone() SelectedActivities {
	out := make(SelectedActivities, len(s))
	for p, a := range s {
		out[p] = a
	}
	return out
}

// Lesson is an assembled teaching unit. Every phase has an activity.
type Lesson struct {
	ID         string             `json:"id"`
	Subject    string             `json:"subject"`
	YearGroup  string             `json:"year_group"`
	ClassID    string             `json:"class_id"`
	Theme      string             `json:"theme,omitempty"`
	Week       int                `json:"week,omitempty"`
	Activities SelectedActivities `json:"activities"`
	CreatedAt  time.Time          `json:"created_at"`
}

// Activity returns the activity planned for phase.
func (l Lesson) Activity(phase Phase) (Activity, bool) {
	a, ok := l.Activities[phase]
	return a, ok
}

// TotalMinutes sums the planned activity durations.
func (l Lesson) TotalMinutes() int {
	total := 0
	for _, a := range l.Activities {
		total += a.DurationMinutes
	}
	return total
}

// Validate checks a lesson received from outside the assembler: every phase
// must be filled by an activity of that phase.
func (l Lesson) Validate() error {
	if missing := l.Activities.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, p := range missing {
			names[i] = p.String()
		}
		return &AssemblyError{Kind: ErrIncompletePhases, Missing: names}
	}
	for p, a := range l.Activities {
		if !p.Valid() {
			return fmt.Errorf("invalid phase %d", int(p))
		}
		if a.Phase() != p {
			return fmt.Errorf("activity %s is a %s activity, planned as %s", a.ID, a.Phase(), p)
		}
	}
	return nil
}
