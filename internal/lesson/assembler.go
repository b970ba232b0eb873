package lesson

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithIDGenerator overrides lesson id generation.
func WithIDGenerator(gen func() string) AssemblerOption {
	return func(a *Assembler) { a.newID = gen }
}

// WithClock overrides the lesson creation timestamp source.
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) { a.now = now }
}

// Assembler accumulates one activity per phase and builds a Lesson from them.
type Assembler struct {
	mu       sync.Mutex
	selected SelectedActivities
	newID    func() string
	now      func() time.Time
}

// NewAssembler returns an Assembler with no selections.
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		selected: SelectedActivities{},
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Select sets the activity for its phase, replacing any earlier choice.
// Selecting the same activity again has no effect.
func (a *Assembler) Select(act Activity) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selected.Select(act)
}

// Clear removes the selection for phase.
func (a *Assembler) Clear(phase Phase) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.selected, phase)
}

// Selected returns a snapshot of the current selections.
func (a *Assembler) Selected() SelectedActivities {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selected.clone()
}

// IsComplete reports whether every phase has a selection.
func (a *Assembler) IsComplete() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selected.Complete()
}

// Assemble builds a new Lesson from the selections and criteria. The
// assembler does not keep the result.
func (a *Assembler) Assemble(criteria FilterCriteria) (Lesson, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if missing := a.selected.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, p := range missing {
			names[i] = p.String()
		}
		return Lesson{}, &AssemblyError{Kind: ErrIncompletePhases, Missing: names}
	}

	var missing []string
	if criteria.Subject == "" {
		missing = append(missing, "subject")
	}
	if criteria.YearGroup == "" {
		missing = append(missing, "year group")
	}
	if criteria.ClassID == "" {
		missing = append(missing, "class")
	}
	if len(missing) > 0 {
		return Lesson{}, &AssemblyError{Kind: ErrMissingRequiredCriteria, Missing: missing}
	}

	activities := a.selected.clone()
	return Lesson{
		ID:         a.newID(),
		Subject:    criteria.Subject,
		YearGroup:  criteria.YearGroup,
		ClassID:    criteria.ClassID,
		Theme:      inferTheme(criteria.Theme, activities),
		Week:       criteria.Week,
		Activities: activities,
		CreatedAt:  a.now(),
	}, nil
}

// inferTheme prefers the filter theme, then the first themed activity in
// teaching order.
func inferTheme(filterTheme string, activities SelectedActivities) string {
	if filterTheme != "" {
		return filterTheme
	}
	for _, p := range Phases() {
		if act, ok := activities[p]; ok && act.Theme != "" {
			return act.Theme
		}
	}
	return ""
}
