package route

import (
	"github.com/p-n-ai/pai-planner/internal/lesson"
	"github.com/p-n-ai/pai-planner/internal/theme"
)

// Resolver picks presentations for lesson phases. It is pure: the same
// lesson and phase always yield the same decision.
type Resolver struct {
	gate  theme.Key
	units []Unit
	rules []Rule
}

// NewResolver returns a resolver over the built-in unit and activity tables.
func NewResolver() *Resolver {
	return &Resolver{
		gate:  theme.Dystopian,
		units: dystopianUnits,
		rules: activityRules,
	}
}

// Resolve decides the presentation for phase of l. A phase with no planned
// activity resolves to GenericDecision.
func (r *Resolver) Resolve(l lesson.Lesson, phase lesson.Phase) Decision {
	act, ok := l.Activity(phase)
	if !ok {
		return GenericDecision
	}
	return r.resolve(act.Title, l.Theme, l.Week, phase)
}

// ResolveActivity decides the presentation for a single activity outside of
// an assembled lesson, using the activity's own phase. Week is zero when
// unknown.
func (r *Resolver) ResolveActivity(a lesson.Activity, rawTheme string, week int) Decision {
	return r.resolve(a.Title, rawTheme, week, a.Phase())
}

// Plan resolves every phase of l.
func (r *Resolver) Plan(l lesson.Lesson) Plan {
	plan := make(Plan, 3)
	for _, p := range lesson.Phases() {
		plan[p] = r.Resolve(l, p)
	}
	return plan
}

func (r *Resolver) resolve(title, rawTheme string, week int, phase lesson.Phase) Decision {
	if theme.Canonicalize(rawTheme) == r.gate {
		if d, ok := r.byUnitTitle(title, phase); ok {
			return d
		}
		if d, ok := r.byWeek(week, phase); ok {
			return d
		}
	}
	for _, rule := range r.rules {
		if rule.Matches(title) {
			return Decision{Kind: Specialized, Presentation: rule.Presentation, Rule: RuleActivity}
		}
	}
	return GenericDecision
}

// byUnitTitle only considers the first unit whose keywords match.
func (r *Resolver) byUnitTitle(title string, phase lesson.Phase) (Decision, bool) {
	for _, u := range r.units {
		if !u.MatchesTitle(title) {
			continue
		}
		id, ok := u.Presentation(phase)
		if !ok {
			return Decision{}, false
		}
		return Decision{Kind: Specialized, Presentation: id, Unit: u.Number, Rule: RuleUnitTitle}, true
	}
	return Decision{}, false
}

func (r *Resolver) byWeek(week int, phase lesson.Phase) (Decision, bool) {
	for _, u := range r.units {
		if u.Number != week {
			continue
		}
		id, ok := u.Presentation(phase)
		if !ok {
			return Decision{}, false
		}
		return Decision{Kind: Specialized, Presentation: id, Unit: u.Number, Rule: RuleUnitWeek}, true
	}
	return Decision{}, false
}
