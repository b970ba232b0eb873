// Package matcher filters catalog activities by lesson criteria and groups
// the survivors by phase.
package matcher

import (
	"strings"

	"github.com/p-n-ai/pai-planner/internal/lesson"
	"github.com/p-n-ai/pai-planner/internal/platform/fold"
	"github.com/p-n-ai/pai-planner/internal/theme"
)

// Result holds matching activities per phase in catalog order.
type Result struct {
	Starter []lesson.Activity `json:"starter"`
	Main    []lesson.Activity `json:"main"`
	Plenary []lesson.Activity `json:"plenary"`
}

// For returns the matches for phase.
func (r Result) For(phase lesson.Phase) []lesson.Activity {
	switch phase {
	case lesson.Starter:
		return r.Starter
	case lesson.Main:
		return r.Main
	case lesson.Plenary:
		return r.Plenary
	}
	return nil
}

// Len returns the total number of matches.
func (r Result) Len() int {
	return len(r.Starter) + len(r.Main) + len(r.Plenary)
}

// Match returns the activities satisfying every non-empty criterion.
// No matches is an empty Result, not an error.
func Match(activities []lesson.Activity, c lesson.FilterCriteria) Result {
	res := Result{
		Starter: []lesson.Activity{},
		Main:    []lesson.Activity{},
		Plenary: []lesson.Activity{},
	}
	for _, a := range activities {
		if !Matches(a, c) {
			continue
		}
		switch a.Phase() {
		case lesson.Starter:
			res.Starter = append(res.Starter, a)
		case lesson.Main:
			res.Main = append(res.Main, a)
		case lesson.Plenary:
			res.Plenary = append(res.Plenary, a)
		}
	}
	return res
}

// Matches reports whether a satisfies c. Subject and year group compare
// exactly; theme and search text compare without case. A theme matches on
// its canonical key or as a substring of the title, description, a keyword
// or the phase label. Unknown themes canonicalize to the default, so they
// match every unthemed activity.
func Matches(a lesson.Activity, c lesson.FilterCriteria) bool {
	if c.Subject != "" && a.Subject != c.Subject {
		return false
	}
	if c.YearGroup != "" && a.YearGroup != c.YearGroup {
		return false
	}
	if strings.TrimSpace(c.Theme) != "" && !matchesTheme(a, c.Theme) {
		return false
	}
	if strings.TrimSpace(c.SearchText) != "" && !matchesSearch(a, c.SearchText) {
		return false
	}
	return true
}

func matchesTheme(a lesson.Activity, raw string) bool {
	if theme.Canonicalize(raw) == theme.Canonicalize(a.Theme) {
		return true
	}
	if fold.Contains(a.Title, raw) || fold.Contains(a.Description, raw) {
		return true
	}
	if fold.Contains(a.Phase().String(), raw) {
		return true
	}
	for _, kw := range a.Keywords {
		if fold.Contains(kw, raw) {
			return true
		}
	}
	return false
}

func matchesSearch(a lesson.Activity, text string) bool {
	return fold.Contains(a.Title, text) || fold.Contains(a.Description, text)
}
