package route

import "github.com/p-n-ai/pai-planner/internal/platform/fold"

// Rule maps activity titles to an independent interactive presentation.
type Rule struct {
	Presentation string
	Keywords     []string
}

// Matches reports whether any of the rule's keywords appears in title.
func (r Rule) Matches(title string) bool {
	return fold.ContainsAny(title, r.Keywords...)
}

// activityRules is evaluated in order; the first match wins.
var activityRules = []Rule{
	{Presentation: "think-pair-share", Keywords: []string{"think-pair-share", "think pair share"}},
	{Presentation: "word-association", Keywords: []string{"word association"}},
	{Presentation: "press-conference", Keywords: []string{"press conference"}},
	{Presentation: "socratic-circle", Keywords: []string{"socratic circle"}},
	{Presentation: "character-conversations", Keywords: []string{"character conversations"}},
	{Presentation: "alternative-endings", Keywords: []string{"alternative endings"}},
	{Presentation: "compare-contrast", Keywords: []string{"compare contrast", "compare and contrast"}},
	{Presentation: "two-minute-perspective", Keywords: []string{"two minute perspective", "perspective challenge"}},
}

// ActivityRules returns the activity-type table in evaluation order.
func ActivityRules() []Rule {
	out := make([]Rule, len(activityRules))
	copy(out, activityRules)
	return out
}
