package route

import (
	"fmt"

	"github.com/p-n-ai/pai-planner/internal/lesson"
	"github.com/p-n-ai/pai-planner/internal/platform/fold"
)

// Unit is one numbered unit of the dystopian fiction scheme of work. A unit
// is recognised by either of its two keyword phrases in an activity title.
type Unit struct {
	Number   int            `json:"number"`
	Title    string         `json:"title"`
	Keywords [2]string      `json:"keywords"`
	Phases   []lesson.Phase `json:"phases"`
}

// Presentation returns the presentation id for phase, if the unit has one.
func (u Unit) Presentation(phase lesson.Phase) (string, bool) {
	for _, p := range u.Phases {
		if p == phase {
			return unitPresentationID(u.Number, phase), true
		}
	}
	return "", false
}

// MatchesTitle reports whether either keyword phrase appears in title.
func (u Unit) MatchesTitle(title string) bool {
	return fold.ContainsAny(title, u.Keywords[0], u.Keywords[1])
}

func unitPresentationID(number int, phase lesson.Phase) string {
	return fmt.Sprintf("dystopian-unit-%d-%s", number, phaseSlug(phase))
}

func phaseSlug(phase lesson.Phase) string {
	b, err := phase.MarshalText()
	if err != nil {
		return "unknown"
	}
	return string(b)
}

var allPhases = []lesson.Phase{lesson.Starter, lesson.Main, lesson.Plenary}

// Units 5 and 6 only have starter and plenary presentations.
var dystopianUnits = []Unit{
	{Number: 1, Title: "Dystopian Worlds", Keywords: [2]string{"dystopian world discovery", "future vision"}, Phases: allPhases},
	{Number: 2, Title: "Setting and Atmosphere", Keywords: [2]string{"setting description", "atmosphere"}, Phases: allPhases},
	{Number: 3, Title: "Character and Control", Keywords: [2]string{"character development", "protagonist"}, Phases: allPhases},
	{Number: 4, Title: "Sentence Craft", Keywords: [2]string{"complex sentence", "sophistication"}, Phases: allPhases},
	{Number: 5, Title: "Narrative Structure", Keywords: [2]string{"narrative structure", "plot twist"}, Phases: []lesson.Phase{lesson.Starter, lesson.Plenary}},
	{Number: 6, Title: "Extended Writing", Keywords: [2]string{"extended writing", "final draft"}, Phases: []lesson.Phase{lesson.Starter, lesson.Plenary}},
}

// Units returns the numbered dystopian units in order.
func Units() []Unit {
	out := make([]Unit, len(dystopianUnits))
	copy(out, dystopianUnits)
	return out
}
