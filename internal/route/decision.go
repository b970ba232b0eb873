// Package route decides whether a lesson phase has a purpose-built
// interactive presentation or uses the generic teaching interface.
package route

import (
	"fmt"

	"github.com/p-n-ai/pai-planner/internal/lesson"
)

// Kind distinguishes specialized presentations from the generic interface.
type Kind int

const (
	Generic Kind = iota
	Specialized
)

func (k Kind) String() string {
	switch k {
	case Generic:
		return "generic"
	case Specialized:
		return "specialized"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "generic":
		*k = Generic
	case "specialized":
		*k = Specialized
	default:
		return fmt.Errorf("unknown route kind %q", b)
	}
	return nil
}

// Rule names recorded on decisions.
const (
	RuleUnitTitle = "unit-title"
	RuleUnitWeek  = "unit-week"
	RuleActivity  = "activity-type"
)

// Decision is the outcome of resolving one phase. Presentation is empty for
// Generic decisions. Unit is set for numbered-unit presentations.
type Decision struct {
	Kind         Kind   `json:"kind"`
	Presentation string `json:"presentation,omitempty"`
	Unit         int    `json:"unit,omitempty"`
	Rule         string `json:"rule,omitempty"`
}

// GenericDecision sends the phase to the default teaching interface.
var GenericDecision = Decision{Kind: Generic}

// IsSpecialized reports whether the decision names a presentation.
func (d Decision) IsSpecialized() bool {
	return d.Kind == Specialized
}

// Plan holds one decision per lesson phase.
type Plan map[lesson.Phase]Decision
