// Package theme maps free-form theme names to canonical keys and the style
// profile the presentation layer uses for them.
package theme

import "github.com/p-n-ai/pai-planner/internal/platform/fold"

// Key is a canonical theme identifier.
type Key string

const (
	General     Key = "general"
	Dystopian   Key = "dystopian"
	Gothic      Key = "gothic"
	Shakespeare Key = "shakespeare"
	Poetry      Key = "poetry"
	War         Key = "war"
	Nature      Key = "nature"
)

// Default is returned for empty or unknown theme names.
const Default = General

// aliases maps folded theme names to their canonical key.
var aliases = map[string]Key{
	"general":  General,
	"default":  General,
	"standard": General,

	"dystopian":         Dystopian,
	"dystopia":          Dystopian,
	"dystopian fiction": Dystopian,
	"dark":              Dystopian,
	"futuristic":        Dystopian,

	"gothic":         Gothic,
	"gothic fiction": Gothic,
	"gothic horror":  Gothic,
	"horror":         Gothic,

	"shakespeare":   Shakespeare,
	"shakespearean": Shakespeare,
	"drama":         Shakespeare,

	"poetry":    Poetry,
	"poems":     Poetry,
	"poem":      Poetry,
	"verse":     Poetry,
	"anthology": Poetry,

	"war":                War,
	"war poetry":         War,
	"conflict":           War,
	"power and conflict": War,

	"nature":        Nature,
	"environment":   Nature,
	"natural world": Nature,
}

// Canonicalize maps a raw theme name to its key. It never fails: empty and
// unknown names resolve to Default.
func Canonicalize(raw string) Key {
	if k, ok := aliases[fold.Key(raw)]; ok {
		return k
	}
	return Default
}

// Known reports whether raw names a theme other than the default.
func Known(raw string) bool {
	return Canonicalize(raw) != Default
}

// Keys lists every canonical key.
func Keys() []Key {
	return []Key{General, Dystopian, Gothic, Shakespeare, Poetry, War, Nature}
}
