package theme

// Profile is the presentation styling for a theme.
type Profile struct {
	Key        Key    `json:"key"`
	Label      string `json:"label"`
	Primary    string `json:"primary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

var profiles = map[Key]Profile{
	General:     {Key: General, Label: "General", Primary: "#2563eb", Accent: "#f59e0b", Background: "#f8fafc", Text: "#0f172a"},
	Dystopian:   {Key: Dystopian, Label: "Dystopian Fiction", Primary: "#b91c1c", Accent: "#71717a", Background: "#18181b", Text: "#f4f4f5"},
	Gothic:      {Key: Gothic, Label: "Gothic Fiction", Primary: "#581c87", Accent: "#9f1239", Background: "#1e1b4b", Text: "#ede9fe"},
	Shakespeare: {Key: Shakespeare, Label: "Shakespeare", Primary: "#92400e", Accent: "#ca8a04", Background: "#fffbeb", Text: "#422006"},
	Poetry:      {Key: Poetry, Label: "Poetry", Primary: "#be185d", Accent: "#7c3aed", Background: "#fdf2f8", Text: "#500724"},
	War:         {Key: War, Label: "Power and Conflict", Primary: "#3f6212", Accent: "#a16207", Background: "#f7fee7", Text: "#1a2e05"},
	Nature:      {Key: Nature, Label: "Nature", Primary: "#15803d", Accent: "#0369a1", Background: "#f0fdf4", Text: "#052e16"},
}

// Style returns the profile for key, or the default profile.
func Style(key Key) Profile {
	if p, ok := profiles[key]; ok {
		return p
	}
	return profiles[Default]
}

// Resolve canonicalizes raw and returns its style profile.
func Resolve(raw string) Profile {
	return Style(Canonicalize(raw))
}
