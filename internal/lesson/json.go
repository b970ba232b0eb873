package lesson

import (
	"encoding/json"
	"fmt"
)

type activityJSON struct {
	ID              string   `json:"id"`
	Phase           Phase    `json:"phase"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	DurationMinutes int      `json:"duration_minutes"`
	Subject         string   `json:"subject"`
	YearGroup       string   `json:"year_group"`
	Theme           string   `json:"theme,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	Details         *Details `json:"details,omitempty"`
}

// MarshalJSON includes the phase, which is otherwise unexported.
func (a Activity) MarshalJSON() ([]byte, error) {
	return json.Marshal(activityJSON{
		ID:              a.ID,
		Phase:           a.phase,
		Title:           a.Title,
		Description:     a.Description,
		DurationMinutes: a.DurationMinutes,
		Subject:         a.Subject,
		YearGroup:       a.YearGroup,
		Theme:           a.Theme,
		Keywords:        a.Keywords,
		Details:         a.Details,
	})
}

// UnmarshalJSON decodes an activity and validates it like NewActivity.
func (a *Activity) UnmarshalJSON(b []byte) error {
	var raw activityJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	act, err := NewActivity(raw.Phase, Activity{
		ID:              raw.ID,
		Title:           raw.Title,
		Description:     raw.Description,
		DurationMinutes: raw.DurationMinutes,
		Subject:         raw.Subject,
		YearGroup:       raw.YearGroup,
		Theme:           raw.Theme,
		Keywords:        raw.Keywords,
		Details:         raw.Details,
	})
	if err != nil {
		return fmt.Errorf("decode activity: %w", err)
	}
	*a = act
	return nil
}
