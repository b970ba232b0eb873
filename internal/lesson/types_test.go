package lesson_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/p-n-ai/pai-planner/internal/lesson"
)

func TestParsePhase(t *testing.T) {
	tests := []struct {
		in      string
		want    lesson.Phase
		wantErr bool
	}{
		{"starter", lesson.Starter, false},
		{"Main", lesson.Main, false},
		{" PLENARY ", lesson.Plenary, false},
		{"warmup", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := lesson.ParsePhase(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePhase(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParsePhase(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewActivity_Validation(t *testing.T) {
	if _, err := lesson.NewActivity(lesson.Phase(7), lesson.Activity{ID: "x", DurationMinutes: 5}); err == nil {
		t.Error("NewActivity() should reject an invalid phase")
	}
	if _, err := lesson.NewActivity(lesson.Main, lesson.Activity{DurationMinutes: 5}); err == nil {
		t.Error("NewActivity() should reject an empty id")
	}
	if _, err := lesson.NewActivity(lesson.Main, lesson.Activity{ID: "x"}); err == nil {
		t.Error("NewActivity() should reject a zero duration")
	}
}

func TestActivity_PhaseSurvivesCopy(t *testing.T) {
	a := lesson.MustActivity(lesson.Plenary, lesson.Activity{ID: "p", DurationMinutes: 5})
	b := a
	b.Title = "changed"
	if b.Phase() != lesson.Plenary {
		t.Errorf("Phase() = %v, want Plenary", b.Phase())
	}
}

func TestLesson_JSONKeepsPhases(t *testing.T) {
	l := lesson.Lesson{
		ID:      "l1",
		Subject: "English",
		Activities: lesson.SelectedActivities{
			lesson.Starter: lesson.MustActivity(lesson.Starter, lesson.Activity{ID: "s", Title: "Future Vision", DurationMinutes: 5}),
			lesson.Main:    lesson.MustActivity(lesson.Main, lesson.Activity{ID: "m", DurationMinutes: 30}),
			lesson.Plenary: lesson.MustActivity(lesson.Plenary, lesson.Activity{ID: "p", DurationMinutes: 10}),
		},
	}

	data, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got lesson.Lesson
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, p := range lesson.Phases() {
		act, ok := got.Activity(p)
		if !ok {
			t.Fatalf("decoded lesson missing %s", p)
		}
		if act.Phase() != p {
			t.Errorf("activity %s phase = %v, want %v", act.ID, act.Phase(), p)
		}
	}
}

func TestActivity_UnmarshalRejectsBadPhase(t *testing.T) {
	var a lesson.Activity
	err := json.Unmarshal([]byte(`{"id":"x","phase":"warmup","duration_minutes":5}`), &a)
	if err == nil {
		t.Error("Unmarshal() should fail for unknown phase")
	}
}

func TestParseDurationMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"10 mins", 10, false},
		{"5-10 minutes", 5, false},
		{"15", 15, false},
		{"about 20 min", 20, false},
		{"quick", 0, true},
		{"0 minutes", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := lesson.ParseDurationMinutes(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDurationMinutes(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDurationMinutes(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestLesson_Validate(t *testing.T) {
	starter := lesson.MustActivity(lesson.Starter, lesson.Activity{ID: "s", DurationMinutes: 5})
	mainAct := lesson.MustActivity(lesson.Main, lesson.Activity{ID: "m", DurationMinutes: 30})
	plenary := lesson.MustActivity(lesson.Plenary, lesson.Activity{ID: "p", DurationMinutes: 5})

	tests := []struct {
		name       string
		activities lesson.SelectedActivities
		wantErr    bool
		wantIs     error
	}{
		{
			name:       "complete",
			activities: lesson.SelectedActivities{lesson.Starter: starter, lesson.Main: mainAct, lesson.Plenary: plenary},
		},
		{
			name:       "missing plenary",
			activities: lesson.SelectedActivities{lesson.Starter: starter, lesson.Main: mainAct},
			wantErr:    true,
			wantIs:     lesson.ErrIncompletePhases,
		},
		{
			name:       "activity under the wrong phase",
			activities: lesson.SelectedActivities{lesson.Starter: starter, lesson.Main: plenary, lesson.Plenary: plenary},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := lesson.Lesson{ID: "l", Activities: tt.activities}.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantIs)
			}
		})
	}
}
