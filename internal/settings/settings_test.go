package settings_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/p-n-ai/pai-planner/internal/platform/kv"
	"github.com/p-n-ai/pai-planner/internal/settings"
)

func autumn() settings.Term {
	return settings.Term{
		Name:  "Autumn",
		Start: settings.NewDate(2026, time.September, 2),
		End:   settings.NewDate(2026, time.October, 23),
	}
}

func TestWeekOf(t *testing.T) {
	term := autumn()

	tests := []struct {
		name string
		day  settings.Date
		want int
	}{
		{"first day", settings.NewDate(2026, time.September, 2), 1},
		{"end of first week", settings.NewDate(2026, time.September, 8), 1},
		{"start of second week", settings.NewDate(2026, time.September, 9), 2},
		{"week seven", settings.NewDate(2026, time.October, 19), 7},
		{"last day", settings.NewDate(2026, time.October, 23), 8},
		{"before term", settings.NewDate(2026, time.September, 1), 0},
		{"after term", settings.NewDate(2026, time.October, 24), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := settings.WeekOf(term, tt.day); got != tt.want {
				t.Errorf("WeekOf(%s) = %d, want %d", tt.day, got, tt.want)
			}
		})
	}

	if got := term.Weeks(); got != 8 {
		t.Errorf("Weeks() = %d, want 8", got)
	}
}

func TestDateOf(t *testing.T) {
	got := settings.DateOf(time.Date(2026, time.October, 19, 15, 4, 5, 0, time.UTC))
	if got.String() != "2026-10-19" {
		t.Errorf("DateOf() = %s, want 2026-10-19", got)
	}
}

func TestTermJSON(t *testing.T) {
	data, err := json.Marshal(autumn())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"name":"Autumn","start":"2026-09-02","end":"2026-10-23"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var back settings.Term
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !back.Start.Equal(autumn().Start.Time) || back.Name != "Autumn" {
		t.Errorf("Unmarshal() = %+v", back)
	}

	if err := json.Unmarshal([]byte(`{"name":"x","start":"02/09/2026"}`), &back); err == nil {
		t.Error("Unmarshal() should reject non ISO dates")
	}
}

func TestValidateTerms(t *testing.T) {
	spring := settings.Term{
		Name:  "Spring",
		Start: settings.NewDate(2027, time.January, 5),
		End:   settings.NewDate(2027, time.February, 12),
	}

	tests := []struct {
		name    string
		terms   []settings.Term
		wantErr bool
	}{
		{"empty", nil, false},
		{"ordered", []settings.Term{autumn(), spring}, false},
		{"unordered input", []settings.Term{spring, autumn()}, false},
		{"missing name", []settings.Term{{Start: autumn().Start, End: autumn().End}}, true},
		{"missing dates", []settings.Term{{Name: "Summer"}}, true},
		{"end before start", []settings.Term{{Name: "Bad", Start: spring.End, End: spring.Start}}, true},
		{"overlap", []settings.Term{autumn(), {Name: "Half", Start: settings.NewDate(2026, time.October, 20), End: settings.NewDate(2026, time.December, 18)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := settings.ValidateTerms(tt.terms)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTerms() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStore_Profile(t *testing.T) {
	ctx := t.Context()
	s := settings.NewStore(kv.NewMemoryStore())

	p, err := s.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if p != (settings.Profile{}) {
		t.Errorf("Profile() before save = %+v, want zero", p)
	}

	if err := s.SaveProfile(ctx, settings.Profile{}); err == nil {
		t.Error("SaveProfile() without a name should fail")
	}

	want := settings.Profile{TeacherName: "Ms Okafor", DefaultSubject: "English", DefaultYearGroup: "Year 10", TimerSeconds: 420}
	if err := s.SaveProfile(ctx, want); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	got, err := s.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if got != want {
		t.Errorf("Profile() = %+v, want %+v", got, want)
	}
}

func TestStore_TermsAndCurrentWeek(t *testing.T) {
	ctx := t.Context()
	s := settings.NewStore(kv.NewMemoryStore())

	terms, err := s.Terms(ctx)
	if err != nil {
		t.Fatalf("Terms() error = %v", err)
	}
	if len(terms) != 0 {
		t.Errorf("Terms() before save = %v, want empty", terms)
	}

	spring := settings.Term{Name: "Spring", Start: settings.NewDate(2027, time.January, 5), End: settings.NewDate(2027, time.March, 26)}
	if err := s.SaveTerms(ctx, []settings.Term{spring, autumn()}); err != nil {
		t.Fatalf("SaveTerms() error = %v", err)
	}

	terms, err = s.Terms(ctx)
	if err != nil {
		t.Fatalf("Terms() error = %v", err)
	}
	if len(terms) != 2 || terms[0].Name != "Autumn" || terms[1].Name != "Spring" {
		t.Errorf("Terms() = %+v, want Autumn then Spring", terms)
	}

	term, week, ok, err := s.CurrentWeek(ctx, settings.NewDate(2027, time.January, 14))
	if err != nil {
		t.Fatalf("CurrentWeek() error = %v", err)
	}
	if !ok || term.Name != "Spring" || week != 2 {
		t.Errorf("CurrentWeek() = %s week %d ok=%v, want Spring week 2", term.Name, week, ok)
	}

	if _, _, ok, _ := s.CurrentWeek(ctx, settings.NewDate(2026, time.December, 25)); ok {
		t.Error("CurrentWeek() in the holidays should not be ok")
	}
}
