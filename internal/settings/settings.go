// Package settings persists the teacher profile and term calendar.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/p-n-ai/pai-planner/internal/platform/kv"
)

const (
	profileKey = "settings:profile"
	termsKey   = "settings:terms"
	dateLayout = "2006-01-02"
)

// Profile holds the teacher's planning defaults.
type Profile struct {
	TeacherName      string `json:"teacher_name"`
	School           string `json:"school,omitempty"`
	DefaultSubject   string `json:"default_subject,omitempty"`
	DefaultYearGroup string `json:"default_year_group,omitempty"`
	DefaultClassID   string `json:"default_class_id,omitempty"`
	TimerSeconds     int    `json:"timer_seconds,omitempty"`
}

// Validate checks the profile before it is saved.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.TeacherName) == "" {
		return fmt.Errorf("teacher name is required")
	}
	if p.TimerSeconds < 0 {
		return fmt.Errorf("timer seconds must not be negative, got %d", p.TimerSeconds)
	}
	return nil
}

// Date is a calendar day encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate returns the calendar day of t in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON overrides the embedded time.Time encoding.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a YYYY-MM-DD string: %w", err)
	}
	return d.UnmarshalText([]byte(s))
}

// Term is one teaching term.
type Term struct {
	Name  string `json:"name"`
	Start Date   `json:"start"`
	End   Date   `json:"end"`
}

// Contains reports whether day falls within the term, inclusive.
func (t Term) Contains(day Date) bool {
	return !day.Before(t.Start.Time) && !day.After(t.End.Time)
}

// Weeks returns the number of teaching weeks in the term.
func (t Term) Weeks() int {
	return WeekOf(t, t.End)
}

// WeekOf returns the 1-based week of the term containing day, counted in
// seven-day blocks from the term start. It returns 0 outside the term.
func WeekOf(t Term, day Date) int {
	if !t.Contains(day) {
		return 0
	}
	days := int(day.Sub(t.Start.Time).Hours() / 24)
	return days/7 + 1
}

// ValidateTerms checks names, ordering and overlap.
func ValidateTerms(terms []Term) error {
	sorted := slices.Clone(terms)
	slices.SortFunc(sorted, func(a, b Term) int { return a.Start.Compare(b.Start.Time) })

	for i, t := range sorted {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("term %d: name is required", i+1)
		}
		if t.Start.IsZero() || t.End.IsZero() {
			return fmt.Errorf("term %q: start and end are required", t.Name)
		}
		if t.End.Before(t.Start.Time) {
			return fmt.Errorf("term %q: ends %s before it starts %s", t.Name, t.End, t.Start)
		}
		if i > 0 && !t.Start.After(sorted[i-1].End.Time) {
			return fmt.Errorf("term %q overlaps %q", t.Name, sorted[i-1].Name)
		}
	}
	return nil
}

// Store reads and writes settings through a kv.Store.
type Store struct {
	kv kv.Store
}

// NewStore creates a settings store.
func NewStore(s kv.Store) *Store {
	return &Store{kv: s}
}

// Profile returns the saved profile, or the zero profile if none is saved.
func (s *Store) Profile(ctx context.Context) (Profile, error) {
	var p Profile
	if err := kv.GetJSON(ctx, s.kv, profileKey, &p); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return Profile{}, nil
		}
		return Profile{}, fmt.Errorf("loading profile: %w", err)
	}
	return p, nil
}

// SaveProfile validates and stores p.
func (s *Store) SaveProfile(ctx context.Context, p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := kv.SetJSON(ctx, s.kv, profileKey, p, 0); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// Terms returns the saved terms ordered by start date.
func (s *Store) Terms(ctx context.Context) ([]Term, error) {
	var terms []Term
	if err := kv.GetJSON(ctx, s.kv, termsKey, &terms); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return []Term{}, nil
		}
		return nil, fmt.Errorf("loading terms: %w", err)
	}
	return terms, nil
}

// SaveTerms validates and replaces the term calendar.
func (s *Store) SaveTerms(ctx context.Context, terms []Term) error {
	if err := ValidateTerms(terms); err != nil {
		return err
	}
	sorted := slices.Clone(terms)
	slices.SortFunc(sorted, func(a, b Term) int { return a.Start.Compare(b.Start.Time) })
	if err := kv.SetJSON(ctx, s.kv, termsKey, sorted, 0); err != nil {
		return fmt.Errorf("saving terms: %w", err)
	}
	return nil
}

// CurrentWeek returns the term and teaching week containing day. ok is false
// when day falls outside every saved term.
func (s *Store) CurrentWeek(ctx context.Context, day Date) (term Term, week int, ok bool, err error) {
	terms, err := s.Terms(ctx)
	if err != nil {
		return Term{}, 0, false, err
	}
	for _, t := range terms {
		if w := WeekOf(t, day); w > 0 {
			return t, w, true, nil
		}
	}
	return Term{}, 0, false, nil
}
