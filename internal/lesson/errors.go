package lesson

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIncompletePhases means a starter, main or plenary activity is missing.
	ErrIncompletePhases = errors.New("select a starter, main, and plenary activity")
	// ErrMissingRequiredCriteria means subject, year group or class is empty.
	ErrMissingRequiredCriteria = errors.New("subject, year group and class are required")
)

// AssemblyError reports why a lesson could not be assembled. It matches
// ErrIncompletePhases or ErrMissingRequiredCriteria with errors.Is.
type AssemblyError struct {
	Kind    error
	Missing []string
}

func (e *AssemblyError) Error() string {
	if len(e.Missing) == 0 {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s (missing: %s)", e.Kind, strings.Join(e.Missing, ", "))
}

func (e *AssemblyError) Unwrap() error {
	return e.Kind
}
