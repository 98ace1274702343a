package benchmark

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds for baseline resolution.
var (
	ErrEmptyCohort       = errors.New("benchmark cohort is empty")
	ErrMissingProfile    = errors.New("benchmark member has no psych profile")
	ErrUnsupportedMetric = errors.New("unsupported baseline metric")
)

// MissingProfileError lists the cohort members whose profile or IQ is absent.
type MissingProfileError struct {
	EmployeeIDs []string
}

func (e *MissingProfileError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingProfile, strings.Join(e.EmployeeIDs, ", "))
}

// Is makes errors.Is(err, ErrMissingProfile) hold.
func (e *MissingProfileError) Is(target error) bool {
	return target == ErrMissingProfile
}
