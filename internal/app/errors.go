package service

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by RunAnalysis.
var (
	ErrInvalidRequest      = errors.New("invalid analysis request")
	ErrUnknownCohortMember = errors.New("benchmark employee not in roster")
	ErrNotStarted          = errors.New("service not started")
)

// UnknownCohortError lists benchmark ids that are not on the roster.
type UnknownCohortError struct {
	EmployeeIDs []string
}

func (e *UnknownCohortError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownCohortMember, strings.Join(e.EmployeeIDs, ", "))
}

// Is matches ErrUnknownCohortMember.
func (e *UnknownCohortError) Is(target error) bool { return target == ErrUnknownCohortMember }

// ErrNoSource is returned by Start when no data source was configured.
var ErrNoSource = errors.New("no data source configured")
