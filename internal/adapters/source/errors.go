package source

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for data source failures.
var (
	ErrDataSource  = errors.New("data source failure")
	ErrEmptyResult = errors.New("data source returned no usable rows")
)

// Dataset names used in errors, logs and metrics.
const (
	DatasetEmployees        = "employees"
	DatasetPsychProfiles    = "psych_profiles"
	DatasetCompetencies     = "competencies"
	DatasetStrengths        = "strengths"
	DatasetEducationContext = "education_context"
)

// DataSourceError wraps a failed fetch of one dataset.
type DataSourceError struct {
	Dataset string
	Err     error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Dataset, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDataSource) hold.
func (e *DataSourceError) Is(target error) bool { return target == ErrDataSource }

// Wrap returns err as a *DataSourceError for dataset. A nil err stays nil and
// an existing *DataSourceError is returned unchanged.
func Wrap(dataset string, err error) error {
	if err == nil {
		return nil
	}
	var dse *DataSourceError
	if errors.As(err, &dse) {
		return err
	}
	return &DataSourceError{Dataset: dataset, Err: err}
}
