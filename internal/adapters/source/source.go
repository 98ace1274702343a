// Package source defines the data source contract consumed by the analysis
// pipeline, plus an in-memory implementation.
package source

import (
	"context"
	"fmt"
)

// Source supplies the raw, already-validated rows of one analysis run.
// Implementations own paging and retries; callers do neither.
type Source interface {
	FetchEmployees(ctx context.Context) ([]Employee, error)
	FetchPsychProfiles(ctx context.Context) ([]PsychProfile, error)
	FetchCompetencyRecords(ctx context.Context) ([]CompetencyRecord, error)
	FetchStrengths(ctx context.Context) ([]Strength, error)
	FetchEducationContext(ctx context.Context) ([]EducationContext, error)
}

// Snapshot is an in-memory Source over fixed rows. Fetches return copies, so
// a Snapshot is safe for concurrent use once built.
type Snapshot struct {
	Employees    []Employee
	Profiles     []PsychProfile
	Competencies []CompetencyRecord
	Strengths    []Strength
	Education    []EducationContext
}

var _ Source = (*Snapshot)(nil)

func checkCtx(ctx context.Context, dataset string) error {
	if err := ctx.Err(); err != nil {
		return Wrap(dataset, fmt.Errorf("context cancelled: %w", err))
	}
	return nil
}

// FetchEmployees returns the roster.
func (s *Snapshot) FetchEmployees(ctx context.Context) ([]Employee, error) {
	if err := checkCtx(ctx, DatasetEmployees); err != nil {
		return nil, err
	}
	return append([]Employee(nil), s.Employees...), nil
}

// FetchPsychProfiles returns the psych profiles.
func (s *Snapshot) FetchPsychProfiles(ctx context.Context) ([]PsychProfile, error) {
	if err := checkCtx(ctx, DatasetPsychProfiles); err != nil {
		return nil, err
	}
	out := make([]PsychProfile, len(s.Profiles))
	for i, p := range s.Profiles {
		out[i] = p
		if p.IQ != nil {
			v := *p.IQ
			out[i].IQ = &v
		}
	}
	return out, nil
}

// FetchCompetencyRecords returns the yearly pillar ratings.
func (s *Snapshot) FetchCompetencyRecords(ctx context.Context) ([]CompetencyRecord, error) {
	if err := checkCtx(ctx, DatasetCompetencies); err != nil {
		return nil, err
	}
	return append([]CompetencyRecord(nil), s.Competencies...), nil
}

// FetchStrengths returns the strength themes.
func (s *Snapshot) FetchStrengths(ctx context.Context) ([]Strength, error) {
	if err := checkCtx(ctx, DatasetStrengths); err != nil {
		return nil, err
	}
	return append([]Strength(nil), s.Strengths...), nil
}

// FetchEducationContext returns education level and tenure per employee.
func (s *Snapshot) FetchEducationContext(ctx context.Context) ([]EducationContext, error) {
	if err := checkCtx(ctx, DatasetEducationContext); err != nil {
		return nil, err
	}
	return append([]EducationContext(nil), s.Education...), nil
}
