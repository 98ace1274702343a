// Package benchmark derives baseline statistics from a benchmark cohort.
package benchmark

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/talentmatch/internal/domain/model"
)

// Metric selects the statistic a baseline is computed over.
type Metric int

// Supported metrics.
const (
	MetricIQ Metric = iota + 1
)

func (m Metric) String() string {
	switch m {
	case MetricIQ:
		return "iq"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// Resolver computes cohort baselines from the psych profiles of a run.
type Resolver struct {
	profiles map[string]model.PsychProfile
}

// NewResolver indexes profiles by employee id. The first profile seen for an
// id wins.
func NewResolver(profiles []model.PsychProfile) *Resolver {
	idx := make(map[string]model.PsychProfile, len(profiles))
	for _, p := range profiles {
		if _, ok := idx[p.EmployeeID]; ok {
			continue
		}
		idx[p.EmployeeID] = p
	}
	return &Resolver{profiles: idx}
}

// Resolve returns the median of metric over the cohort. Duplicate ids count
// once. Every member must have a profile with the metric recorded; otherwise
// a *MissingProfileError naming all offenders is returned.
func (r *Resolver) Resolve(cohort []string, metric Metric) (float64, error) {
	if metric != MetricIQ {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedMetric, metric)
	}
	members := Members(cohort)
	if len(members) == 0 {
		return 0, ErrEmptyCohort
	}

	values := make([]float64, 0, len(members))
	var missing []string
	for _, id := range members {
		p, ok := r.profiles[id]
		if !ok || p.IQ == nil {
			missing = append(missing, id)
			continue
		}
		values = append(values, *p.IQ)
	}
	if len(missing) > 0 {
		return 0, &MissingProfileError{EmployeeIDs: missing}
	}
	return Median(values), nil
}

// Members deduplicates cohort ids, dropping blanks and keeping first-seen order.
func Members(cohort []string) []string {
	seen := make(map[string]struct{}, len(cohort))
	out := make([]string, 0, len(cohort))
	for _, id := range cohort {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Median is the continuous 50th percentile of values.
func Median(values []float64) float64 {
	return Percentile(values, 0.5)
}

// Percentile returns the continuous percentile p (0..1) of values, linearly
// interpolating between the two closest ranks. values is not modified.
// It returns NaN for an empty slice.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	p = math.Max(0, math.Min(1, p))
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
