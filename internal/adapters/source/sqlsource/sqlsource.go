// Package sqlsource reads analysis input from the HR tables of a SQL
// database (sqlite3 or postgres). All queries are static text; no caller
// input is ever spliced into SQL.
package sqlsource

import (
	"context"
	"database/sql"
	"time"

	"github.com/okian/talentmatch/internal/adapters/source"
	"github.com/okian/talentmatch/pkg/logger"
	"github.com/okian/talentmatch/pkg/metrics"
)

const (
	employeesQuery = `
SELECT CAST(e.employee_id AS TEXT),
       COALESCE(e.fullname, ''),
       COALESCE(d.name, ''),
       COALESCE(p.name, ''),
       COALESCE(g.name, ''),
       COALESCE(ed.name, ''),
       COALESCE(e.years_of_service_months, 0)
FROM employees e
LEFT JOIN dim_directorates d ON e.directorate_id = d.directorate_id
LEFT JOIN dim_positions p ON e.position_id = p.position_id
LEFT JOIN dim_grades g ON e.grade_id = g.grade_id
LEFT JOIN dim_education ed ON e.education_id = ed.education_id
ORDER BY 1`

	psychQuery = `
SELECT CAST(employee_id AS TEXT), iq, COALESCE(mbti, ''), COALESCE(disc, '')
FROM profiles_psych
ORDER BY 1`

	competenciesQuery = `
SELECT CAST(employee_id AS TEXT), pillar_code, COALESCE(year, 0), score
FROM competencies_yearly
WHERE score IS NOT NULL AND pillar_code IS NOT NULL
ORDER BY 1, 2, 3`

	strengthsQuery = `
SELECT DISTINCT CAST(employee_id AS TEXT), theme
FROM strengths
WHERE theme IS NOT NULL
ORDER BY 1, 2`

	educationQuery = `
SELECT CAST(e.employee_id AS TEXT), ed.name, COALESCE(e.years_of_service_months, 0)
FROM employees e
JOIN dim_education ed ON e.education_id = ed.education_id
ORDER BY 1`
)

// Source implements source.Source over a *sql.DB.
type Source struct {
	db     *sql.DB
	logger logger.Logger
}

var _ source.Source = (*Source)(nil)

// Option applies a configuration option to the Source.
type Option func(*Source)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// New wraps db. The caller keeps ownership of db.
func New(db *sql.DB, opts ...Option) *Source {
	s := &Source{db: db, logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// query runs q and hands every row to scan, recording latency and row counts.
func (s *Source) query(ctx context.Context, dataset, q string, scan func(*sql.Rows) error) error {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		metrics.RecordFetchError(dataset)
		return source.Wrap(dataset, err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		if err := scan(rows); err != nil {
			metrics.RecordFetchError(dataset)
			return source.Wrap(dataset, err)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		metrics.RecordFetchError(dataset)
		return source.Wrap(dataset, err)
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordFetch(dataset, n, elapsed)
	s.logger.Debug(ctx, "fetched dataset",
		logger.String("dataset", dataset),
		logger.Int("rows", n),
		logger.Float64("latency_ms", elapsed),
	)
	return nil
}

// FetchEmployees returns the roster with dimension names resolved.
func (s *Source) FetchEmployees(ctx context.Context) ([]source.Employee, error) {
	var out []source.Employee
	err := s.query(ctx, source.DatasetEmployees, employeesQuery, func(rows *sql.Rows) error {
		var e source.Employee
		if err := rows.Scan(&e.ID, &e.FullName, &e.Directorate, &e.Position, &e.Grade, &e.Education, &e.TenureMonths); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	return out, err
}

// FetchPsychProfiles returns the psych profiles; a NULL iq stays nil.
func (s *Source) FetchPsychProfiles(ctx context.Context) ([]source.PsychProfile, error) {
	var out []source.PsychProfile
	err := s.query(ctx, source.DatasetPsychProfiles, psychQuery, func(rows *sql.Rows) error {
		var (
			p  source.PsychProfile
			iq sql.NullFloat64
		)
		if err := rows.Scan(&p.EmployeeID, &iq, &p.MBTI, &p.DISC); err != nil {
			return err
		}
		if iq.Valid {
			v := iq.Float64
			p.IQ = &v
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

// FetchCompetencyRecords returns every rated pillar row.
func (s *Source) FetchCompetencyRecords(ctx context.Context) ([]source.CompetencyRecord, error) {
	var out []source.CompetencyRecord
	err := s.query(ctx, source.DatasetCompetencies, competenciesQuery, func(rows *sql.Rows) error {
		var c source.CompetencyRecord
		if err := rows.Scan(&c.EmployeeID, &c.PillarCode, &c.Year, &c.Score); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

// FetchStrengths returns distinct (employee, theme) pairs.
func (s *Source) FetchStrengths(ctx context.Context) ([]source.Strength, error) {
	var out []source.Strength
	err := s.query(ctx, source.DatasetStrengths, strengthsQuery, func(rows *sql.Rows) error {
		var st source.Strength
		if err := rows.Scan(&st.EmployeeID, &st.Theme); err != nil {
			return err
		}
		out = append(out, st)
		return nil
	})
	return out, err
}

// FetchEducationContext returns employees that have a known education level.
func (s *Source) FetchEducationContext(ctx context.Context) ([]source.EducationContext, error) {
	var out []source.EducationContext
	err := s.query(ctx, source.DatasetEducationContext, educationQuery, func(rows *sql.Rows) error {
		var ec source.EducationContext
		if err := rows.Scan(&ec.EmployeeID, &ec.EducationName, &ec.TenureMonths); err != nil {
			return err
		}
		out = append(out, ec)
		return nil
	})
	return out, err
}
