package sqlsource

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the HR tables read by Source. Production databases already
// carry them; EnsureSchema exists for local sqlite setups and tests.
const schema = `
CREATE TABLE IF NOT EXISTS dim_directorates (directorate_id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE IF NOT EXISTS dim_positions (position_id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE IF NOT EXISTS dim_grades (grade_id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE IF NOT EXISTS dim_education (education_id INTEGER PRIMARY KEY, name TEXT NOT NULL);

CREATE TABLE IF NOT EXISTS employees (
	employee_id             TEXT PRIMARY KEY,
	fullname                TEXT,
	directorate_id          INTEGER,
	position_id             INTEGER,
	grade_id                INTEGER,
	education_id            INTEGER,
	years_of_service_months INTEGER
);

CREATE TABLE IF NOT EXISTS profiles_psych (
	employee_id TEXT PRIMARY KEY,
	iq          REAL,
	mbti        TEXT,
	disc        TEXT
);

CREATE TABLE IF NOT EXISTS competencies_yearly (
	employee_id TEXT NOT NULL,
	pillar_code TEXT,
	year        INTEGER,
	score       REAL
);
CREATE INDEX IF NOT EXISTS idx_competencies_employee ON competencies_yearly(employee_id);

CREATE TABLE IF NOT EXISTS strengths (
	employee_id TEXT NOT NULL,
	rank        INTEGER,
	theme       TEXT
);
CREATE INDEX IF NOT EXISTS idx_strengths_employee ON strengths(employee_id);
`

// EnsureSchema creates the HR tables when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure hr schema: %w", err)
	}
	return nil
}
