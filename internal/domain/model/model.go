// Package model contains the raw entities read from the data source and the
// request/record shapes passed between layers.
package model

import "time"

// Job levels offered when opening a vacancy.
const (
	JobLevelStaff   = "Staff"
	JobLevelSenior  = "Senior"
	JobLevelManager = "Manager"
)

// JobLevels lists the accepted job levels in display order.
func JobLevels() []string {
	return []string{JobLevelStaff, JobLevelSenior, JobLevelManager}
}

// Employee is one roster row with its display attributes resolved.
type Employee struct {
	ID           string
	FullName     string
	Directorate  string
	Position     string
	Grade        string
	Education    string // education level name, e.g. "S1"
	TenureMonths int    // years of service expressed in months
}

// PsychProfile holds the psychometric results of one employee.
type PsychProfile struct {
	EmployeeID string
	IQ         *float64 // nil when no IQ was recorded
	MBTI       string
	DISC       string
}

// CompetencyRecord is one yearly pillar rating (0-5).
type CompetencyRecord struct {
	EmployeeID string
	PillarCode string
	Year       int
	Score      float64
}

// Strength is one thematic strength label attached to an employee.
type Strength struct {
	EmployeeID string
	Theme      string
}

// EducationContext pairs an employee with their education level and tenure.
type EducationContext struct {
	EmployeeID    string
	EducationName string
	TenureMonths  int
}

// Identity is the set of display attributes a leaderboard row is grouped by.
type Identity struct {
	EmployeeID  string
	FullName    string
	Directorate string
	Position    string
	Grade       string
	MBTI        string
	DISC        string
}

// AnalysisRequest describes the vacancy being matched and the benchmark cohort.
type AnalysisRequest struct {
	RoleName  string   `json:"role_name" validate:"required,max=200"`
	JobLevel  string   `json:"job_level" validate:"required,oneof=Staff Senior Manager"`
	Purpose   string   `json:"purpose" validate:"max=4000"`
	Benchmark []string `json:"benchmark_employee_ids" validate:"dive,required"`
}

// RunRecord is the write-once record persisted for every analysis run.
type RunRecord struct {
	RunID        string
	RoleName     string
	JobLevel     string
	Purpose      string
	BenchmarkIDs []string
	CreatedAt    time.Time
}
