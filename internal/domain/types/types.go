// Package types contains the result shapes shared by the service, the result
// sink and the HTTP API.
package types

import (
	"time"

	"github.com/okian/talentmatch/internal/domain/scoring"
)

// Entry is one ranked leaderboard row.
type Entry struct {
	Rank        int     `json:"rank"`
	EmployeeID  string  `json:"employee_id"`
	FullName    string  `json:"fullname"`
	Directorate string  `json:"directorate"`
	Position    string  `json:"position"`
	Grade       string  `json:"grade"`
	MBTI        string  `json:"mbti,omitempty"`
	DISC        string  `json:"disc,omitempty"`
	Score       float64 `json:"final_score"`
}

// DomainSummary is the mean domain rate across every scored employee.
type DomainSummary struct {
	DomainName string       `json:"tgv_name"`
	MeanRate   scoring.Rate `json:"mean_match_rate"`
	Employees  int          `json:"employees"`
}

// AnalysisResult is the complete, self-contained outcome of one run.
// Holders must treat it as read-only; Clone before handing it elsewhere.
type AnalysisResult struct {
	RunID       string                `json:"run_id"`
	RoleName    string                `json:"role_name"`
	JobLevel    string                `json:"job_level"`
	Purpose     string                `json:"purpose"`
	Benchmark   []string              `json:"benchmark_employee_ids"`
	BaselineIQ  scoring.Rate          `json:"baseline_iq"`
	DomainRows  []scoring.DomainScore `json:"domain_rows"`
	Leaderboard []Entry               `json:"leaderboard"`
	Summary     []DomainSummary       `json:"summary"`
	CreatedAt   time.Time             `json:"created_at"`
}

// Clone returns a deep copy of r.
func (r AnalysisResult) Clone() AnalysisResult {
	out := r
	out.Benchmark = append([]string(nil), r.Benchmark...)
	out.DomainRows = append([]scoring.DomainScore(nil), r.DomainRows...)
	out.Leaderboard = append([]Entry(nil), r.Leaderboard...)
	out.Summary = append([]DomainSummary(nil), r.Summary...)
	return out
}
