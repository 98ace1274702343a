// Package scoring maps an employee's raw attributes to per-domain match rates.
//
// Each domain scorer is a pure function; Score combines them into the rows of
// one employee. Callers may evaluate employees concurrently.
package scoring

import (
	"math"

	"github.com/shopspring/decimal"
)

// Domain identifies one of the four competency domains (TGV).
type Domain int

// Competency domains in reporting order.
const (
	CoreCompetencies Domain = iota + 1
	BehavioralProfile
	CognitivePersonality
	ContextExperience
)

// Domains returns all domains in reporting order.
func Domains() []Domain {
	return []Domain{CoreCompetencies, BehavioralProfile, CognitivePersonality, ContextExperience}
}

// String returns the display name of the domain.
func (d Domain) String() string {
	switch d {
	case CoreCompetencies:
		return "Core Competencies"
	case BehavioralProfile:
		return "Behavioral Profile"
	case CognitivePersonality:
		return "Cognitive & Personality Profile"
	case ContextExperience:
		return "Context & Experience"
	default:
		return "Unknown"
	}
}

// SubMetric returns the name of the single sub-metric (TV) of the domain.
func (d Domain) SubMetric() string {
	switch d {
	case CoreCompetencies:
		return "Average of 10 Pillars"
	case BehavioralProfile:
		return "Top 5 Strengths"
	case CognitivePersonality:
		return "IQ Score"
	case ContextExperience:
		return "Education & Years of Service"
	default:
		return "Unknown"
	}
}

// Scoring constants.
const (
	maxPillarScore   = 5.0
	pillarBonusFloor = 4.0
	pillarBonus      = 0.10
	fullMatch        = 100.0
	partialStrength  = 80.0
	contextFallback  = 70.0
	percent          = 100.0
)

// Pillar codes that earn a bonus in the core competency domain.
const (
	PillarGDR = "GDR"
	PillarCEX = "CEX"
)

// favoredStrengths are the themes that earn a full behavioral match.
var favoredStrengths = map[string]struct{}{
	"Positivity": {},
	"Futuristic": {},
}

// contextRule is one tier of the context & experience ladder.
type contextRule struct {
	education []string
	minTenure int
	rate      float64
}

// contextRules are evaluated in order; the first match wins.
var contextRules = []contextRule{
	{education: []string{"S2"}, minTenure: 48, rate: 100},
	{education: []string{"S1"}, minTenure: 36, rate: 90},
	{education: []string{"D3", "SMA"}, minTenure: 50, rate: 85},
}

// ScoreCoreCompetencies scores TGV1. avg is the mean of all pillar ratings;
// gdr and cex are the per-pillar means and may be nil when never rated.
func ScoreCoreCompetencies(avg float64, gdr, cex *float64) Rate {
	if !finite(avg) {
		return NullMatch
	}
	rate := decimal.NewFromFloat(avg).Div(decimal.NewFromFloat(maxPillarScore))
	if gdr != nil && *gdr >= pillarBonusFloor {
		rate = rate.Add(decimal.NewFromFloat(pillarBonus))
	}
	if cex != nil && *cex >= pillarBonusFloor {
		rate = rate.Add(decimal.NewFromFloat(pillarBonus))
	}
	rate = decimal.Min(rate, decimal.NewFromInt(1))
	return Match(round2(rate.Mul(decimal.NewFromFloat(percent))))
}

// ScoreBehavioralProfile scores TGV2. Any overlap with the favored themes is
// a full match; there is no partial credit.
func ScoreBehavioralProfile(strengths []string) Rate {
	for _, s := range strengths {
		if _, ok := favoredStrengths[s]; ok {
			return Match(fullMatch)
		}
	}
	return Match(partialStrength)
}

// ScoreCognitivePersonality scores TGV3 relative to the cohort baseline.
// A missing IQ or a null/zero baseline yields NullMatch.
func ScoreCognitivePersonality(iq *float64, baseline Rate) Rate {
	if iq == nil || !baseline.Valid || baseline.Value == 0 || !finite(baseline.Value) || !finite(*iq) {
		return NullMatch
	}
	rate := decimal.NewFromFloat(*iq).Div(decimal.NewFromFloat(baseline.Value)).Mul(decimal.NewFromFloat(percent))
	return Match(round2(decimal.Min(rate, decimal.NewFromFloat(fullMatch))))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// ScoreContextExperience scores TGV4 from the ordered rule ladder.
func ScoreContextExperience(education string, tenureMonths int) Rate {
	for _, rule := range contextRules {
		if tenureMonths < rule.minTenure {
			continue
		}
		for _, e := range rule.education {
			if e == education {
				return Match(rule.rate)
			}
		}
	}
	return Match(contextFallback)
}

// CompetencyInput is the collapsed pillar data of one employee.
type CompetencyInput struct {
	AvgPillarScore float64
	GDR            *float64
	CEX            *float64
}

// ContextInput is the education and tenure of one employee.
type ContextInput struct {
	Education    string
	TenureMonths int
}

// Input gathers everything the scorers need for one employee. A nil field
// means the source had no rows for that domain and no row is produced.
type Input struct {
	EmployeeID string
	Competency *CompetencyInput
	Strengths  []string // nil when the employee has no strength rows
	HasProfile bool
	IQ         *float64
	Context    *ContextInput
}

// DomainScore is one (employee, domain, sub-metric) row.
type DomainScore struct {
	EmployeeID    string `json:"employee_id"`
	Domain        Domain `json:"-"`
	DomainName    string `json:"tgv_name"`
	SubMetricName string `json:"tv_name"`
	Baseline      Rate   `json:"baseline_score"`
	SubMetricRate Rate   `json:"tv_match_rate"`
	DomainRate    Rate   `json:"tgv_match_rate"`
}

func newRow(employeeID string, d Domain, baseline, rate Rate) DomainScore {
	return DomainScore{
		EmployeeID:    employeeID,
		Domain:        d,
		DomainName:    d.String(),
		SubMetricName: d.SubMetric(),
		Baseline:      baseline,
		SubMetricRate: rate,
		// Each domain has a single sub-metric, so the domain rate is the
		// sub-metric rate.
		DomainRate: rate,
	}
}

// Score produces the domain rows of one employee in reporting order.
// baseline is the cohort median IQ used by the cognitive domain.
func Score(in Input, baseline Rate) []DomainScore {
	rows := make([]DomainScore, 0, len(Domains()))
	if c := in.Competency; c != nil {
		rows = append(rows, newRow(in.EmployeeID, CoreCompetencies, Match(1.0),
			ScoreCoreCompetencies(c.AvgPillarScore, c.GDR, c.CEX)))
	}
	if in.Strengths != nil {
		rows = append(rows, newRow(in.EmployeeID, BehavioralProfile, Match(fullMatch),
			ScoreBehavioralProfile(in.Strengths)))
	}
	if in.HasProfile {
		rows = append(rows, newRow(in.EmployeeID, CognitivePersonality, baseline,
			ScoreCognitivePersonality(in.IQ, baseline)))
	}
	if c := in.Context; c != nil {
		rows = append(rows, newRow(in.EmployeeID, ContextExperience, Match(fullMatch),
			ScoreContextExperience(c.Education, c.TenureMonths)))
	}
	return rows
}
