// Package aggregate rolls domain rows up into final scores and a ranked
// leaderboard.
package aggregate

import (
	"sort"

	"github.com/okian/talentmatch/internal/domain/model"
	"github.com/okian/talentmatch/internal/domain/scoring"
	"github.com/okian/talentmatch/internal/domain/types"
)

// Finals maps an employee id to its final match rate.
type Finals map[string]float64

// domainKey groups rows of one employee and domain.
type domainKey struct {
	employeeID string
	domain     scoring.Domain
}

// FinalScores computes each employee's final match rate: the mean over
// domains of the mean domain rate of that domain's rows. NullMatch rows are
// left out of both means; employees with nothing defined are absent from the
// result.
func FinalScores(rows []scoring.DomainScore) Finals {
	byDomain := make(map[domainKey][]scoring.Rate)
	var order []domainKey
	for _, r := range rows {
		k := domainKey{employeeID: r.EmployeeID, domain: r.Domain}
		if _, ok := byDomain[k]; !ok {
			order = append(order, k)
		}
		byDomain[k] = append(byDomain[k], r.DomainRate)
	}

	perEmployee := make(map[string][]scoring.Rate)
	for _, k := range order {
		perEmployee[k.employeeID] = append(perEmployee[k.employeeID], scoring.Mean(byDomain[k]...))
	}

	finals := make(Finals, len(perEmployee))
	for id, rates := range perEmployee {
		if m := scoring.Mean(rates...); m.Valid {
			finals[id] = m.Value
		}
	}
	return finals
}

// Aggregate computes final scores and the ranked leaderboard. identities
// supplies display attributes; an employee missing from it is listed by id
// only.
func Aggregate(rows []scoring.DomainScore, identities map[string]model.Identity) (Finals, []types.Entry) {
	finals := FinalScores(rows)

	grouped := make(map[model.Identity][]float64, len(finals))
	for id, score := range finals {
		ident, ok := identities[id]
		if !ok {
			ident = model.Identity{EmployeeID: id}
		}
		grouped[ident] = append(grouped[ident], score)
	}

	board := make([]types.Entry, 0, len(grouped))
	for ident, scores := range grouped {
		board = append(board, types.Entry{
			EmployeeID:  ident.EmployeeID,
			FullName:    ident.FullName,
			Directorate: ident.Directorate,
			Position:    ident.Position,
			Grade:       ident.Grade,
			MBTI:        ident.MBTI,
			DISC:        ident.DISC,
			Score:       scoring.MeanRounded(scores...),
		})
	}
	Rank(board)
	return finals, board
}

// Less reports whether a ranks ahead of b: higher score first, then employee
// id ascending.
func Less(a, b types.Entry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.EmployeeID < b.EmployeeID
}

// Rank sorts entries into leaderboard order and numbers them from 1.
func Rank(entries []types.Entry) {
	sort.SliceStable(entries, func(i, j int) bool { return Less(entries[i], entries[j]) })
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

// Summarize averages each domain's rates across employees, in reporting
// order. Domains without rows are omitted.
func Summarize(rows []scoring.DomainScore) []types.DomainSummary {
	rates := make(map[scoring.Domain][]scoring.Rate)
	employees := make(map[scoring.Domain]map[string]struct{})
	for _, r := range rows {
		rates[r.Domain] = append(rates[r.Domain], r.DomainRate)
		if employees[r.Domain] == nil {
			employees[r.Domain] = make(map[string]struct{})
		}
		employees[r.Domain][r.EmployeeID] = struct{}{}
	}

	var out []types.DomainSummary
	for _, d := range scoring.Domains() {
		if len(rates[d]) == 0 {
			continue
		}
		out = append(out, types.DomainSummary{
			DomainName: d.String(),
			MeanRate:   scoring.Mean(rates[d]...),
			Employees:  len(employees[d]),
		})
	}
	return out
}
