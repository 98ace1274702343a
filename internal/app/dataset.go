package service

import (
	"fmt"
	"sort"

	"github.com/okian/talentmatch/internal/domain/model"
	"github.com/okian/talentmatch/internal/domain/scoring"
)

// rawData is everything fetched from the source for one run.
type rawData struct {
	employees    []model.Employee
	profiles     []model.PsychProfile
	competencies []model.CompetencyRecord
	strengths    []model.Strength
	education    []model.EducationContext
}

// dataset is rawData reshaped per employee, ordered by employee id.
type dataset struct {
	inputs     []scoring.Input
	identities map[string]model.Identity
	roster     map[string]struct{}
}

// fallbackRoster derives a roster from the distinct competency record ids,
// named "Employee N" in id order.
func fallbackRoster(records []model.CompetencyRecord) []model.Employee {
	seen := make(map[string]struct{}, len(records))
	var ids []string
	for _, r := range records {
		if r.EmployeeID == "" {
			continue
		}
		if _, ok := seen[r.EmployeeID]; ok {
			continue
		}
		seen[r.EmployeeID] = struct{}{}
		ids = append(ids, r.EmployeeID)
	}
	sort.Strings(ids)

	out := make([]model.Employee, len(ids))
	for i, id := range ids {
		out[i] = model.Employee{ID: id, FullName: fmt.Sprintf("Employee %d", i+1)}
	}
	return out
}

type pillarSum struct {
	sum float64
	n   int
}

func (p pillarSum) mean() *float64 {
	if p.n == 0 {
		return nil
	}
	v := p.sum / float64(p.n)
	return &v
}

// competencyInputs collapses yearly pillar records: the overall average over
// all records, plus the per-pillar means of GDR and CEX.
func competencyInputs(records []model.CompetencyRecord) map[string]*scoring.CompetencyInput {
	all := make(map[string]*pillarSum)
	gdr := make(map[string]*pillarSum)
	cex := make(map[string]*pillarSum)
	add := func(m map[string]*pillarSum, id string, v float64) {
		p, ok := m[id]
		if !ok {
			p = &pillarSum{}
			m[id] = p
		}
		p.sum += v
		p.n++
	}
	for _, r := range records {
		add(all, r.EmployeeID, r.Score)
		switch r.PillarCode {
		case scoring.PillarGDR:
			add(gdr, r.EmployeeID, r.Score)
		case scoring.PillarCEX:
			add(cex, r.EmployeeID, r.Score)
		}
	}

	out := make(map[string]*scoring.CompetencyInput, len(all))
	for id, p := range all {
		in := &scoring.CompetencyInput{AvgPillarScore: *p.mean()}
		if g, ok := gdr[id]; ok {
			in.GDR = g.mean()
		}
		if c, ok := cex[id]; ok {
			in.CEX = c.mean()
		}
		out[id] = in
	}
	return out
}

// strengthSets returns the distinct themes per employee in first-seen order.
func strengthSets(rows []model.Strength) map[string][]string {
	seen := make(map[string]map[string]struct{})
	out := make(map[string][]string)
	for _, s := range rows {
		if s.Theme == "" {
			continue
		}
		if seen[s.EmployeeID] == nil {
			seen[s.EmployeeID] = make(map[string]struct{})
		}
		if _, ok := seen[s.EmployeeID][s.Theme]; ok {
			continue
		}
		seen[s.EmployeeID][s.Theme] = struct{}{}
		out[s.EmployeeID] = append(out[s.EmployeeID], s.Theme)
	}
	return out
}

// buildDataset joins the raw rows onto the roster. Rows of employees outside
// the roster are ignored. For duplicated one-to-one rows the first wins.
func buildDataset(raw rawData, rosterFallback bool) (dataset, bool) {
	roster := raw.employees
	if len(roster) == 0 && rosterFallback {
		roster = fallbackRoster(raw.competencies)
	}

	byID := make(map[string]model.Employee, len(roster))
	ids := make([]string, 0, len(roster))
	for _, e := range roster {
		if e.ID == "" {
			continue
		}
		if _, ok := byID[e.ID]; ok {
			continue
		}
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}
	if len(ids) == 0 {
		return dataset{}, false
	}
	sort.Strings(ids)

	profiles := make(map[string]model.PsychProfile, len(raw.profiles))
	for _, p := range raw.profiles {
		if _, ok := profiles[p.EmployeeID]; !ok {
			profiles[p.EmployeeID] = p
		}
	}
	contexts := make(map[string]model.EducationContext, len(raw.education))
	for _, c := range raw.education {
		if _, ok := contexts[c.EmployeeID]; !ok {
			contexts[c.EmployeeID] = c
		}
	}
	competencies := competencyInputs(raw.competencies)
	strengths := strengthSets(raw.strengths)

	ds := dataset{
		inputs:     make([]scoring.Input, 0, len(ids)),
		identities: make(map[string]model.Identity, len(ids)),
		roster:     make(map[string]struct{}, len(ids)),
	}
	for _, id := range ids {
		e := byID[id]
		p, hasProfile := profiles[id]

		in := scoring.Input{
			EmployeeID: id,
			Competency: competencies[id],
			Strengths:  strengths[id],
			HasProfile: hasProfile,
			IQ:         p.IQ,
		}
		if c, ok := contexts[id]; ok {
			in.Context = &scoring.ContextInput{Education: c.EducationName, TenureMonths: c.TenureMonths}
		}
		ds.inputs = append(ds.inputs, in)

		ds.identities[id] = model.Identity{
			EmployeeID:  id,
			FullName:    e.FullName,
			Directorate: e.Directorate,
			Position:    e.Position,
			Grade:       e.Grade,
			MBTI:        p.MBTI,
			DISC:        p.DISC,
		}
		ds.roster[id] = struct{}{}
	}
	return ds, true
}
