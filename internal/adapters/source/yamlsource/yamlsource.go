// Package yamlsource loads an HR data snapshot from a YAML file.
package yamlsource

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/okian/talentmatch/internal/adapters/source"
	"gopkg.in/yaml.v3"
)

type fileEmployee struct {
	ID           string `yaml:"id"`
	FullName     string `yaml:"fullname"`
	Directorate  string `yaml:"directorate"`
	Position     string `yaml:"position"`
	Grade        string `yaml:"grade"`
	Education    string `yaml:"education"`
	TenureMonths int    `yaml:"tenure_months"`
}

type fileProfile struct {
	EmployeeID string   `yaml:"employee_id"`
	IQ         *float64 `yaml:"iq"`
	MBTI       string   `yaml:"mbti"`
	DISC       string   `yaml:"disc"`
}

type fileCompetency struct {
	EmployeeID string  `yaml:"employee_id"`
	Pillar     string  `yaml:"pillar"`
	Year       int     `yaml:"year"`
	Score      float64 `yaml:"score"`
}

type fileSnapshot struct {
	Employees    []fileEmployee      `yaml:"employees"`
	Profiles     []fileProfile       `yaml:"psych_profiles"`
	Competencies []fileCompetency    `yaml:"competencies"`
	Strengths    map[string][]string `yaml:"strengths"`
}

// Load reads the snapshot at path.
func Load(path string) (*source.Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, source.Wrap(source.DatasetEmployees, fmt.Errorf("read snapshot: %w", err))
	}
	return Parse(bytes.NewReader(b))
}

// Parse decodes a snapshot document. Unknown keys are rejected so typos in
// hand-written fixtures surface early. Education context is derived from
// employees that declare an education level.
func Parse(r io.Reader) (*source.Snapshot, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f fileSnapshot
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, source.Wrap(source.DatasetEmployees, fmt.Errorf("decode snapshot: %w", err))
	}

	snap := &source.Snapshot{}
	for _, e := range f.Employees {
		snap.Employees = append(snap.Employees, source.Employee{
			ID:           e.ID,
			FullName:     e.FullName,
			Directorate:  e.Directorate,
			Position:     e.Position,
			Grade:        e.Grade,
			Education:    e.Education,
			TenureMonths: e.TenureMonths,
		})
		if e.Education != "" {
			snap.Education = append(snap.Education, source.EducationContext{
				EmployeeID:    e.ID,
				EducationName: e.Education,
				TenureMonths:  e.TenureMonths,
			})
		}
	}
	for _, p := range f.Profiles {
		snap.Profiles = append(snap.Profiles, source.PsychProfile{
			EmployeeID: p.EmployeeID,
			IQ:         p.IQ,
			MBTI:       p.MBTI,
			DISC:       p.DISC,
		})
	}
	for _, c := range f.Competencies {
		snap.Competencies = append(snap.Competencies, source.CompetencyRecord{
			EmployeeID: c.EmployeeID,
			PillarCode: c.Pillar,
			Year:       c.Year,
			Score:      c.Score,
		})
	}
	// Map iteration order is random; follow the employee order, then any
	// ids that are not on the roster.
	seen := make(map[string]bool, len(f.Strengths))
	appendThemes := func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		for _, theme := range f.Strengths[id] {
			snap.Strengths = append(snap.Strengths, source.Strength{EmployeeID: id, Theme: theme})
		}
	}
	for _, e := range f.Employees {
		if _, ok := f.Strengths[e.ID]; ok {
			appendThemes(e.ID)
		}
	}
	for _, id := range sortedKeys(f.Strengths) {
		appendThemes(id)
	}
	return snap, nil
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
