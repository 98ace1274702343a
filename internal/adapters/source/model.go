package source

import "github.com/okian/talentmatch/internal/domain/model"

// Row aliases keep adapter signatures short.
type (
	Employee         = model.Employee
	PsychProfile     = model.PsychProfile
	CompetencyRecord = model.CompetencyRecord
	Strength         = model.Strength
	EducationContext = model.EducationContext
)
