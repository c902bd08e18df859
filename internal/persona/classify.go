package persona

import (
	"slices"
	"strings"

	"github.com/abhisek/skillpilot/internal/skillgraph"
)

var (
	analystTools   = []string{"python", "sql"}
	opsRoleKeyword = []string{"ops", "chain", "supply"}
)

// Classify runs the classifier against the default variant table.
func Classify(in Intake) Result {
	return DefaultTable().Classify(in)
}

// Classify maps intake answers to a track, domain, persona pair and the
// content variant that governs the learner. It never fails: every branch has
// a default.
func (t Table) Classify(in Intake) Result {
	role := strings.ToLower(in.Role)

	r := Result{
		Track:  classifyTrack(in.Tools),
		Domain: classifyDomain(role),
	}

	cands := Candidates(r.Domain)
	first, second := cands[0].Score(in, role), cands[1].Score(in, role)
	if second > first {
		r.PrimaryPersona, r.SecondaryPersona = cands[1].Persona, cands[0].Persona
		r.PrimaryScore, r.SecondaryScore = second, first
	} else {
		r.PrimaryPersona, r.SecondaryPersona = cands[0].Persona, cands[1].Persona
		r.PrimaryScore, r.SecondaryScore = first, second
	}

	v := t.Lookup(r.Domain, r.PrimaryPersona)
	r.SkillTreeID = v.SkillTreeID
	r.ProgramID = v.ProgramID
	r.StartingUseCaseID = t.StartingUseCase(r.Domain)
	return r
}

func classifyTrack(tools []string) Track {
	for _, tool := range tools {
		if slices.Contains(analystTools, strings.ToLower(tool)) {
			return TrackAnalyst
		}
	}
	return TrackManager
}

func classifyDomain(lowerRole string) skillgraph.Domain {
	for _, kw := range opsRoleKeyword {
		if strings.Contains(lowerRole, kw) {
			return skillgraph.DomainOps
		}
	}
	return skillgraph.DomainMarketing
}

// anyIn reports whether any of have (case-insensitive) is in want.
func anyIn(have, want []string) bool {
	for _, h := range have {
		h = strings.ToLower(strings.TrimSpace(h))
		if slices.Contains(want, h) {
			return true
		}
	}
	return false
}
