// Package learner holds the per-user profile and the operations that move it
// through onboarding, skill completion and the program journey.
package learner

import (
	"maps"
	"slices"
	"time"

	"github.com/abhisek/skillpilot/internal/persona"
	"github.com/abhisek/skillpilot/internal/program"
	"github.com/abhisek/skillpilot/internal/skillgraph"
)

const (
	// InitialMastery is the mastery score assigned at onboarding.
	InitialMastery = 70

	// DefaultCompletionDelta is the mastery gain for a completed use case
	// when the caller has no better estimate.
	DefaultCompletionDelta = 10

	// ArtifactType tags portfolio records produced by completed pilots.
	ArtifactType = "Pilot Artifact"
)

// Artifact is an immutable portfolio record.
type Artifact struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Type       string    `json:"type"`
	UseCaseID  string    `json:"useCaseId"`
	PreviewURL string    `json:"previewUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Profile is a learner's full state. The embedded classification result is
// derived from Intake and refreshed by Reclassify.
type Profile struct {
	UserID  string         `json:"userId"`
	Intake  persona.Intake `json:"intake"`
	// IsAdmin opens every node of the active tree.
	IsAdmin bool           `json:"isAdmin,omitempty"`
	persona.Result

	MasteryScore    int                          `json:"masteryScore"`
	VerifiedSkills  []string                     `json:"verifiedSkills"`
	SkillStatuses   map[string]skillgraph.Status `json:"skillStatuses"`
	Artifacts       []Artifact                   `json:"artifacts"`
	ProgramProgress *program.Progress            `json:"programProgress,omitempty"`

	// Preview profiles are built for admins and never persisted.
	Preview bool `json:"preview,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	out := *p
	out.Intake.Tools = slices.Clone(p.Intake.Tools)
	out.Intake.Decisions = slices.Clone(p.Intake.Decisions)
	out.Intake.KPIs = slices.Clone(p.Intake.KPIs)
	out.VerifiedSkills = slices.Clone(p.VerifiedSkills)
	out.SkillStatuses = maps.Clone(p.SkillStatuses)
	out.Artifacts = slices.Clone(p.Artifacts)
	out.ProgramProgress = p.ProgramProgress.Clone()
	return &out
}

// HasVerified reports whether the skill has been verified by a completed
// use case.
func (p *Profile) HasVerified(skillID string) bool {
	_, found := slices.BinarySearch(p.VerifiedSkills, skillID)
	return found
}

// unionSorted merges ids into a sorted, duplicate-free set.
func unionSorted(set []string, ids []string) []string {
	out := slices.Clone(set)
	for _, id := range ids {
		if i, found := slices.BinarySearch(out, id); !found {
			out = slices.Insert(out, i, id)
		}
	}
	return out
}

func clampMastery(v int) int {
	return min(max(v, 0), 100)
}
