package content

import (
	"slices"

	"github.com/abhisek/skillpilot/internal/program"
	"github.com/abhisek/skillpilot/internal/skillgraph"
)

// Catalog is the immutable static content set: skill trees, programs and
// use cases. Build one with Load, LoadBuiltin or LoadDir.
type Catalog struct {
	version     string
	fingerprint string

	trees    map[string]*skillgraph.Graph
	programs map[string]*program.Program
	useCases map[string]UseCase

	treeOrder    []string
	programOrder []string
	useCaseOrder []string
}

// Version returns the highest content version across the loaded files.
func (c *Catalog) Version() string { return c.version }

// Fingerprint is the hex blake3 digest of the loaded files. Two catalogs
// with equal fingerprints were built from identical content.
func (c *Catalog) Fingerprint() string { return c.fingerprint }

// SkillTree returns the skill tree template with the given id.
func (c *Catalog) SkillTree(id string) (*skillgraph.Graph, bool) {
	g, ok := c.trees[id]
	return g, ok
}

// Program returns a copy of the program definition with the given id.
func (c *Catalog) Program(id string) (*program.Program, bool) {
	p, ok := c.programs[id]
	if !ok {
		return nil, false
	}
	return cloneProgram(p), true
}

// UseCase returns the use case with the given id.
func (c *Catalog) UseCase(id string) (UseCase, bool) {
	uc, ok := c.useCases[id]
	if !ok {
		return UseCase{}, false
	}
	return cloneUseCase(uc), true
}

// SkillTrees returns all skill trees in load order.
func (c *Catalog) SkillTrees() []*skillgraph.Graph {
	out := make([]*skillgraph.Graph, 0, len(c.treeOrder))
	for _, id := range c.treeOrder {
		out = append(out, c.trees[id])
	}
	return out
}

// Programs returns copies of all programs in load order.
func (c *Catalog) Programs() []*program.Program {
	out := make([]*program.Program, 0, len(c.programOrder))
	for _, id := range c.programOrder {
		out = append(out, cloneProgram(c.programs[id]))
	}
	return out
}

// UseCases returns all use cases in load order.
func (c *Catalog) UseCases() []UseCase {
	out := make([]UseCase, 0, len(c.useCaseOrder))
	for _, id := range c.useCaseOrder {
		out = append(out, cloneUseCase(c.useCases[id]))
	}
	return out
}

// UseCasesFor returns the use cases visible to a learner in the given
// domain: that domain's and the shared ones.
func (c *Catalog) UseCasesFor(d skillgraph.Domain) []UseCase {
	var out []UseCase
	for _, id := range c.useCaseOrder {
		uc := c.useCases[id]
		if uc.Domain == d || uc.Domain == skillgraph.DomainShared || uc.Domain == "" {
			out = append(out, cloneUseCase(uc))
		}
	}
	return out
}

func cloneProgram(p *program.Program) *program.Program {
	c := *p
	c.Weeks = make([]program.Week, len(p.Weeks))
	for i, w := range p.Weeks {
		w.Deliverables = slices.Clone(w.Deliverables)
		w.Rubric.Criteria = slices.Clone(w.Rubric.Criteria)
		c.Weeks[i] = w
	}
	return &c
}

func cloneUseCase(uc UseCase) UseCase {
	uc.RequiredSkills = slices.Clone(uc.RequiredSkills)
	uc.Cookbook = slices.Clone(uc.Cookbook)
	return uc
}
