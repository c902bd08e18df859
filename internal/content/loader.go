package content

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/skillpilot/internal/persona"
	"github.com/abhisek/skillpilot/internal/program"
	"github.com/abhisek/skillpilot/internal/skillgraph"
)

//go:embed builtin/*.yaml
var builtinContent embed.FS

// SupportedMajor is the content format major version this build reads.
const SupportedMajor = "v1"

// file is the on-disk shape of one content YAML document.
type file struct {
	Version    string            `yaml:"version"`
	SkillTrees []treeDef         `yaml:"skillTrees"`
	Programs   []program.Program `yaml:"programs"`
	UseCases   []UseCase         `yaml:"useCases"`
}

type treeDef struct {
	ID    string            `yaml:"id"`
	Title string            `yaml:"title"`
	Nodes []skillgraph.Node `yaml:"nodes"`
}

// LoadBuiltin loads the content embedded in the binary and checks it
// against the default persona table.
func LoadBuiltin() (*Catalog, error) {
	sub, err := fs.Sub(builtinContent, "builtin")
	if err != nil {
		return nil, fmt.Errorf("opening built-in content: %w", err)
	}
	return LoadWithTable(sub, persona.DefaultTable())
}

// LoadDir loads every *.yaml file in dir.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content dir %s is not a directory", dir)
	}
	return LoadWithTable(os.DirFS(dir), persona.DefaultTable())
}

// LoadWithTable loads content from fsys and additionally checks that every
// variant and starting use case in table resolves.
func LoadWithTable(fsys fs.FS, table persona.Table) (*Catalog, error) {
	c, err := Load(fsys)
	if err != nil {
		return nil, err
	}
	if err := c.CheckVariants(table); err != nil {
		return nil, err
	}
	return c, nil
}

// Load parses and validates every *.yaml file at the root of fsys. All
// files are merged into one catalog; ids must be unique across files.
func Load(fsys fs.FS) (*Catalog, error) {
	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("listing content files: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no content files found")
	}
	sort.Strings(names)

	c := &Catalog{
		trees:    make(map[string]*skillgraph.Graph),
		programs: make(map[string]*program.Program),
		useCases: make(map[string]UseCase),
	}

	// Fingerprint covers file names and bytes in sorted order.
	hasher := blake3.New()
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		_, _ = hasher.WriteString(path.Base(name))
		_, _ = hasher.Write([]byte{0})
		_, _ = hasher.Write(data)

		var f file
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		if err := c.add(path.Base(name), &f); err != nil {
			return nil, err
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	c.fingerprint = fmt.Sprintf("%x", hasher.Sum(nil))
	return c, nil
}

func (c *Catalog) add(name string, f *file) error {
	if !semver.IsValid(f.Version) {
		return fmt.Errorf("%s: invalid content version %q", name, f.Version)
	}
	if major := semver.Major(f.Version); major != SupportedMajor {
		return fmt.Errorf("%s: content version %s not supported (want %s.x)", name, f.Version, SupportedMajor)
	}
	if c.version == "" || semver.Compare(f.Version, c.version) > 0 {
		c.version = f.Version
	}

	for _, td := range f.SkillTrees {
		if _, dup := c.trees[td.ID]; dup || td.ID == "" {
			return fmt.Errorf("%s: duplicate or empty skill tree id %q", name, td.ID)
		}
		g, err := skillgraph.NewGraph(td.ID, td.Title, td.Nodes)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		c.trees[td.ID] = g
		c.treeOrder = append(c.treeOrder, td.ID)
	}

	for i := range f.Programs {
		p := f.Programs[i]
		if _, dup := c.programs[p.ID]; dup {
			return fmt.Errorf("%s: duplicate program id %q", name, p.ID)
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		c.programs[p.ID] = &p
		c.programOrder = append(c.programOrder, p.ID)
	}

	for _, uc := range f.UseCases {
		if _, dup := c.useCases[uc.ID]; dup || uc.ID == "" {
			return fmt.Errorf("%s: duplicate or empty use case id %q", name, uc.ID)
		}
		c.useCases[uc.ID] = uc
		c.useCaseOrder = append(c.useCaseOrder, uc.ID)
	}
	return nil
}

// validate runs the cross-file checks.
func (c *Catalog) validate() error {
	var errs []string

	for _, id := range c.treeOrder {
		errs = append(errs, domainReachability(c.trees[id])...)
	}

	for _, id := range c.useCaseOrder {
		uc := c.useCases[id]
		if len(uc.RequiredSkills) == 0 {
			errs = append(errs, fmt.Sprintf("use case %q requires no skills", id))
		}
		for _, tid := range c.treeOrder {
			for _, sid := range uc.RequiredSkills {
				if !c.trees[tid].Has(sid) {
					errs = append(errs, fmt.Sprintf("use case %q requires skill %q missing from tree %q", id, sid, tid))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("content validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// domainReachability rejects dependency edges that can never be satisfied:
// a node can only depend on nodes that are visible whenever it is.
func domainReachability(g *skillgraph.Graph) []string {
	var errs []string
	for _, n := range g.Nodes() {
		for _, depID := range n.Dependencies {
			dep, _ := g.Node(depID)
			if dep.Domain == "" || dep.Domain == skillgraph.DomainShared || dep.Domain == n.Domain {
				continue
			}
			errs = append(errs, fmt.Sprintf("tree %q: node %q (%s) depends on %q from domain %s",
				g.ID(), n.ID, domainLabel(n.Domain), depID, dep.Domain))
		}
	}
	return errs
}

func domainLabel(d skillgraph.Domain) string {
	if d == "" {
		return "untagged"
	}
	return string(d)
}

// CheckVariants verifies that every variant and starting use case named by
// table exists in the catalog.
func (c *Catalog) CheckVariants(table persona.Table) error {
	var errs []string
	check := func(v persona.Variant, label string) {
		if _, ok := c.trees[v.SkillTreeID]; !ok {
			errs = append(errs, fmt.Sprintf("%s: unknown skill tree %q", label, v.SkillTreeID))
		}
		if _, ok := c.programs[v.ProgramID]; !ok {
			errs = append(errs, fmt.Sprintf("%s: unknown program %q", label, v.ProgramID))
		}
	}
	for _, e := range table.Entries() {
		check(e.Variant, fmt.Sprintf("variant %s/%s", e.Domain, e.Persona))
	}
	check(table.Fallback, "fallback variant")

	domains := make([]string, 0, len(table.StartingUseCases))
	for d := range table.StartingUseCases {
		domains = append(domains, string(d))
	}
	sort.Strings(domains)
	for _, d := range domains {
		for _, id := range table.StartingUseCases[skillgraph.Domain(d)] {
			if _, ok := c.useCases[id]; !ok {
				errs = append(errs, fmt.Sprintf("starting use case %q for %s not found", id, d))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("variant table validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
