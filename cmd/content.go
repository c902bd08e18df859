package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpilot/internal/content"
	"github.com/abhisek/skillpilot/internal/skillgraph"
	"github.com/abhisek/skillpilot/internal/ui/theme"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Browse and validate skill trees, programs and use cases",
}

var contentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List skill trees, programs and use cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, _ := cmd.Flags().GetString("domain")
		treeID, _ := cmd.Flags().GetString("tree")

		catalog, err := loadCatalog(cmd)
		if err != nil {
			return err
		}

		if treeID != "" {
			g, ok := catalog.SkillTree(treeID)
			if !ok {
				return fmt.Errorf("no skill tree %q", treeID)
			}
			printNodes(os.Stdout, g)
			return nil
		}

		fmt.Println(theme.Title.Render("Content " + catalog.Version()))

		fmt.Println(theme.Section.Render("Skill trees"))
		for _, g := range catalog.SkillTrees() {
			fmt.Printf("  %-20s  %-32s  %3d nodes\n", g.ID(), g.Title(), g.Len())
		}

		fmt.Println(theme.Section.Render("Programs"))
		for _, p := range catalog.Programs() {
			fmt.Printf("  %-20s  %-32s  %3d weeks\n", p.ID, truncate(p.Title, 32), len(p.Weeks))
		}

		useCases := catalog.UseCases()
		if domain != "" {
			useCases = catalog.UseCasesFor(skillgraph.Domain(domain))
		}
		fmt.Println(theme.Section.Render("Use cases"))
		for _, uc := range useCases {
			fmt.Printf("  %-20s  %-40s  %-10s  %-12s  %3dh\n",
				uc.ID, truncate(uc.Title, 40), uc.Domain, uc.Difficulty, uc.EstimatedHours)
		}
		fmt.Printf("\n%d use cases\n", len(useCases))
		return nil
	},
}

var contentValidateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Load and validate a content directory (default: --content or built-in)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			catalog *content.Catalog
			err     error
		)
		if len(args) == 1 {
			catalog, err = content.LoadDir(args[0])
		} else {
			catalog, err = loadCatalog(cmd)
		}
		if err != nil {
			fmt.Println(theme.Bad.Render("✗ invalid content"))
			return err
		}

		nodes := 0
		for _, g := range catalog.SkillTrees() {
			nodes += g.Len()
		}
		fmt.Println(theme.Good.Render("✓ content " + catalog.Version() + " is valid"))
		fmt.Printf("  %d skill trees (%d nodes), %d programs, %d use cases\n",
			len(catalog.SkillTrees()), nodes, len(catalog.Programs()), len(catalog.UseCases()))
		fmt.Println(theme.Muted.Render("  blake3 " + catalog.Fingerprint()))
		return nil
	},
}

// printNodes lists a tree's nodes in dependency order with the nodes each
// one unlocks, followed by its entry points and per-domain counts.
func printNodes(w io.Writer, g *skillgraph.Graph) {
	fmt.Fprintf(w, "%-24s  %-36s  %-10s  %-12s  %-32s  %s\n",
		"ID", "Label", "Domain", "Difficulty", "Depends on", "Unlocks")
	fmt.Fprintln(w, strings.Repeat("─", 150))

	for _, id := range g.TopologicalOrder() {
		n, _ := g.Node(id)
		domain := string(n.Domain)
		if domain == "" {
			domain = "-"
		}
		fmt.Fprintf(w, "%-24s  %-36s  %-10s  %-12s  %-32s  %s\n",
			n.ID, truncate(n.Label, 36), domain, n.Difficulty,
			truncate(strings.Join(n.Dependencies, ", "), 32), strings.Join(g.Dependents(id), ", "))
	}

	fmt.Fprintf(w, "\n%d skills in %s\n", g.Len(), g.Title())
	fmt.Fprintf(w, "Entry points: %s\n", strings.Join(g.Roots(), ", "))
	var counts []string
	for _, d := range []skillgraph.Domain{skillgraph.DomainShared, skillgraph.DomainOps, skillgraph.DomainMarketing} {
		if n := len(g.ByDomain(d)); n > 0 {
			counts = append(counts, fmt.Sprintf("%d %s", n, d))
		}
	}
	fmt.Fprintf(w, "Domains: %s\n", strings.Join(counts, ", "))
}

func init() {
	contentListCmd.Flags().String("domain", "", "Filter use cases by domain (ops or marketing)")
	contentListCmd.Flags().String("tree", "", "List the nodes of one skill tree in dependency order")

	contentCmd.AddCommand(contentListCmd)
	contentCmd.AddCommand(contentValidateCmd)
}
