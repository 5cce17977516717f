package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wpm/pkg/catalog"
	"github.com/glorpus-work/wpm/pkg/planner"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [QUERY...]",
		Short: "Search for packages",
		Long: `Search the synchronized repositories using fuzzy matching on package
names, titles and descriptions. Every word of the query has to match.
Results are sorted by relevance (best matches first).`,
		RunE: func(_ *cobra.Command, args []string) error {
			return withSession(func(s *session) error {
				return runSearch(s, strings.Join(args, " "), limit)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", DefaultSearchLimit, "Maximum number of results (0 = unlimited)")

	return cmd
}

type searchEntry struct {
	Package     string `json:"package"`
	Title       string `json:"title"`
	Version     string `json:"version,omitempty"`
	Installed   bool   `json:"installed"`
	Description string `json:"description,omitempty"`
}

func runSearch(s *session, query string, limit int) error {
	pkgs, err := s.repo.Packages()
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	found := catalog.Search(pkgs, query)
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}

	p := planner.New(s.repo)
	entries := make([]searchEntry, 0, len(found))
	for _, pkg := range found {
		e := searchEntry{
			Package:     pkg.Name,
			Title:       pkg.GetTitle(),
			Description: pkg.Description,
		}
		if pv, err := p.NewestVersion(pkg.Name); err == nil {
			e.Version = pv.Version.String()
		}
		for _, ipv := range s.repo.Installed() {
			if ipv.Package == pkg.Name {
				e.Installed = true
				break
			}
		}
		entries = append(entries, e)
	}

	if jsonOutput(s.cfg) {
		return printJSON(os.Stdout, entries)
	}
	if len(entries) == 0 {
		PrintWarning("No packages found matching '%s'", query)
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		mark := ""
		if e.Installed {
			mark = "*"
		}
		rows = append(rows, []string{e.Package + mark, e.Title, e.Version, truncate(e.Description, MaxDescriptionLength)})
	}
	printTable(os.Stdout, []string{"PACKAGE", "TITLE", "VERSION", "DESCRIPTION"}, rows)
	fmt.Printf("\n%d package(s) found, * marks installed packages\n", len(entries))
	return nil
}
