package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/orchestrator"
	"github.com/glorpus-work/wpm/pkg/planner"
)

// NewInfoCmd creates the info command.
func NewInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info PACKAGE[@VERSION]",
		Short: "Show package details and dependencies",
		Long: `Show the details of a package, its available and installed versions and
the dependency tree of the selected version (the newest one by default).`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			req, err := orchestrator.ParseRequest(args[0])
			if err != nil {
				return err
			}
			return withSession(func(s *session) error {
				return runInfo(s, req)
			})
		},
	}

	return cmd
}

type infoOutput struct {
	Package      *model.Package                   `json:"package"`
	Versions     []string                         `json:"versions"`
	Installed    []*model.InstalledPackageVersion `json:"installed,omitempty"`
	Selected     *model.PackageVersion            `json:"selected,omitempty"`
	Dependencies []*orchestrator.DependencyNode   `json:"dependencies,omitempty"`
}

func runInfo(s *session, req orchestrator.Request) error {
	p := planner.New(s.repo)
	pkg, err := p.ResolvePackage(req.Package)
	if err != nil {
		return err
	}
	versions, err := s.repo.PackageVersions(pkg.Name)
	if err != nil {
		return err
	}

	out := infoOutput{Package: pkg}
	for _, pv := range versions {
		out.Versions = append(out.Versions, pv.Version.String())
	}
	for _, ipv := range s.repo.Installed() {
		if ipv.Package == pkg.Name {
			out.Installed = append(out.Installed, ipv)
		}
	}
	if len(versions) > 0 || req.Version != "" {
		if out.Selected, err = p.ResolveVersion(pkg.Name, req.Version); err != nil {
			return err
		}
		if out.Dependencies, err = s.orch.DependencyTree(out.Selected); err != nil {
			return err
		}
	}

	if jsonOutput(s.cfg) {
		return printJSON(os.Stdout, out)
	}

	PrintSection(pkg.GetTitle())
	PrintLabelValue("Name", pkg.Name)
	PrintLabelValue("Description", pkg.Description)
	PrintLabelValue("Homepage", pkg.URL)
	PrintLabelValue("License", pkg.License)
	PrintLabelValue("Categories", strings.Join(pkg.Categories, ", "))
	PrintLabelValue("Versions", strings.Join(out.Versions, ", "))
	for _, ipv := range out.Installed {
		PrintLabelValue("Installed", fmt.Sprintf("%s in %s", ipv.Version, ipv.Directory))
	}

	if out.Selected != nil {
		fmt.Println()
		PrintSection(fmt.Sprintf("Dependencies of %s", out.Selected))
		if len(out.Dependencies) == 0 {
			fmt.Println("none")
		}
		printTree(os.Stdout, out.Dependencies, "")
	}
	return nil
}

func printTree(w io.Writer, nodes []*orchestrator.DependencyNode, prefix string) {
	for i, n := range nodes {
		branch, next := "├─ ", "│  "
		if i == len(nodes)-1 {
			branch, next = "└─ ", "   "
		}
		_, _ = fmt.Fprintf(w, "%s%s%s\n", prefix, branch, describeNode(n))
		printTree(w, n.Children, prefix+next)
	}
}

func describeNode(n *orchestrator.DependencyNode) string {
	switch n.Status {
	case orchestrator.StatusInstalled:
		return fmt.Sprintf("%s: %s installed", n.Dependency, n.Version)
	case orchestrator.StatusInstall:
		return fmt.Sprintf("%s: %s will be installed", n.Dependency, n.Version)
	default:
		return fmt.Sprintf("%s: missing", n.Dependency)
	}
}
