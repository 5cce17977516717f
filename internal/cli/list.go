package cli

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wpm/pkg/model"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var nameFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed packages",
		Long: `List all installed package versions from the local database.

Use --name to filter packages by name.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withSession(func(s *session) error {
				return runList(s, nameFilter)
			})
		},
	}

	cmd.Flags().StringVar(&nameFilter, "name", "", "Filter packages by name (partial match)")

	return cmd
}

type installedEntry struct {
	Package     string    `json:"package"`
	Title       string    `json:"title,omitempty"`
	Version     string    `json:"version"`
	Directory   string    `json:"directory,omitempty"`
	Detection   string    `json:"detection,omitempty"`
	InstalledAt time.Time `json:"installed_at,omitzero"`
}

func runList(s *session, nameFilter string) error {
	var entries []installedEntry
	for _, ipv := range s.repo.Installed() {
		if nameFilter != "" && !strings.Contains(strings.ToLower(ipv.Package), strings.ToLower(nameFilter)) {
			continue
		}
		entries = append(entries, newInstalledEntry(s, ipv))
	}

	if jsonOutput(s.cfg) {
		return printJSON(os.Stdout, entries)
	}
	if len(entries) == 0 {
		PrintWarning("No packages installed")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Package, e.Version, e.Detection, e.Directory})
	}
	printTable(os.Stdout, []string{"PACKAGE", "VERSION", "SOURCE", "DIRECTORY"}, rows)
	return nil
}

func newInstalledEntry(s *session, ipv *model.InstalledPackageVersion) installedEntry {
	e := installedEntry{
		Package:     ipv.Package,
		Version:     ipv.Version.String(),
		Directory:   ipv.Directory,
		Detection:   ipv.Detection,
		InstalledAt: ipv.InstalledAt,
	}
	if pkg, err := s.repo.FindPackage(ipv.Package); err == nil && pkg != nil {
		e.Title = pkg.Title
	}
	return e
}
