package cli

import (
	"github.com/spf13/cobra"

	"github.com/glorpus-work/wpm/pkg/orchestrator"
)

// NewUninstallCmd creates the remove command.
func NewUninstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove PACKAGE[@VERSION]...",
		Aliases: []string{"rm", "uninstall"},
		Short:   "Remove installed packages",
		Long: `Remove installed package versions. The version may be omitted when
exactly one version of the package is installed. Packages that depend on
the removed versions are left alone; use "wpm check" to find them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := orchestrator.ParseRequests(args)
			if err != nil {
				return err
			}
			return withSession(func(s *session) error {
				p := stderrProgress(s.cfg.Settings.ProgressInterval)
				ops, err := s.orch.Remove(cmd.Context(), p.newJob("Removing"), reqs)
				p.Done()
				if handled, err := finishOperations(err); handled {
					return err
				}
				reportOperations(ops)
				return nil
			})
		},
	}

	return cmd
}
