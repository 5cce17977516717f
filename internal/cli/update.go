package cli

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wpm/pkg/errors"
)

// NewUpdateCmd creates the update command.
func NewUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [PACKAGE...]",
		Short: "Update installed packages",
		Long: `Replace the installed versions of the given packages with the newest
available version. Without arguments every installed package that is known
to a repository is updated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *session) error {
				p := stderrProgress(s.cfg.Settings.ProgressInterval)
				ops, err := s.orch.Update(cmd.Context(), p.newJob("Updating"), args)
				p.Done()
				if stderrors.Is(err, errors.ErrUpToDate) {
					PrintSuccess("All packages are up-to-date")
					return nil
				}
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
