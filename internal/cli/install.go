package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wpm/internal/logger"
	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/orchestrator"
)

// NewInstallCmd creates the add command.
func NewInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add PACKAGE[@VERSION]...",
		Aliases: []string{"install"},
		Short:   "Install packages",
		Long: `Install one or more packages from the synchronized repositories.
Packages may be given by full name (com.example.Editor) or by short name
(Editor). Without a version the newest one is installed. Missing
dependencies are installed first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, args)
		},
	}

	return cmd
}

func runInstall(cmd *cobra.Command, args []string) error {
	reqs, err := orchestrator.ParseRequests(args)
	if err != nil {
		return err
	}

	return withSession(func(s *session) error {
		p := stderrProgress(s.cfg.Settings.ProgressInterval)
		j := p.newJob("Installing")
		res, err := s.orch.Install(cmd.Context(), j, reqs)
		p.Done()

		if res != nil {
			for _, ipv := range res.AlreadyInstalled {
				PrintWarning("%s is already installed in %s", ipv, ipv.Directory)
			}
		}
		if handled, err := finishOperations(err); handled {
			return err
		}
		if len(res.Operations) == 0 {
			return nil
		}
		reportOperations(res.Operations)
		return nil
	})
}

// finishOperations maps the error of an executing command. It reports
// handled when the caller should return err as is.
func finishOperations(err error) (bool, error) {
	switch {
	case err == nil:
		return false, nil
	case stderrors.Is(err, orchestrator.ErrHandedOver):
		PrintSuccess("wpm is replacing itself, the remaining changes are applied in the background")
		return true, nil
	case stderrors.Is(err, errors.ErrCancelled):
		return true, fmt.Errorf("operation cancelled: %w", err)
	default:
		return true, err
	}
}

func reportOperations(ops []model.InstallOperation) {
	for _, op := range ops {
		PrintSuccess("%s", op)
	}
	logger.Debug("Operations completed", logger.Fields{"count": len(ops)})
}
