package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/planner"
	"github.com/glorpus-work/wpm/pkg/version"
)

// NewPathCmd creates the path command.
func NewPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path PACKAGE [RANGE]",
		Short: "Print the directory of an installed package",
		Long: `Print the installation directory of the highest installed version of
PACKAGE that lies in RANGE, for example "[1.0, 2.0)". Without a range any
version is accepted.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			r := version.Any()
			if len(args) == 2 {
				var err error
				if r, err = version.ParseRange(args[1]); err != nil {
					return err
				}
			}
			return withSession(func(s *session) error {
				name := args[0]
				if pkg, err := planner.New(s.repo).ResolvePackage(name); err == nil {
					name = pkg.Name
				}
				dir, err := s.orch.FindInstalledPath(model.Dependency{Package: name, Range: r})
				if err != nil {
					return err
				}
				fmt.Println(dir)
				return nil
			})
		},
	}

	return cmd
}

// NewWhichCmd creates the which command.
func NewWhichCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "which FILE",
		Short: "Show the package a file belongs to",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			return withSession(func(s *session) error {
				ipv, err := s.orch.Which(path)
				if err != nil {
					return err
				}
				if jsonOutput(s.cfg) {
					return printJSON(os.Stdout, newInstalledEntry(s, ipv))
				}
				fmt.Println(ipv)
				return nil
			})
		},
	}

	return cmd
}

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check installed packages for missing dependencies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(func(s *session) error {
				p := stderrProgress(s.cfg.Settings.ProgressInterval)
				problems, err := s.orch.Check(cmd.Context(), p.newJob("Checking"))
				p.Done()
				if err != nil {
					return err
				}
				if len(problems) == 0 {
					PrintSuccess("All dependencies are installed")
					return nil
				}
				for _, pr := range problems {
					PrintWarning("%s depends on %s, which is not installed", pr.Installed, pr.Dependency)
				}
				return fmt.Errorf("%d unsatisfied dependencies", len(problems))
			})
		},
	}

	return cmd
}

// NewDetectCmd creates the detect command.
func NewDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect installed packages",
		Long: `Look for package installations that are not recorded yet and forget
recorded installations whose directory no longer exists.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(func(s *session) error {
				p := stderrProgress(s.cfg.Settings.ProgressInterval)
				err := s.orch.Refresh(cmd.Context(), p.newJob("Detecting packages"))
				p.Done()
				if err != nil {
					return err
				}
				PrintSuccess("%d package version(s) installed", len(s.repo.Installed()))
				return nil
			})
		},
	}

	return cmd
}
