package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wpm/internal/logger"
	"github.com/glorpus-work/wpm/pkg/repository"
)

// NewSyncCmd creates the sync command.
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Download the package lists of all enabled repositories",
		Long: `Download the repository documents of all enabled repositories and
replace the local package catalog with their content. When a package version
is offered by several repositories, the one with the highest priority wins.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(func(s *session) error {
				return runSync(cmd, s)
			})
		},
	}

	return cmd
}

func runSync(cmd *cobra.Command, s *session) error {
	repos := s.cfg.EnabledRepositories()
	if len(repos) == 0 {
		PrintWarning(`No repositories enabled, add one with "wpm repo add NAME URL"`)
		return nil
	}

	sources := make([]repository.Source, 0, len(repos))
	for _, r := range repos {
		sources = append(sources, repository.Source{Name: r.Name, URL: r.URL})
		logger.Debug("Synchronizing repository", logger.Fields{"name": r.Name, "url": r.URL, "priority": r.Priority})
	}

	p := stderrProgress(s.cfg.Settings.ProgressInterval)
	n, err := s.repo.Sync(cmd.Context(), sources, p.download())
	p.Done()
	if err != nil {
		return fmt.Errorf("failed to synchronize repositories: %w", err)
	}

	// The catalog was replaced, detected packages have to be registered again.
	err = s.orch.Refresh(cmd.Context(), p.newJob("Detecting packages"))
	p.Done()
	if err != nil {
		return err
	}

	PrintSuccess("%d package version(s) from %d repositories", n, len(sources))
	return nil
}
