package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wpm/pkg/config"
)

// NewRepoCmd creates the repo command with subcommands.
func NewRepoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage repositories",
		Long:  "Add, remove, enable, disable and list package repositories",
	}

	cmd.AddCommand(
		newRepoAddCmd(),
		newRepoRemoveCmd(),
		newRepoEnableCmd(true),
		newRepoEnableCmd(false),
		newRepoListCmd(),
	)

	return cmd
}

func newRepoAddCmd() *cobra.Command {
	var priority uint

	cmd := &cobra.Command{
		Use:   "add NAME URL",
		Short: "Add a repository",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return updateConfig(func(cfg *config.Config) error {
				if err := cfg.AddRepository(args[0], args[1], priority); err != nil {
					return err
				}
				PrintSuccess(`Repository %s added, run "wpm sync" to load it`, args[0])
				return nil
			})
		},
	}

	cmd.Flags().UintVarP(&priority, "priority", "p", 0, "Repository priority, higher wins")

	return cmd
}

func newRepoRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Remove a repository",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return updateConfig(func(cfg *config.Config) error {
				if err := cfg.RemoveRepository(args[0]); err != nil {
					return err
				}
				PrintSuccess("Repository %s removed", args[0])
				return nil
			})
		},
	}
}

func newRepoEnableCmd(enabled bool) *cobra.Command {
	use, short := "enable NAME", "Enable a repository"
	if !enabled {
		use, short = "disable NAME", "Disable a repository"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return updateConfig(func(cfg *config.Config) error {
				return cfg.EnableRepository(args[0], enabled)
			})
		},
	}
}

func newRepoListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List repositories",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if jsonOutput(cfg) {
				return printJSON(os.Stdout, cfg.Repositories)
			}
			if len(cfg.Repositories) == 0 {
				PrintWarning("No repositories configured")
				return nil
			}
			rows := make([][]string, 0, len(cfg.Repositories))
			for _, r := range cfg.Repositories {
				status := "enabled"
				if !r.Enabled {
					status = "disabled"
				}
				rows = append(rows, []string{r.Name, strconv.FormatUint(uint64(r.Priority), 10), status, r.URL})
			}
			printTable(os.Stdout, []string{"NAME", "PRIORITY", "STATUS", "URL"}, rows)
			return nil
		},
	}
}

// updateConfig loads the configuration file, applies fn and saves it.
func updateConfig(fn func(cfg *config.Config) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := fn(cfg); err != nil {
		return err
	}
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}
	if err := cfg.SaveConfig(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}
