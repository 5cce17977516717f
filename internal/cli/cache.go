package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wpm/pkg/cache"
)

// NewCacheCmd creates the cache command with subcommands.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the download cache",
		Long:  "Show or clean downloaded repository documents and package artifacts",
	}

	cmd.AddCommand(newCacheCleanCmd(), newCacheInfoCmd())

	return cmd
}

func newCacheCleanCmd() *cobra.Command {
	var opts cache.CleanOptions

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached files",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			res, err := cache.NewManager(cfg.Settings.CacheDir).Clean(opts)
			if err != nil {
				return err
			}
			if res.TotalFreed == 0 {
				PrintSuccess("No files were removed from the cache")
				return nil
			}
			PrintSuccess("Freed %s", formatBytes(res.TotalFreed))
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Repositories, "repositories", false, "Only remove repository documents")
	cmd.Flags().BoolVar(&opts.Downloads, "downloads", false, "Only remove package artifacts")

	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache usage",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			info, err := cache.NewManager(cfg.Settings.CacheDir).Info()
			if err != nil {
				return err
			}
			if jsonOutput(cfg) {
				return printJSON(os.Stdout, info)
			}
			PrintLabelValue("Directory", info.Directory)
			PrintLabelValue("Total", formatBytes(info.TotalSize))
			PrintLabelValue("Repositories", fmt.Sprintf("%s (%d files)", formatBytes(info.RepositoriesSize), info.RepositoriesFiles))
			PrintLabelValue("Downloads", fmt.Sprintf("%s (%d files)", formatBytes(info.DownloadsSize), info.DownloadsFiles))
			return nil
		},
	}
}
