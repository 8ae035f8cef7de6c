package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kerbaras/mangashelf/pkg/config"
)

var rootDirCmd = &cobra.Command{
	Use:   "root-dir",
	Short: "Print the data directory",
	Long:  "Print where the library database, downloads, logs and config.toml live",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		fmt.Println(cfg.RootDir)
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			fmt.Printf("  config:    %s\n", filepath.Join(cfg.RootDir, config.FileName))
			fmt.Printf("  database:  %s\n", cfg.DatabasePath())
			fmt.Printf("  downloads: %s\n", cfg.DownloadDir)
			fmt.Printf("  logs:      %s\n", cfg.LogPath())
		}
		return nil
	},
}

func init() {
	rootDirCmd.Flags().BoolP("verbose", "v", false, "Also print the files inside it")

	rootCmd.AddCommand(rootDirCmd)
}
