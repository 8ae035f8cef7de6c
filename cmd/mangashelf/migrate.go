package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kerbaras/mangashelf/pkg/migration"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "List the sources your library comes from",
	Long: `List every source with manga in your library, to pick one to migrate
away from. --sort-by and --order are remembered for later runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		settings := env.controller.MigrationSortSettings()
		changed := false
		if cmd.Flags().Changed("sort-by") {
			value, _ := cmd.Flags().GetString("sort-by")
			if settings.SortBy, err = migration.ParseSortBy(value); err != nil {
				return err
			}
			changed = true
		}
		if cmd.Flags().Changed("order") {
			value, _ := cmd.Flags().GetString("order")
			if settings.SortOrder, err = migration.ParseSortOrder(value); err != nil {
				return err
			}
			changed = true
		}
		if changed {
			if err := env.controller.SetMigrationSortSettings(settings); err != nil {
				return err
			}
		}

		sources, err := env.controller.MigratableSources(cmd.Context())
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			fmt.Println("No sources to migrate.")
			return nil
		}

		t := newTable("Source", "Language", "Manga", "ID")
		for _, source := range sources {
			t.Row(source.Name, source.Lang, strconv.Itoa(source.MangaCount), source.ID)
		}

		fmt.Printf("🔀 Sorted by %s, %s\n", settings.SortBy, settings.SortOrder)
		fmt.Println(t)
		return nil
	},
}

func init() {
	migrateCmd.Flags().String("sort-by", "name", "Sort key: name or count")
	migrateCmd.Flags().String("order", "asc", "Sort order: asc or desc")

	rootCmd.AddCommand(migrateCmd)
}
