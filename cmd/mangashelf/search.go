package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kerbaras/mangashelf/pkg/app/styles"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for manga",
	Long: `Search the selected source and print the matches. Use the ID with
"add --id" or "download" to pick an exact result.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		query := strings.Join(args, " ")
		results, err := env.controller.SearchManga(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if len(results) == 0 {
			fmt.Printf("No results for %q on %s.\n", query, env.controller.Source().Info().Name)
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		if limit > 0 && len(results) > limit {
			results = results[:limit]
		}

		t := newTable("#", "Name", "Source", "ID")
		for i, manga := range results {
			t.Row(strconv.Itoa(i+1), styles.Truncate(manga.Name, 58), manga.SourceID, manga.ID)
		}
		fmt.Println(t)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntP("limit", "n", 0, "Show at most this many results (0 for all)")

	rootCmd.AddCommand(searchCmd)
}
