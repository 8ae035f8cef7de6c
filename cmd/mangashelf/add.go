package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kerbaras/mangashelf/pkg/data"
)

var addCmd = &cobra.Command{
	Use:   "add [manga-name]",
	Short: "Add a manga to your library",
	Long:  "Search for a manga and add it to your library (downloads metadata only)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		query := strings.Join(args, " ")
		byID, _ := cmd.Flags().GetBool("id")

		var manga *data.Manga
		if byID {
			manga, err = env.controller.GetManga(ctx, query)
			if err != nil {
				return fmt.Errorf("failed to fetch manga: %w", err)
			}
		} else {
			fmt.Printf("🔍 Searching for '%s'...\n", query)
			results, err := env.controller.SearchManga(ctx, query)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			if len(results) == 0 {
				fmt.Println("❌ No results found.")
				return nil
			}

			// Take the first result
			manga = results[0]
			fmt.Printf("✅ Found: %s (ID: %s)\n", manga.Name, manga.ID)
		}

		if err := env.controller.AddMangaToLibrary(ctx, manga); err != nil {
			return err
		}

		chapters, err := env.controller.LibraryChapters(manga.ID)
		if err != nil {
			return err
		}

		fmt.Printf("✅ Added '%s' to library with %d chapters\n", manga.Name, len(chapters))
		fmt.Printf("💡 To download chapters, use: mangashelf download \"%s\" --language en\n", manga.Name)
		return nil
	},
}

func init() {
	addCmd.Flags().Bool("id", false, "Treat the argument as a source manga ID")

	rootCmd.AddCommand(addCmd)
}
