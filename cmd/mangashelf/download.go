package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kerbaras/mangashelf/pkg/data"
	"github.com/kerbaras/mangashelf/pkg/services"
)

var downloadCmd = &cobra.Command{
	Use:   "download [manga-name or manga-id]",
	Short: "Download manga chapters",
	Long:  "Download chapters of a manga from your library or by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		language, _ := cmd.Flags().GetString("language")
		chapters, _ := cmd.Flags().GetString("chapters")

		manga, err := resolveManga(cmd, env, args[0])
		if err != nil {
			return err
		}

		if chapters != "" {
			fmt.Printf("📥 Downloading chapters %s (language: %s)\n", chapters, language)
		} else {
			fmt.Printf("📥 Downloading all chapters (language: %s)\n", language)
		}

		go func() {
			for progress := range env.controller.GetProgressChannel() {
				if progress.ChapterNumber == "" || progress.Status == services.ProgressComplete {
					continue
				}
				if progress.TotalPages > 0 {
					fmt.Printf("  Chapter %s: %d/%d pages\n", progress.ChapterNumber, progress.CurrentPage, progress.TotalPages)
				} else {
					fmt.Printf("  Chapter %s: %s\n", progress.ChapterNumber, progress.Status)
				}
			}
		}()

		err = env.controller.DownloadManga(cmd.Context(), manga, services.DownloadOptions{
			Language:     language,
			ChapterRange: chapters,
		})
		if err != nil {
			return fmt.Errorf("download failed: %w", err)
		}

		fmt.Printf("\n✅ Download complete! Files are in %s\n", env.controller.GetDownloadDirectory())
		fmt.Printf("💡 Read it with 'mangashelf' or export it with: mangashelf export \"%s\"\n", manga.Name)
		return nil
	},
}

// resolveManga finds a manga in the library by name or ID, or fetches it
// from the source and adds it.
func resolveManga(cmd *cobra.Command, env *environment, identifier string) (*data.Manga, error) {
	manga, err := env.controller.FindMangaByName(identifier)
	if err == nil {
		fmt.Printf("📚 Found '%s' in library\n", manga.Name)
		return manga, nil
	}
	env.logger.Debug("manga not in library, trying source")

	manga, fetchErr := env.controller.GetManga(cmd.Context(), identifier)
	if fetchErr != nil {
		return nil, fmt.Errorf("%w (and not a source ID: %v)", err, fetchErr)
	}
	fmt.Printf("🔍 Adding manga ID %s to library\n", manga.ID)
	if err := env.controller.AddMangaToLibrary(cmd.Context(), manga); err != nil {
		return nil, err
	}
	return manga, nil
}

func init() {
	downloadCmd.Flags().StringP("language", "l", "en", "Language code (e.g., en, ja, es)")
	downloadCmd.Flags().StringP("chapters", "c", "", "Chapter range (e.g., 1-10)")

	rootCmd.AddCommand(downloadCmd)
}
