package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kerbaras/mangashelf/pkg/integrations"
)

var exportCmd = &cobra.Command{
	Use:   "export [manga-name]",
	Short: "Export downloaded chapters to EPUB",
	Long: `Package the downloaded chapters of a library manga into a single EPUB.

Use --ereader to convert pages to grayscale and resize them for e-ink
devices.

Examples:
  mangashelf export "One Piece"
  mangashelf export "Berserk" --ereader --width 1072 --height 1448`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		manga, err := env.controller.FindMangaByName(args[0])
		if err != nil {
			return err
		}

		opts := integrations.ExportOptions{}
		opts.Author, _ = cmd.Flags().GetString("author")
		opts.Language, _ = cmd.Flags().GetString("language")
		opts.RightToLeft, _ = cmd.Flags().GetBool("rtl")

		if ereader, _ := cmd.Flags().GetBool("ereader"); ereader {
			width, _ := cmd.Flags().GetInt("width")
			height, _ := cmd.Flags().GetInt("height")
			settings := integrations.EReaderImageSettings(width, height)
			opts.Images = &settings
		}

		fmt.Printf("📖 Exporting '%s'...\n", manga.Name)
		path, err := env.controller.Export(manga, opts)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		fmt.Printf("✅ EPUB created: %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("author", "", "Author metadata (default the source name)")
	exportCmd.Flags().StringP("language", "l", "en", "Language metadata")
	exportCmd.Flags().Bool("rtl", false, "Right-to-left page progression (default from reader settings)")
	exportCmd.Flags().Bool("ereader", false, "Optimize pages for e-ink readers")
	exportCmd.Flags().Int("width", 1072, "Maximum page width with --ereader")
	exportCmd.Flags().Int("height", 1448, "Maximum page height with --ereader")

	rootCmd.AddCommand(exportCmd)
}
