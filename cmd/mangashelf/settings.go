package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kerbaras/mangashelf/pkg/reader"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the reader settings of a manga",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [manga-name]",
	Short: "Print the effective reader settings",
	Args:  cobra.ExactArgs(1),
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
		settings, err := env.controller.ReaderSettings(manga.ID)
		if err != nil {
			return err
		}

		fmt.Printf("⚙️  Reader settings for '%s'\n", manga.Name)
		for _, field := range reader.SettingFields {
			value, err := settings.Value(field)
			if err != nil {
				return err
			}
			suffix := ""
			if settings.IsDefault[field] {
				suffix = " (default)"
			}
			fmt.Printf("  %-18s %s%s\n", field, value, suffix)
		}
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [manga-name] [field] [value]",
	Short: "Change one reader setting",
	Long:  "Change one reader setting. Fields: " + strings.Join(reader.SettingFields, ", "),
	Args:  cobra.ExactArgs(3),
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

		// Validate before storing.
		candidate := reader.DefaultSettings()
		if err := candidate.Set(args[1], args[2]); err != nil {
			return err
		}
		if err := env.controller.SetReaderSetting(manga.ID, args[1], args[2]); err != nil {
			return err
		}

		fmt.Printf("✅ %s set to %s for '%s'\n", args[1], args[2], manga.Name)
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset [manga-name] [field]",
	Short: "Reset one reader setting, or all of them, to the default",
	Args:  cobra.RangeArgs(1, 2),
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

		field := ""
		if len(args) == 2 {
			field = args[1]
		}
		if err := env.controller.ResetReaderSetting(manga.ID, field); err != nil {
			return err
		}

		if field == "" {
			field = "all settings"
		}
		fmt.Printf("✅ Reset %s for '%s'\n", field, manga.Name)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd, settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}
