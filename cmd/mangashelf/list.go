package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kerbaras/mangashelf/pkg/app/styles"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all manga in your library",
	Long:  "Display all manga in your library in a formatted table",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		entries, err := env.controller.ListLibrary()
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("📚 No manga in library. Use 'mangashelf search' to find manga to add.")
			return nil
		}

		columns := []table.Column{
			{Title: "Name", Width: 40},
			{Title: "Source", Width: 10},
			{Title: "Status", Width: 12},
			{Title: "Chapters", Width: 10},
			{Title: "Downloaded", Width: 12},
		}

		rows := make([]table.Row, 0, len(entries))
		for _, entry := range entries {
			status := entry.Manga.Status
			if status == "" {
				status = "ready"
			}

			rows = append(rows, table.Row{
				styles.Truncate(entry.Manga.Name, 38),
				entry.Manga.SourceID,
				status,
				strconv.Itoa(entry.Total),
				strconv.Itoa(entry.Downloaded),
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
		t.SetStyles(s)

		fmt.Printf("\n📚 Library (%d manga)\n\n", len(entries))
		fmt.Println(t.View())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
