package screens

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/kerbaras/mangashelf/pkg/app/components"
	"github.com/kerbaras/mangashelf/pkg/app/styles"
	"github.com/kerbaras/mangashelf/pkg/i18n"
	"github.com/kerbaras/mangashelf/pkg/migration"
	"github.com/kerbaras/mangashelf/pkg/services"
)

// MigrateScreen lists the sources library manga come from, so they can be
// moved to another source.
type MigrateScreen struct {
	ctx        context.Context
	controller *services.MangaController
	sources    []migration.MigratableSource
	settings   migration.SortSettings
	selected   int
	loading    bool
	width      int
	height     int
	err        error
}

func NewMigrateScreen(ctx context.Context, controller *services.MangaController) *MigrateScreen {
	return &MigrateScreen{ctx: ctx, controller: controller}
}

func (s *MigrateScreen) Init() tea.Cmd {
	s.loading = true
	return s.loadSources
}

func (s *MigrateScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if len(s.sources) > 0 {
				s.selected = (s.selected - 1 + len(s.sources)) % len(s.sources)
			}
		case "down", "j":
			if len(s.sources) > 0 {
				s.selected = (s.selected + 1) % len(s.sources)
			}
		case "s":
			settings := s.settings
			settings.SortBy = settings.SortBy.Next()
			return s, s.saveSettings(settings)
		case "o":
			settings := s.settings
			settings.SortOrder = settings.SortOrder.Next()
			return s, s.saveSettings(settings)
		case "r":
			s.loading = true
			return s, s.loadSources
		}

	case migrateLoadedMsg:
		s.loading = false
		s.sources = msg.sources
		s.settings = msg.settings
		s.err = msg.err
		s.selected = min(s.selected, max(0, len(s.sources)-1))

	case libraryChangedMsg:
		return s, s.loadSources

	case statusMsg:
		s.err = msg.err
		return s, s.loadSources
	}

	return s, nil
}

func (s *MigrateScreen) View() string {
	if s.width == 0 {
		return i18n.T("global.label.loading")
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("🔀 " + i18n.T("migrate.title")))
	b.WriteString("\n\n")
	b.WriteString(s.renderSort())
	b.WriteString("\n\n")
	b.WriteString(renderStatus("", s.err))

	switch {
	case s.loading:
		b.WriteString(styles.MutedStyle.Render(i18n.T("global.label.loading")))
	case len(s.sources) == 0:
		b.WriteString(styles.MutedStyle.Render(i18n.T("migrate.label.empty")))
	default:
		start, end := components.Window(len(s.sources), s.selected, max(1, s.height-12))
		for i := start; i < end; i++ {
			b.WriteString(s.renderSource(i))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render(i18n.T("migrate.help")))
	return b.String()
}

func (s *MigrateScreen) renderSort() string {
	by := i18n.T("migrate.sort.label.source_name")
	if s.settings.SortBy == migration.SortByMangaCount {
		by = i18n.T("migrate.sort.label.manga_count")
	}
	order := i18n.T("migrate.sort.label.ascending")
	if s.settings.SortOrder == migration.Desc {
		order = i18n.T("migrate.sort.label.descending")
	}
	return styles.SubtitleStyle.Render(
		i18n.T("migrate.sort.label.sort_by") + ": " + by + " • " + i18n.T("migrate.sort.label.order") + ": " + order,
	)
}

func (s *MigrateScreen) renderSource(i int) string {
	source := s.sources[i]
	line := source.Name + " • " + languageName(source.Lang) + " • " +
		i18n.Tf("migrate.label.manga_count", i18n.Args{"count": source.MangaCount})
	line = styles.Truncate(line, max(10, s.width-8))

	if i == s.selected {
		return styles.SelectedStyle.Render(line)
	}
	return styles.TextStyle.Render("  " + line)
}

// languageName renders a source language in the interface language.
func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil || tag == language.Und {
		return i18n.T("migrate.label.unknown_language")
	}
	if name := display.Tags(i18n.Default().Tag()).Name(tag); name != "" {
		return name
	}
	return code
}

// Messages
type migrateLoadedMsg struct {
	sources  []migration.MigratableSource
	settings migration.SortSettings
	err      error
}

// Commands
func (s *MigrateScreen) loadSources() tea.Msg {
	settings := s.controller.MigrationSortSettings()
	sources, err := s.controller.MigratableSources(s.ctx)
	return migrateLoadedMsg{sources: sources, settings: settings, err: err}
}

func (s *MigrateScreen) saveSettings(settings migration.SortSettings) tea.Cmd {
	return func() tea.Msg {
		if err := s.controller.SetMigrationSortSettings(settings); err != nil {
			return statusMsg{err: err}
		}
		return libraryChangedMsg{}
	}
}
