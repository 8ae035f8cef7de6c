package screens

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kerbaras/mangashelf/pkg/app/components"
	"github.com/kerbaras/mangashelf/pkg/app/styles"
	"github.com/kerbaras/mangashelf/pkg/data"
	"github.com/kerbaras/mangashelf/pkg/i18n"
	"github.com/kerbaras/mangashelf/pkg/integrations"
	"github.com/kerbaras/mangashelf/pkg/services"
)

type LibraryScreen struct {
	controller *services.MangaController
	mangaList  *components.MangaList
	width      int
	height     int
	status     string
	err        error
}

func NewLibraryScreen(controller *services.MangaController) *LibraryScreen {
	return &LibraryScreen{
		controller: controller,
		mangaList:  components.NewMangaList(),
	}
}

func (s *LibraryScreen) Init() tea.Cmd {
	return s.loadLibrary
}

func (s *LibraryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.mangaList.Width = msg.Width - 4
		s.mangaList.Height = msg.Height - 10

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.mangaList.Prev()
		case "down", "j":
			s.mangaList.Next()
		case "r":
			return s, s.loadLibrary
		case "d":
			if selected := s.mangaList.Selected(); selected != nil {
				return s, s.deleteManga(selected.Manga)
			}
		case "e":
			if selected := s.mangaList.Selected(); selected != nil {
				return s, s.exportEPUB(selected.Manga)
			}
		case "enter":
			if selected := s.mangaList.Selected(); selected != nil {
				return s, switchTo(detailsScreen, selected.Manga, "")
			}
		}

	case libraryLoadedMsg:
		s.mangaList.SetItems(msg.items)
		s.err = msg.err

	case libraryChangedMsg:
		return s, s.loadLibrary

	case statusMsg:
		s.status, s.err = msg.text, msg.err
		return s, s.loadLibrary
	}

	return s, nil
}

func (s *LibraryScreen) View() string {
	if s.width == 0 {
		return i18n.T("global.label.loading")
	}

	header := styles.TitleStyle.Render("📚 " + i18n.T("library.title"))
	help := styles.HelpStyle.Render(i18n.T("library.help"))

	return header + "\n\n" + renderStatus(s.status, s.err) + s.mangaList.View() + "\n" + help
}

// Messages
type libraryLoadedMsg struct {
	items []components.MangaListItem
	err   error
}

// Commands
func (s *LibraryScreen) loadLibrary() tea.Msg {
	entries, err := s.controller.ListLibrary()
	if err != nil {
		return libraryLoadedMsg{err: err}
	}

	items := make([]components.MangaListItem, len(entries))
	for i, entry := range entries {
		items[i] = components.MangaListItem{
			Manga:           entry.Manga,
			ChapterCount:    entry.Total,
			DownloadedCount: entry.Downloaded,
		}
	}
	return libraryLoadedMsg{items: items}
}

func (s *LibraryScreen) exportEPUB(manga *data.Manga) tea.Cmd {
	return func() tea.Msg {
		path, err := s.controller.Export(manga, integrations.ExportOptions{})
		if err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: i18n.Tf("library.label.exported", i18n.Args{"path": path})}
	}
}

func (s *LibraryScreen) deleteManga(manga *data.Manga) tea.Cmd {
	return func() tea.Msg {
		if err := s.controller.RemoveManga(manga, false); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: i18n.Tf("library.label.removed", i18n.Args{"title": manga.Name})}
	}
}
