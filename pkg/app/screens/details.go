package screens

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kerbaras/mangashelf/pkg/app/components"
	"github.com/kerbaras/mangashelf/pkg/app/styles"
	"github.com/kerbaras/mangashelf/pkg/data"
	"github.com/kerbaras/mangashelf/pkg/i18n"
	"github.com/kerbaras/mangashelf/pkg/integrations"
	"github.com/kerbaras/mangashelf/pkg/services"
)

const maxChapterRows = 10

type DetailsScreen struct {
	ctx             context.Context
	controller      *services.MangaController
	mangaID         string
	manga           *data.Manga
	chapters        []*data.Chapter
	selectedChapter int
	progressTracker *components.ProgressTracker
	width           int
	height          int
	status          string
	err             error
}

func NewDetailsScreen(ctx context.Context, controller *services.MangaController, mangaID string) *DetailsScreen {
	return &DetailsScreen{
		ctx:             ctx,
		controller:      controller,
		mangaID:         mangaID,
		progressTracker: components.NewProgressTracker(80),
	}
}

func (s *DetailsScreen) Init() tea.Cmd {
	return s.loadDetails
}

func (s *DetailsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.progressTracker.SetWidth(msg.Width - 4)

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selectedChapter > 0 {
				s.selectedChapter--
			}
		case "down", "j":
			if s.selectedChapter < len(s.chapters)-1 {
				s.selectedChapter++
			}
		case "r":
			return s, s.loadDetails
		case "enter":
			if ch := s.selected(); ch != nil && ch.Downloaded {
				return s, switchTo(readerScreen, s.manga, ch.ID)
			}
		case "d":
			if ch := s.selected(); ch != nil && !ch.Downloaded {
				return s, s.downloadChapter(ch)
			}
		case "a":
			if s.manga != nil {
				return s, s.downloadAll()
			}
		case "e":
			if s.manga != nil {
				return s, s.exportEPUB()
			}
		case "esc", "backspace":
			return s, switchTo(libraryScreen, nil, "")
		}

	case detailsLoadedMsg:
		s.manga = msg.manga
		s.chapters = msg.chapters
		s.err = msg.err
		s.selectedChapter = min(s.selectedChapter, max(0, len(s.chapters)-1))

	case services.DownloadProgress:
		s.progressTracker.Update(msg)
		if msg.MangaID == s.mangaID && msg.Status != services.ProgressDownloading {
			return s, s.loadDetails
		}

	case libraryChangedMsg:
		return s, s.loadDetails

	case statusMsg:
		s.status, s.err = msg.text, msg.err
		return s, s.loadDetails
	}

	return s, nil
}

func (s *DetailsScreen) selected() *data.Chapter {
	if s.selectedChapter < 0 || s.selectedChapter >= len(s.chapters) {
		return nil
	}
	return s.chapters[s.selectedChapter]
}

func (s *DetailsScreen) View() string {
	if s.width == 0 || s.manga == nil {
		if s.err != nil {
			return renderStatus("", s.err)
		}
		return i18n.T("global.label.loading")
	}

	header := styles.TitleStyle.Render("📖 " + s.manga.Name)
	help := styles.HelpStyle.Render(i18n.T("details.help"))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		renderStatus(s.status, s.err)+s.renderMangaInfo(),
		s.renderChaptersList(),
		s.progressTracker.View(),
		help,
	)
}

func (s *DetailsScreen) renderMangaInfo() string {
	status := styles.StatusStyle(s.manga.Status).Render(s.manga.Status)
	if s.manga.Status == "" {
		status = styles.MutedStyle.Render(i18n.T("library.label.ready"))
	}

	desc := strings.ReplaceAll(s.manga.Description, "\n", " ")
	desc = styles.Truncate(desc, 3*max(10, s.width-10))

	info := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.TextStyle.Width(s.width-10).Render(desc),
		"",
		styles.MutedStyle.Render(i18n.Tf("library.label.source", i18n.Args{"source": s.manga.SourceID})),
		status,
	)

	return styles.CardStyle.Width(s.width - 4).Render(info)
}

func (s *DetailsScreen) renderChaptersList() string {
	if len(s.chapters) == 0 {
		return styles.MutedStyle.Render(i18n.T("details.label.no_chapters"))
	}

	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render(i18n.Tf("details.label.chapters", i18n.Args{"count": len(s.chapters)})))
	b.WriteString("\n\n")

	start, end := components.Window(len(s.chapters), s.selectedChapter, maxChapterRows)
	for i := start; i < end; i++ {
		ch := s.chapters[i]
		text := "Ch. " + ch.Number
		if ch.Volume != "" && ch.Volume != "0" {
			text = "Vol. " + ch.Volume + ", " + text
		}
		if ch.Title != "" {
			text += ": " + ch.Title
		}
		if ch.Language != "" {
			text += " [" + ch.Language + "]"
		}

		icon, style := "○", styles.MutedStyle
		if ch.Downloaded {
			icon, style = "●", styles.StatusCompleted
		}

		line := styles.Truncate(icon+" "+text, max(10, s.width-8))
		if i == s.selectedChapter {
			line = styles.SelectedStyle.Render(line)
		} else {
			line = style.Render(line)
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(s.chapters) > maxChapterRows {
		b.WriteString("\n")
		b.WriteString(styles.MutedStyle.Render(i18n.Tf("details.label.showing", i18n.Args{
			"start": start + 1,
			"end":   end,
			"total": len(s.chapters),
		})))
	}

	return b.String()
}

// Messages
type detailsLoadedMsg struct {
	manga    *data.Manga
	chapters []*data.Chapter
	err      error
}

// Commands
func (s *DetailsScreen) loadDetails() tea.Msg {
	manga, err := s.controller.GetMangaFromLibrary(s.mangaID)
	if err != nil {
		return detailsLoadedMsg{err: err}
	}

	chapters, err := s.controller.LibraryChapters(s.mangaID)
	if err != nil {
		return detailsLoadedMsg{manga: manga, err: err}
	}

	return detailsLoadedMsg{manga: manga, chapters: chapters}
}

func (s *DetailsScreen) downloadChapter(chapter *data.Chapter) tea.Cmd {
	manga := s.manga
	return func() tea.Msg {
		if err := s.controller.DownloadChapter(s.ctx, manga, chapter); err != nil {
			return statusMsg{err: err}
		}
		return libraryChangedMsg{}
	}
}

func (s *DetailsScreen) downloadAll() tea.Cmd {
	manga := s.manga
	return func() tea.Msg {
		if err := s.controller.DownloadManga(s.ctx, manga, services.DownloadOptions{}); err != nil {
			return statusMsg{err: err}
		}
		return libraryChangedMsg{}
	}
}

func (s *DetailsScreen) exportEPUB() tea.Cmd {
	manga := s.manga
	return func() tea.Msg {
		path, err := s.controller.Export(manga, integrations.ExportOptions{})
		if err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: i18n.Tf("library.label.exported", i18n.Args{"path": path})}
	}
}
