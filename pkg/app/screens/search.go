package screens

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kerbaras/mangashelf/pkg/app/components"
	"github.com/kerbaras/mangashelf/pkg/app/styles"
	"github.com/kerbaras/mangashelf/pkg/data"
	"github.com/kerbaras/mangashelf/pkg/i18n"
	"github.com/kerbaras/mangashelf/pkg/services"
)

// resultCardHeight is the height of a result card, margins included.
const resultCardHeight = 7

type SearchScreen struct {
	ctx        context.Context
	controller *services.MangaController
	input      textinput.Model
	results    []*data.Manga
	query      string
	selected   int
	searching  bool
	width      int
	height     int
	status     string
	err        error
}

func NewSearchScreen(ctx context.Context, controller *services.MangaController) *SearchScreen {
	ti := textinput.New()
	ti.Placeholder = i18n.T("search.placeholder")
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50

	return &SearchScreen{
		ctx:        ctx,
		controller: controller,
		input:      ti,
	}
}

func (s *SearchScreen) Init() tea.Cmd {
	return textinput.Blink
}

// CapturesInput reports whether key presses go to the text input.
func (s *SearchScreen) CapturesInput() bool {
	return s.input.Focused()
}

func (s *SearchScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

	case tea.KeyMsg:
		if s.searching {
			return s, nil
		}

		switch msg.String() {
		case "enter":
			if s.input.Focused() {
				query := strings.TrimSpace(s.input.Value())
				if query != "" {
					s.searching = true
					s.query = query
					s.status, s.err = "", nil
					return s, s.performSearch(query)
				}
			} else if len(s.results) > 0 {
				return s, s.addToLibrary(s.results[s.selected], false)
			}
			return s, nil

		case "d":
			if !s.input.Focused() && len(s.results) > 0 {
				return s, s.addToLibrary(s.results[s.selected], true)
			}

		case "esc":
			if s.input.Focused() {
				s.input.Blur()
			} else {
				s.input.Focus()
				cmd = textinput.Blink
			}
			return s, cmd

		case "up", "k":
			if !s.input.Focused() && len(s.results) > 0 {
				s.selected = (s.selected - 1 + len(s.results)) % len(s.results)
			}

		case "down", "j":
			if !s.input.Focused() && len(s.results) > 0 {
				s.selected = (s.selected + 1) % len(s.results)
			}
		}

	case searchResultMsg:
		s.searching = false
		s.results = msg.results
		s.selected = 0
		s.err = msg.err
		if len(s.results) > 0 {
			s.input.Blur()
		}

	case statusMsg:
		s.status, s.err = msg.text, msg.err
		return s, nil
	}

	if s.input.Focused() {
		s.input, cmd = s.input.Update(msg)
	}

	return s, cmd
}

func (s *SearchScreen) View() string {
	if s.width == 0 {
		return i18n.T("global.label.loading")
	}

	header := styles.TitleStyle.Render("🔍 " + i18n.T("search.title"))

	inputStyle := styles.InputStyle
	if s.input.Focused() {
		inputStyle = styles.FocusedInputStyle
	}
	inputView := inputStyle.Render(s.input.View())

	var resultsView string
	switch {
	case s.searching:
		resultsView = styles.StatusDownloading.Render(
			i18n.Tf("search.label.searching", i18n.Args{"source": s.controller.Source().Info().Name}),
		)
	case len(s.results) > 0:
		resultsView = s.renderResults()
	case s.query != "":
		resultsView = styles.MutedStyle.Render(i18n.Tf("search.label.no_results", i18n.Args{"query": s.query}))
	}

	help := styles.HelpStyle.Render(i18n.T("search.help"))

	return header + "\n\n" + inputView + "\n\n" + renderStatus(s.status, s.err) + resultsView + "\n\n" + help
}

func (s *SearchScreen) renderResults() string {
	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render(i18n.Tf("search.label.results", i18n.Args{"count": len(s.results)})))
	b.WriteString("\n\n")

	inner := max(10, s.width-12)
	start, end := components.Window(len(s.results), s.selected, max(1, (s.height-14)/resultCardHeight))
	for i := start; i < end; i++ {
		manga := s.results[i]
		cardStyle := styles.CardStyle
		if i == s.selected && !s.input.Focused() {
			cardStyle = styles.ActiveCardStyle
		}

		cardContent := lipgloss.JoinVertical(
			lipgloss.Left,
			styles.TitleStyle.Render(styles.Truncate(manga.Name, inner)),
			styles.TextStyle.Render(styles.Truncate(strings.ReplaceAll(manga.Description, "\n", " "), inner)),
			styles.MutedStyle.Render(i18n.Tf("library.label.source", i18n.Args{"source": manga.SourceID})+" • "+manga.ID),
		)

		b.WriteString(cardStyle.Width(s.width - 6).Render(cardContent))
		b.WriteString("\n")
	}

	return b.String()
}

// Messages
type searchResultMsg struct {
	results []*data.Manga
	err     error
}

// Commands
func (s *SearchScreen) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := s.controller.SearchManga(s.ctx, query)
		return searchResultMsg{results: results, err: err}
	}
}

// addToLibrary stores the manga and, when download is set, starts fetching
// every chapter in the background.
func (s *SearchScreen) addToLibrary(manga *data.Manga, download bool) tea.Cmd {
	return func() tea.Msg {
		if err := s.controller.AddMangaToLibrary(s.ctx, manga); err != nil {
			return statusMsg{err: err}
		}
		if !download {
			return statusMsg{text: i18n.Tf("search.label.added", i18n.Args{"title": manga.Name})}
		}
		go s.controller.DownloadManga(s.ctx, manga, services.DownloadOptions{})
		return statusMsg{text: i18n.Tf("search.label.download_started", i18n.Args{"title": manga.Name})}
	}
}
