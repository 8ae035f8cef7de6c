package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kerbaras/mangashelf/pkg/app/styles"
	"github.com/kerbaras/mangashelf/pkg/data"
	"github.com/kerbaras/mangashelf/pkg/i18n"
)

// cardHeight is the number of lines a rendered card takes, margins included.
const cardHeight = 9

type MangaListItem struct {
	Manga           *data.Manga
	ChapterCount    int
	DownloadedCount int
}

type MangaList struct {
	Items         []MangaListItem
	SelectedIndex int
	Width         int
	Height        int
}

func NewMangaList() *MangaList {
	return &MangaList{
		Items:         []MangaListItem{},
		SelectedIndex: 0,
		Width:         80,
		Height:        20,
	}
}

func (m *MangaList) SetItems(items []MangaListItem) {
	m.Items = items
	if m.SelectedIndex >= len(items) && len(items) > 0 {
		m.SelectedIndex = len(items) - 1
	}
	if len(items) == 0 {
		m.SelectedIndex = 0
	}
}

func (m *MangaList) Next() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex++
	if m.SelectedIndex >= len(m.Items) {
		m.SelectedIndex = 0
	}
}

func (m *MangaList) Prev() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex--
	if m.SelectedIndex < 0 {
		m.SelectedIndex = len(m.Items) - 1
	}
}

func (m *MangaList) Selected() *MangaListItem {
	if len(m.Items) == 0 || m.SelectedIndex >= len(m.Items) {
		return nil
	}
	return &m.Items[m.SelectedIndex]
}

// visible returns the window of items that fits the height and contains the
// selection.
func (m *MangaList) visible() (int, int) {
	return Window(len(m.Items), m.SelectedIndex, max(1, m.Height/cardHeight))
}

func (m *MangaList) View() string {
	if len(m.Items) == 0 {
		emptyMsg := styles.MutedStyle.Render(i18n.T("library.label.empty"))
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	inner := max(10, m.Width-10)

	var b strings.Builder
	start, end := m.visible()
	for i := start; i < end; i++ {
		item := m.Items[i]
		cardStyle := styles.CardStyle
		if i == m.SelectedIndex {
			cardStyle = styles.ActiveCardStyle
		}

		title := styles.TitleStyle.Render(styles.Truncate(item.Manga.Name, inner))

		statusName := item.Manga.Status
		if statusName == "" {
			statusName = i18n.T("library.label.ready")
		}
		status := styles.StatusStyle(item.Manga.Status).Render(
			i18n.Tf("library.label.status", i18n.Args{"status": statusName}),
		)

		chapterInfo := styles.MutedStyle.Render(
			i18n.Tf("library.label.chapters", i18n.Args{"count": item.ChapterCount}) + " • " +
				i18n.Tf("library.label.downloaded", i18n.Args{"count": item.DownloadedCount}),
		)

		source := styles.MutedStyle.Render(i18n.Tf("library.label.source", i18n.Args{"source": item.Manga.SourceID}))

		description := styles.TextStyle.Render(styles.Truncate(firstLine(item.Manga.Description), inner))

		cardContent := lipgloss.JoinVertical(
			lipgloss.Left,
			title,
			description,
			chapterInfo,
			status,
			source,
		)

		card := cardStyle.Width(m.Width - 4).Render(cardContent)
		b.WriteString(card)
		b.WriteString("\n")
	}

	return b.String()
}

// Window returns the [start, end) range of at most size items around
// selected.
func Window(total, selected, size int) (int, int) {
	if total <= size {
		return 0, total
	}
	start := max(0, selected-size/2)
	end := start + size
	if end > total {
		end = total
		start = end - size
	}
	return start, end
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
