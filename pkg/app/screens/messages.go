package screens

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kerbaras/mangashelf/pkg/app/styles"
	"github.com/kerbaras/mangashelf/pkg/data"
	"github.com/kerbaras/mangashelf/pkg/i18n"
)

type screenName string

const (
	libraryScreen screenName = "library"
	searchScreen  screenName = "search"
	migrateScreen screenName = "migrate"
	detailsScreen screenName = "details"
	readerScreen  screenName = "reader"
)

// SwitchScreenMsg asks the root screen to show another screen.
type SwitchScreenMsg struct {
	Screen screenName
	// Manga is set for the details and reader screens.
	Manga *data.Manga
	// ChapterID selects the chapter to read; empty resumes.
	ChapterID string
}

func switchTo(screen screenName, manga *data.Manga, chapterID string) tea.Cmd {
	return func() tea.Msg {
		return SwitchScreenMsg{Screen: screen, Manga: manga, ChapterID: chapterID}
	}
}

// libraryChangedMsg tells screens showing the library to reload.
type libraryChangedMsg struct{}

// statusMsg is a one-line notice shown under a screen's header.
type statusMsg struct {
	text string
	err  error
}

// inputCapturer is implemented by screens that consume plain key presses,
// such as a focused text input.
type inputCapturer interface {
	CapturesInput() bool
}

func renderStatus(text string, err error) string {
	if err != nil {
		return styles.StatusError.Render(i18n.Tf("global.label.error", i18n.Args{"error": err})) + "\n\n"
	}
	if text != "" {
		return styles.StatusCompleted.Render(text) + "\n\n"
	}
	return ""
}
