package screens

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kerbaras/mangashelf/pkg/app/styles"
	"github.com/kerbaras/mangashelf/pkg/i18n"
	"github.com/kerbaras/mangashelf/pkg/services"
)

// tabBarHeight is the space the tab bar and its margin take.
const tabBarHeight = 2

var tabs = []screenName{libraryScreen, searchScreen, migrateScreen}

type RootScreen struct {
	ctx        context.Context
	controller *services.MangaController

	currentView screenName
	library     *LibraryScreen
	search      *SearchScreen
	migrate     *MigrateScreen
	details     *DetailsScreen
	reader      *ReaderScreen

	width  int
	height int
}

func NewRootScreen(ctx context.Context, controller *services.MangaController) *RootScreen {
	return &RootScreen{
		ctx:         ctx,
		controller:  controller,
		currentView: libraryScreen,
		library:     NewLibraryScreen(controller),
		search:      NewSearchScreen(ctx, controller),
		migrate:     NewMigrateScreen(ctx, controller),
	}
}

func (r *RootScreen) Init() tea.Cmd {
	return tea.Batch(r.library.Init(), r.listenForProgress)
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		var cmds []tea.Cmd
		for _, screen := range r.screens() {
			cmds = append(cmds, r.resize(screen))
		}
		return r, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return r, tea.Quit
		case "q":
			if c, ok := r.active().(inputCapturer); !ok || !c.CapturesInput() {
				return r, tea.Quit
			}
		case "tab":
			if i := tabIndex(r.currentView); i >= 0 {
				return r, r.show(tabs[(i+1)%len(tabs)])
			}
		}

	case SwitchScreenMsg:
		switch msg.Screen {
		case detailsScreen:
			if msg.Manga == nil {
				return r, nil
			}
			r.details = NewDetailsScreen(r.ctx, r.controller, msg.Manga.ID)
		case readerScreen:
			if msg.Manga == nil {
				return r, nil
			}
			r.reader = NewReaderScreen(r.ctx, r.controller, msg.Manga, msg.ChapterID)
		}
		if msg.Screen != readerScreen {
			r.reader = nil
		}
		return r, r.show(msg.Screen)

	case services.DownloadProgress:
		cmds := []tea.Cmd{r.listenForProgress}
		if r.details != nil {
			_, cmd := r.details.Update(msg)
			cmds = append(cmds, cmd)
		}
		if msg.Status != services.ProgressDownloading {
			_, cmd := r.library.Update(libraryChangedMsg{})
			cmds = append(cmds, cmd)
		}
		return r, tea.Batch(cmds...)
	}

	if screen := r.active(); screen != nil {
		_, cmd := screen.Update(msg)
		return r, cmd
	}
	return r, nil
}

func (r *RootScreen) View() string {
	screen := r.active()
	if screen == nil {
		return i18n.T("global.label.loading")
	}
	if tabIndex(r.currentView) < 0 {
		return screen.View()
	}
	return r.renderTabs() + "\n\n" + screen.View()
}

func (r *RootScreen) show(name screenName) tea.Cmd {
	r.currentView = name
	screen := r.active()
	if screen == nil {
		r.currentView = libraryScreen
		screen = r.library
	}
	return tea.Batch(r.resize(screen), screen.Init())
}

func (r *RootScreen) active() tea.Model {
	switch r.currentView {
	case libraryScreen:
		return r.library
	case searchScreen:
		return r.search
	case migrateScreen:
		return r.migrate
	case detailsScreen:
		if r.details != nil {
			return r.details
		}
	case readerScreen:
		if r.reader != nil {
			return r.reader
		}
	}
	return nil
}

func (r *RootScreen) screens() []tea.Model {
	screens := []tea.Model{r.library, r.search, r.migrate}
	if r.details != nil {
		screens = append(screens, r.details)
	}
	if r.reader != nil {
		screens = append(screens, r.reader)
	}
	return screens
}

// resize hands a screen its share of the window. The reader takes all of it.
func (r *RootScreen) resize(screen tea.Model) tea.Cmd {
	if r.width == 0 {
		return nil
	}
	height := r.height - tabBarHeight
	if _, ok := screen.(*ReaderScreen); ok {
		height = r.height
	}
	_, cmd := screen.Update(tea.WindowSizeMsg{Width: r.width, Height: height})
	return cmd
}

func (r *RootScreen) renderTabs() string {
	rendered := make([]string, len(tabs))
	for i, tab := range tabs {
		label := i18n.T("global.tab." + string(tab))
		if tab == r.currentView {
			rendered[i] = styles.ActiveTabStyle.Render(label)
		} else {
			rendered[i] = styles.InactiveTabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func tabIndex(name screenName) int {
	for i, tab := range tabs {
		if tab == name {
			return i
		}
	}
	return -1
}

// listenForProgress waits for the next download update. It stops once the
// channel is closed.
func (r *RootScreen) listenForProgress() tea.Msg {
	progress, ok := <-r.controller.GetProgressChannel()
	if !ok {
		return nil
	}
	return progress
}
