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
	"github.com/kerbaras/mangashelf/pkg/reader"
	"github.com/kerbaras/mangashelf/pkg/services"
)

// stripPage is one image laid out on the continuous surface.
type stripPage struct {
	grid  [][]string
	start int // along the scroll axis, from the content origin
	size  int
	width int
}

// ReaderScreen shows downloaded chapters page by page or as a continuous
// strip.
type ReaderScreen struct {
	ctx        context.Context
	controller *services.MangaController
	manga      *data.Manga
	chapterID  string

	service  *services.ReaderService
	session  *services.ChapterSession
	settings *data.ReaderSettings
	state    *reader.State
	controls *reader.Controls
	surface  *reader.Surface
	renderer *integrations.PageRenderer
	panel    *components.SettingsPanel

	strip   []stripPage
	content int

	savedChapter string
	savedPage    int

	width  int
	height int
	err    error
}

func NewReaderScreen(ctx context.Context, controller *services.MangaController, manga *data.Manga, chapterID string) *ReaderScreen {
	return &ReaderScreen{
		ctx:        ctx,
		controller: controller,
		manga:      manga,
		chapterID:  chapterID,
		state:      reader.NewState(nil),
		surface:    &reader.Surface{},
		renderer:   integrations.NewPageRenderer(integrations.ImageSettings{}),
		savedPage:  -1,
	}
}

func (s *ReaderScreen) Init() tea.Cmd {
	return s.open
}

// CapturesInput keeps q from quitting while reading.
func (s *ReaderScreen) CapturesInput() bool {
	return true
}

func (s *ReaderScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.renderer.Clear()
		if s.session != nil {
			s.layout()
			s.state.ScrollToPage(s.state.CurrentPageIndex)
			return s, s.sync(false)
		}

	case readerOpenedMsg:
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		s.service = msg.service
		s.settings = msg.settings
		s.controls = reader.NewControls(s.state, msg.settings.Settings, msg.service)
		s.state.OverlayVisible = msg.settings.StaticNav
		return s, s.load(msg.session)

	case readerSettingsMsg:
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		s.applySettings(msg.settings)
		return s, nil

	case statusMsg:
		s.err = msg.err

	case tea.KeyMsg:
		if s.controls == nil {
			if msg.String() == "esc" {
				return s, switchTo(detailsScreen, s.manga, "")
			}
			return s, nil
		}
		if s.panel != nil {
			return s, s.updatePanel(msg)
		}
		return s, s.handleKey(msg)

	case tea.MouseMsg:
		if s.controls == nil || s.panel != nil {
			return s, nil
		}
		return s, s.handleMouse(msg)
	}

	return s, nil
}

func (s *ReaderScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	c := s.controls
	mode := c.Settings.ReadingMode
	direction := c.Settings.ReadingDirection
	scrolled := false

	switch msg.String() {
	case "esc", "backspace":
		return switchTo(detailsScreen, s.manga, "")
	case "left", "h":
		if mode == reader.ContinuousHorizontal {
			s.scroll(reader.OptionForDirection(reader.Backward, reader.Forward, direction), reader.ScrollX)
			scrolled = true
		} else {
			c.OpenPage(reader.PageOffset(reader.OffsetPrevious))
		}
	case "right", "l":
		if mode == reader.ContinuousHorizontal {
			s.scroll(reader.OptionForDirection(reader.Forward, reader.Backward, direction), reader.ScrollX)
			scrolled = true
		} else {
			c.OpenPage(reader.PageOffset(reader.OffsetNext))
		}
	case "up", "k", "pgup":
		scrolled = s.step(reader.Backward)
	case "down", "j", "pgdown", " ":
		scrolled = s.step(reader.Forward)
	case "[":
		c.OpenChapter(reader.OffsetPrevious)
	case "]":
		c.OpenChapter(reader.OffsetNext)
	case "home":
		c.OpenPage(reader.PageIndex(0))
	case "end":
		c.OpenPage(reader.PageIndex(reader.LastPageIndex(s.state.Pages)))
	case "m":
		s.state.OverlayVisible = c.Settings.StaticNav || !s.state.OverlayVisible
	case "t":
		s.state.ShowTapZonePreview = !s.state.ShowTapZonePreview
	case "s":
		s.panel = components.NewSettingsPanel(s.settings)
	default:
		return nil
	}

	return s.sync(scrolled)
}

// step moves one logical unit in reading order.
func (s *ReaderScreen) step(offset reader.ScrollOffset) bool {
	c := s.controls
	mode := c.Settings.ReadingMode
	if !mode.IsContinuous() {
		logical := reader.OffsetNext
		if offset == reader.Backward {
			logical = reader.OffsetPrevious
		}
		c.OpenPageInDirection(reader.PageOffset(logical), reader.LTR)
		return false
	}
	s.scroll(offset, mode.ScrollAxis())
	return true
}

func (s *ReaderScreen) scroll(offset reader.ScrollOffset, axis reader.ScrollDirection) {
	s.state.TransitionPageMode = reader.TransitionNone
	amount := s.controls.Settings.ScrollAmount
	if amount <= 0 {
		amount = reader.DefaultScrollAmount
	}
	s.controls.Scroll(offset, axis, s.surface, amount)
}

func (s *ReaderScreen) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		s.controls.HandleClick(msg.X, msg.Y, s.width, s.height, s.surface)
		return s.sync(s.controls.Settings.ReadingMode.IsContinuous())
	case tea.MouseButtonWheelUp:
		return s.sync(s.step(reader.Backward))
	case tea.MouseButtonWheelDown:
		return s.sync(s.step(reader.Forward))
	}
	return nil
}

func (s *ReaderScreen) updatePanel(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "s":
		s.panel = nil
	case "up", "k":
		s.panel.Prev()
	case "down", "j":
		s.panel.Next()
	case "left", "h":
		return s.setSetting(s.panel.Field(), s.panel.Cycle(-1))
	case "right", "l", "enter":
		return s.setSetting(s.panel.Field(), s.panel.Cycle(1))
	case "r":
		return s.resetSetting(s.panel.Field())
	case "R":
		return s.resetSetting("")
	}
	return nil
}

// load shows a freshly opened chapter.
func (s *ReaderScreen) load(session *services.ChapterSession) tea.Cmd {
	s.session = session
	s.err = nil
	s.state.HasPreviousChapter = session.HasPrevious
	s.state.HasNextChapter = session.HasNext
	s.state.Reset(reader.BuildPages(session.Pages, s.controls.Settings.ReadingMode), session.Resume)
	s.state.ScrollToPage(session.StartPage)
	s.layout()
	return s.sync(false)
}

// sync applies what the controls asked for: a chapter switch, a scroll
// target, or a new current page after scrolling.
func (s *ReaderScreen) sync(scrolled bool) tea.Cmd {
	if session, ok := s.service.Pending(); ok {
		return s.load(session)
	}

	if target, ok := s.state.TakeScrollTarget(); ok && s.controls.Settings.ReadingMode.IsContinuous() {
		s.scrollToImage(target)
	} else if scrolled && s.controls.Settings.ReadingMode.IsContinuous() {
		axis := s.controls.Settings.ReadingMode.ScrollAxis()
		s.controls.UpdateCurrentPageOnScroll(s.spans(axis), s.surface.ClientSize(axis))
	}

	return s.saveProgress()
}

func (s *ReaderScreen) applySettings(settings *data.ReaderSettings) {
	modeChanged := settings.ReadingMode != s.controls.Settings.ReadingMode
	s.settings = settings
	s.controls.Settings = settings.Settings
	if s.panel != nil {
		s.panel.Settings = settings
	}
	if settings.StaticNav {
		s.state.OverlayVisible = true
	}
	if s.session == nil {
		return
	}

	current := s.state.CurrentPageIndex
	if modeChanged {
		s.state.Pages = reader.BuildPages(s.session.Pages, settings.ReadingMode)
		s.state.TransitionPageMode = reader.TransitionNone
	}
	s.layout()
	s.state.ScrollToPage(current)
	if target, ok := s.state.TakeScrollTarget(); ok && settings.ReadingMode.IsContinuous() {
		s.scrollToImage(target)
	}
}

// layout renders the continuous strip for the current mode and sizes the
// scroll surface.
func (s *ReaderScreen) layout() {
	s.strip = nil
	s.content = 0
	mode := s.controls.Settings.ReadingMode
	s.surface.Direction = s.controls.Settings.ReadingDirection
	if s.width == 0 || s.session == nil {
		return
	}
	if !mode.IsContinuous() {
		s.surface.Resize(s.width, s.height, s.width, s.height)
		return
	}

	rows := s.height
	if mode == reader.Webtoon {
		rows = 0
	}
	for _, path := range s.session.Pages {
		grid, err := s.renderer.RenderGrid(path, s.width, rows)
		if err != nil {
			s.err = err
			grid = [][]string{{" "}}
		}
		page := stripPage{grid: grid, start: s.content}
		if len(grid) > 0 {
			page.width = len(grid[0])
		}
		if mode.ScrollAxis() == reader.ScrollX {
			page.size = page.width
		} else {
			page.size = len(grid)
		}
		s.content += page.size
		s.strip = append(s.strip, page)
	}

	if mode.ScrollAxis() == reader.ScrollX {
		s.surface.Resize(s.content, s.height, s.width, s.height)
	} else {
		s.surface.Resize(s.width, s.content, s.width, s.height)
	}
}

// spans returns page extents relative to the visible area, indexed by image.
func (s *ReaderScreen) spans(axis reader.ScrollDirection) []reader.PageSpan {
	offset := s.surface.Offset(axis)
	spans := make([]reader.PageSpan, len(s.strip))
	for i, page := range s.strip {
		start := page.start
		if axis == reader.ScrollX && s.surface.Direction == reader.RTL {
			start = s.content - page.start - page.size
		}
		spans[i] = reader.PageSpan{Start: start - offset, End: start - offset + page.size}
	}
	return spans
}

func (s *ReaderScreen) scrollToImage(index int) {
	if index < 0 || index >= len(s.strip) {
		return
	}
	page := s.strip[index]
	axis := s.controls.Settings.ReadingMode.ScrollAxis()
	if axis == reader.ScrollY {
		s.surface.ScrollTo(reader.ScrollY, float64(page.start))
		return
	}
	if s.surface.Direction == reader.RTL {
		// The first page sits at the right edge of the content.
		limit := s.surface.ScrollSize(reader.ScrollX) - s.width
		right := s.content - page.start
		s.surface.ScrollTo(reader.ScrollX, float64(right-s.width-limit))
		return
	}
	s.surface.ScrollTo(reader.ScrollX, float64(page.start))
}

func (s *ReaderScreen) View() string {
	if s.err != nil && s.session == nil {
		return renderStatus("", s.err) + styles.HelpStyle.Render(i18n.T("reader.help"))
	}
	if s.width == 0 || s.session == nil {
		return i18n.T("global.label.loading")
	}
	if s.panel != nil {
		return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, s.panel.View())
	}
	if s.state.ShowTapZonePreview {
		return components.TapZonePreview(s.controls.Settings.TapZones, s.width, s.height)
	}

	var lines []string
	switch {
	case s.state.TransitionPageVisible() && !s.controls.Settings.ReadingMode.IsContinuous():
		lines = s.place(s.renderTransition())
	case s.controls.Settings.ReadingMode.IsContinuous():
		lines = s.renderStrip()
		if s.state.TransitionPageVisible() {
			banner := styles.OverlayBarStyle.Width(s.width).Render(s.transitionText())
			if s.state.TransitionPageMode == reader.TransitionPrevious {
				lines[0] = banner
			} else {
				lines[len(lines)-1] = banner
			}
		}
	default:
		lines = s.place(s.renderPage())
	}

	if s.state.OverlayVisible || s.controls.Settings.StaticNav {
		s.renderOverlay(lines)
	}
	return strings.Join(lines, "\n")
}

func (s *ReaderScreen) place(content string) []string {
	return strings.Split(lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, content), "\n")
}

func (s *ReaderScreen) renderPage() string {
	page, _, ok := s.state.CurrentPage()
	if !ok {
		return styles.MutedStyle.Render(i18n.T("reader.label.no_pages"))
	}

	if page.Secondary == nil {
		return s.renderFile(page.Primary.Source, s.width, s.height)
	}

	half := s.width / 2
	primary := s.renderFile(page.Primary.Source, half, s.height)
	secondary := s.renderFile(page.Secondary.Source, half, s.height)
	left, right := reader.OptionForDirection(primary, secondary, s.controls.Settings.ReadingDirection),
		reader.OptionForDirection(secondary, primary, s.controls.Settings.ReadingDirection)
	return lipgloss.JoinHorizontal(lipgloss.Center, left, right)
}

func (s *ReaderScreen) renderFile(path string, cols, rows int) string {
	out, err := s.renderer.RenderFile(path, cols, rows)
	if err != nil {
		return styles.StatusError.Render(err.Error())
	}
	return out
}

func (s *ReaderScreen) renderStrip() []string {
	lines := make([]string, s.height)
	axis := s.controls.Settings.ReadingMode.ScrollAxis()
	offset := s.surface.Offset(axis)

	if axis == reader.ScrollY {
		for y := range lines {
			lines[y] = lipgloss.PlaceHorizontal(s.width, lipgloss.Center, s.stripRow(offset+y))
		}
		return lines
	}

	order := make([]int, len(s.strip))
	for i := range order {
		order[i] = reader.OptionForDirection(i, len(s.strip)-1-i, s.surface.Direction)
	}
	for y := range lines {
		cells := make([]string, 0, s.content)
		for _, i := range order {
			page := s.strip[i]
			if y < len(page.grid) {
				cells = append(cells, page.grid[y]...)
			} else {
				cells = append(cells, strings.Split(strings.Repeat(" ", page.width), "")...)
			}
		}
		end := min(len(cells), offset+s.width)
		lines[y] = strings.Join(cells[min(offset, end):end], "")
	}
	return lines
}

// stripRow returns the content row at y of the vertical strip.
func (s *ReaderScreen) stripRow(y int) string {
	for _, page := range s.strip {
		if y >= page.start && y < page.start+page.size {
			return strings.Join(page.grid[y-page.start], "")
		}
	}
	return ""
}

func (s *ReaderScreen) transitionText() string {
	if s.state.TransitionPageMode == reader.TransitionPrevious {
		if ch := s.service.Adjacent(reader.OffsetPrevious); ch != nil {
			return i18n.Tf("reader.transition.previous", i18n.Args{"chapter": ch.DisplayName()})
		}
		return i18n.T("reader.transition.no_previous")
	}
	if ch := s.service.Adjacent(reader.OffsetNext); ch != nil {
		return i18n.Tf("reader.transition.next", i18n.Args{"chapter": ch.DisplayName()})
	}
	return i18n.T("reader.transition.no_next")
}

func (s *ReaderScreen) renderTransition() string {
	current := i18n.Tf("reader.transition.current", i18n.Args{"chapter": s.session.Chapter.DisplayName()})
	rows := []string{s.transitionText(), "", current}
	if s.state.TransitionPageMode == reader.TransitionNext {
		rows = []string{current, "", s.transitionText()}
	}
	return styles.TransitionStyle.Render(lipgloss.JoinVertical(lipgloss.Center, rows...))
}

func (s *ReaderScreen) renderOverlay(lines []string) {
	if len(lines) < 2 {
		return
	}
	bar := styles.OverlayBarStyle.Width(s.width)
	title := styles.Truncate(s.manga.Name+" • "+s.session.Chapter.DisplayName(), s.width-2)
	page := i18n.Tf("chapter.label.pages", i18n.Args{
		"current": s.state.CurrentPageIndex + 1,
		"total":   len(s.session.Pages),
	})
	lines[0] = bar.Render(title)
	lines[len(lines)-1] = bar.Render(styles.Truncate(page+" • "+i18n.T("reader.help"), s.width-2))
}

// Messages
type readerOpenedMsg struct {
	service  *services.ReaderService
	session  *services.ChapterSession
	settings *data.ReaderSettings
	err      error
}

type readerSettingsMsg struct {
	settings *data.ReaderSettings
	err      error
}

// Commands
func (s *ReaderScreen) open() tea.Msg {
	service, err := s.controller.NewReader(s.manga)
	if err != nil {
		return readerOpenedMsg{err: err}
	}
	session, err := service.Open(s.chapterID)
	if err != nil {
		return readerOpenedMsg{err: err}
	}
	settings, err := s.controller.ReaderSettings(s.manga.ID)
	if err != nil {
		return readerOpenedMsg{err: err}
	}
	return readerOpenedMsg{service: service, session: session, settings: settings}
}

func (s *ReaderScreen) setSetting(field, value string) tea.Cmd {
	mangaID := s.manga.ID
	return func() tea.Msg {
		if err := s.controller.SetReaderSetting(mangaID, field, value); err != nil {
			return readerSettingsMsg{err: err}
		}
		settings, err := s.controller.ReaderSettings(mangaID)
		return readerSettingsMsg{settings: settings, err: err}
	}
}

func (s *ReaderScreen) resetSetting(field string) tea.Cmd {
	mangaID := s.manga.ID
	return func() tea.Msg {
		if err := s.controller.ResetReaderSetting(mangaID, field); err != nil {
			return readerSettingsMsg{err: err}
		}
		settings, err := s.controller.ReaderSettings(mangaID)
		return readerSettingsMsg{settings: settings, err: err}
	}
}

// saveProgress records the current page when it changed since the last save.
func (s *ReaderScreen) saveProgress() tea.Cmd {
	chapterID := s.session.Chapter.ID
	page := s.state.CurrentPageIndex
	if chapterID == s.savedChapter && page == s.savedPage {
		return nil
	}
	s.savedChapter, s.savedPage = chapterID, page

	service := s.service
	return func() tea.Msg {
		if err := service.SaveProgress(chapterID, page); err != nil {
			return statusMsg{err: err}
		}
		return nil
	}
}
