package screens

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerbaras/mangashelf/pkg/data"
	"github.com/kerbaras/mangashelf/pkg/migration"
	"github.com/kerbaras/mangashelf/pkg/reader"
	"github.com/kerbaras/mangashelf/pkg/services"
)

type stubSource struct{}

func (stubSource) Info() data.Source {
	return data.Source{ID: "stub", Name: "Stub", Lang: "en"}
}

func (stubSource) Search(ctx context.Context, query string) ([]*data.Manga, error) {
	return nil, nil
}

func (stubSource) GetManga(ctx context.Context, id string) (*data.Manga, error) {
	return nil, nil
}

func (stubSource) GetChapters(ctx context.Context, manga *data.Manga) ([]*data.Chapter, error) {
	return nil, nil
}

func (stubSource) GetPages(ctx context.Context, manga *data.Manga, chapter *data.Chapter) ([]string, error) {
	return nil, nil
}

func (stubSource) GetMangaCoverURL(ctx context.Context, manga *data.Manga) (string, error) {
	return "", nil
}

func (stubSource) GetChapterCoverURL(ctx context.Context, manga *data.Manga, chapter *data.Chapter) (string, error) {
	return "", nil
}

func writePages(t *testing.T, dir string, count int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))

	img := image.NewRGBA(image.Rect(0, 0, 4, 6))
	for x := 0; x < 4; x++ {
		for y := 0; y < 6; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(40 * y), B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	for i := 1; i <= count; i++ {
		name := filepath.Join(dir, filepath.Base(dir)+"-"+string(rune('0'+i))+".png")
		require.NoError(t, os.WriteFile(name, buf.Bytes(), 0o644))
	}
}

// newLibrary stores one manga with two downloaded chapters of three pages.
func newLibrary(t *testing.T) (*services.MangaController, *data.Repository, *data.Manga) {
	t.Helper()
	db, err := data.InitDuckDB(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	repo := data.NewRepository(db)

	controller, err := services.NewMangaControllerWith(stubSource{}, repo, services.ControllerConfig{
		DownloadDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { controller.Close() })

	manga := &data.Manga{ID: "m1", Name: "Test Manga", SourceID: "stub"}
	require.NoError(t, repo.SaveManga(manga))

	root := t.TempDir()
	for _, id := range []string{"c1", "c2"} {
		dir := filepath.Join(root, id)
		writePages(t, dir, 3)
		require.NoError(t, repo.SaveChapter(&data.Chapter{
			ID:         id,
			MangaID:    manga.ID,
			Number:     id[1:],
			Language:   "en",
			Downloaded: true,
			FilePath:   dir,
		}))
	}
	return controller, repo, manga
}

func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func openReader(t *testing.T, controller *services.MangaController, manga *data.Manga) *ReaderScreen {
	t.Helper()
	s := NewReaderScreen(context.Background(), controller, manga, "")
	s.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	_, cmd := s.Update(s.Init()())
	runCmd(cmd)
	require.NoError(t, s.err)
	require.NotNil(t, s.session)
	return s
}

// press delivers msg and feeds the screen's own replies back to it.
func press(s *ReaderScreen, msg tea.Msg) {
	_, cmd := s.Update(msg)
	for cmd != nil {
		switch reply := cmd().(type) {
		case readerSettingsMsg, readerOpenedMsg, statusMsg:
			_, cmd = s.Update(reply)
		default:
			return
		}
	}
}

func TestReaderPagesThroughChapters(t *testing.T) {
	controller, repo, manga := newLibrary(t)
	s := openReader(t, controller, manga)

	assert.Equal(t, "c1", s.session.Chapter.ID)
	assert.Equal(t, 0, s.state.CurrentPageIndex)
	assert.False(t, s.state.HasPreviousChapter)
	assert.True(t, s.state.HasNextChapter)

	press(s, key(tea.KeyRight))
	assert.Equal(t, 1, s.state.CurrentPageIndex)

	press(s, key(tea.KeyEnd))
	assert.Equal(t, 2, s.state.CurrentPageIndex)

	// Past the last page the transition page shows, then the next chapter.
	press(s, key(tea.KeyRight))
	assert.Equal(t, reader.TransitionNext, s.state.TransitionPageMode)
	assert.Contains(t, s.View(), "Next: Ch. 2")

	press(s, key(tea.KeyRight))
	assert.Equal(t, "c2", s.session.Chapter.ID)
	assert.Equal(t, 0, s.state.CurrentPageIndex)

	// Going back resumes the previous chapter at its end.
	press(s, key(tea.KeyLeft))
	assert.Equal(t, reader.TransitionPrevious, s.state.TransitionPageMode)
	press(s, key(tea.KeyLeft))
	assert.Equal(t, "c1", s.session.Chapter.ID)
	assert.Equal(t, 2, s.state.CurrentPageIndex)

	progress, err := repo.GetProgress(manga.ID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.Equal(t, "c1", progress.ChapterID)
	assert.Equal(t, 2, progress.Page)

	// Reopening resumes where reading stopped.
	again := openReader(t, controller, manga)
	assert.Equal(t, "c1", again.session.Chapter.ID)
	assert.Equal(t, 2, again.state.CurrentPageIndex)
}

func TestReaderRightToLeftSwapsArrows(t *testing.T) {
	controller, _, manga := newLibrary(t)
	require.NoError(t, controller.SetReaderSetting(manga.ID, reader.FieldReadingDirection, "rtl"))

	s := openReader(t, controller, manga)
	press(s, key(tea.KeyLeft))
	assert.Equal(t, 1, s.state.CurrentPageIndex)

	press(s, key(tea.KeyRight))
	assert.Equal(t, 0, s.state.CurrentPageIndex)
}

func TestReaderOverlayAndTapZones(t *testing.T) {
	controller, _, manga := newLibrary(t)
	s := openReader(t, controller, manga)

	press(s, runes("m"))
	assert.True(t, s.state.OverlayVisible)
	assert.Contains(t, s.View(), "Page 1 of 3")

	press(s, runes("t"))
	assert.True(t, s.state.ShowTapZonePreview)

	// A click hides the preview and, on the right edge, turns the page.
	press(s, tea.MouseMsg{X: 39, Y: 6, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.False(t, s.state.ShowTapZonePreview)
	assert.Equal(t, 1, s.state.CurrentPageIndex)
}

func TestReaderSettingsPanelChangesMode(t *testing.T) {
	controller, _, manga := newLibrary(t)
	s := openReader(t, controller, manga)

	press(s, runes("s"))
	require.NotNil(t, s.panel)

	// The first field is the reading mode; step to double page.
	press(s, key(tea.KeyRight))
	assert.Equal(t, reader.DoublePage, s.controls.Settings.ReadingMode)
	assert.Len(t, s.state.Pages, 2)
	assert.False(t, s.settings.IsDefault[reader.FieldReadingMode])

	press(s, runes("r"))
	assert.Equal(t, reader.SinglePage, s.controls.Settings.ReadingMode)
	assert.Len(t, s.state.Pages, 3)

	press(s, key(tea.KeyEsc))
	assert.Nil(t, s.panel)
}

func TestReaderContinuousScroll(t *testing.T) {
	controller, _, manga := newLibrary(t)
	require.NoError(t, controller.SetReaderSetting(manga.ID, reader.FieldReadingMode, "webtoon"))

	s := openReader(t, controller, manga)
	require.Len(t, s.strip, 3)
	assert.Equal(t, s.content, s.surface.ScrollSize(reader.ScrollY))

	press(s, key(tea.KeyDown))
	assert.Greater(t, s.surface.Offset(reader.ScrollY), 0)

	press(s, key(tea.KeyEnd))
	assert.Equal(t, 2, s.state.CurrentPageIndex)
	assert.Equal(t, s.strip[2].start, s.surface.Offset(reader.ScrollY))
}

func TestReaderContinuousScrollReachesNextChapter(t *testing.T) {
	for _, direction := range []string{"ltr", "rtl"} {
		t.Run(direction, func(t *testing.T) {
			controller, _, manga := newLibrary(t)
			require.NoError(t, controller.SetReaderSetting(manga.ID, reader.FieldReadingMode, "webtoon"))
			require.NoError(t, controller.SetReaderSetting(manga.ID, reader.FieldReadingDirection, direction))

			s := openReader(t, controller, manga)
			press(s, key(tea.KeyDown))
			assert.Equal(t, "c1", s.session.Chapter.ID)
			assert.Greater(t, s.surface.Offset(reader.ScrollY), 0)

			for i := 0; i < 40 && s.session.Chapter.ID == "c1"; i++ {
				press(s, key(tea.KeyDown))
			}
			assert.Equal(t, "c2", s.session.Chapter.ID)

			// The wheel scrolls the new chapter down as well.
			press(s, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
			assert.Equal(t, "c2", s.session.Chapter.ID)
			assert.Greater(t, s.surface.Offset(reader.ScrollY), 0)
		})
	}
}

func TestRootTabsAndQuit(t *testing.T) {
	controller, _, _ := newLibrary(t)
	root := NewRootScreen(context.Background(), controller)
	root.Update(tea.WindowSizeMsg{Width: 80, Height: 30})

	root.Update(key(tea.KeyTab))
	assert.Equal(t, searchScreen, root.currentView)

	// The focused search input takes q.
	_, cmd := root.Update(runes("q"))
	assert.NotEqual(t, tea.Quit(), runCmd(cmd))
	assert.Equal(t, "q", root.search.input.Value())

	root.Update(key(tea.KeyEsc))
	_, cmd = root.Update(runes("q"))
	assert.Equal(t, tea.Quit(), runCmd(cmd))

	root.Update(key(tea.KeyTab))
	assert.Equal(t, migrateScreen, root.currentView)
	root.Update(key(tea.KeyTab))
	assert.Equal(t, libraryScreen, root.currentView)
}

func TestRootOpensReaderFullScreen(t *testing.T) {
	controller, _, manga := newLibrary(t)
	root := NewRootScreen(context.Background(), controller)
	root.Update(tea.WindowSizeMsg{Width: 80, Height: 30})

	root.Update(SwitchScreenMsg{Screen: readerScreen, Manga: manga})
	require.NotNil(t, root.reader)
	assert.Equal(t, readerScreen, root.currentView)
	assert.Equal(t, 30, root.reader.height)

	root.Update(SwitchScreenMsg{Screen: detailsScreen, Manga: manga})
	assert.Nil(t, root.reader)
	assert.Equal(t, detailsScreen, root.currentView)
}

func TestMigrateListsSourcesWithInvalidStoredSort(t *testing.T) {
	controller, repo, _ := newLibrary(t)
	require.NoError(t, repo.SetMetadata(data.MigrateSortSettingsKey, `{"sortBy":7}`))

	s := NewMigrateScreen(context.Background(), controller)
	s.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	s.Update(s.Init()())

	require.NoError(t, s.err)
	require.Len(t, s.sources, 1)
	assert.Equal(t, "stub", s.sources[0].ID)
	assert.Equal(t, migration.SortBySourceName, s.settings.SortBy)

	// Cycling the sort key stores a valid preference again.
	_, cmd := s.Update(runes("s"))
	s.Update(runCmd(cmd))
	stored, err := repo.GetMigrateSortSettings()
	require.NoError(t, err)
	assert.Equal(t, migration.SortByMangaCount, stored.SortBy)
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Japanese", languageName("ja"))
	assert.Equal(t, "Unknown", languageName(""))
	assert.Equal(t, "Unknown", languageName("not a tag"))
}
