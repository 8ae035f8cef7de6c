package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/kerbaras/mangashelf/pkg/data"
	"github.com/kerbaras/mangashelf/pkg/integrations"
	"github.com/kerbaras/mangashelf/pkg/reader"
)

// E2E tests for the full download pipeline

func newTestLibrary(t *testing.T) *data.Repository {
	t.Helper()
	db, err := data.InitDuckDB(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("InitDuckDB() error = %v", err)
	}
	repo := data.NewRepository(db)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestE2E_FullDownloadPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	pngData := createTestPNG()

	var requestCount atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount.Add(1)
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		w.Write(pngData)
	}))
	defer server.Close()

	source := &mockSource{
		getChaptersFunc: func(manga *data.Manga) ([]*data.Chapter, error) {
			return []*data.Chapter{
				{ID: "ch2", Number: "2", Language: "en", Title: "Second Chapter"},
				{ID: "ch1", Number: "1", Language: "en", Title: "First Chapter"},
				{ID: "ch1-es", Number: "1", Language: "es", Title: "Primer Capítulo"},
			}, nil
		},
		getPagesFunc: func(manga *data.Manga, chapter *data.Chapter) ([]string, error) {
			return []string{
				server.URL + "/page1.png",
				server.URL + "/page2.png",
				server.URL + "/page3.png",
			}, nil
		},
		getMangaCoverURLFunc: func(manga *data.Manga) (string, error) {
			return server.URL + "/cover.png", nil
		},
	}

	repo := newTestLibrary(t)
	downloadDir := filepath.Join(t.TempDir(), "downloads")
	controller := newTestController(t, source, repo)
	controller.downloadDir = downloadDir
	controller.downloader = fastDownloader(source, repo, downloadDir)

	manga := &data.Manga{
		ID:          "manga-test",
		Name:        "E2E Test Manga",
		Description: "Testing full pipeline",
	}
	ctx := context.Background()

	t.Run("Add to library", func(t *testing.T) {
		if err := controller.AddMangaToLibrary(ctx, manga); err != nil {
			t.Fatalf("AddMangaToLibrary() error = %v", err)
		}

		entries, err := controller.ListLibrary()
		if err != nil {
			t.Fatalf("ListLibrary() error = %v", err)
		}
		if len(entries) != 1 || entries[0].Total != 3 || entries[0].Downloaded != 0 {
			t.Errorf("ListLibrary() = %+v", entries)
		}
	})

	t.Run("Download english chapters", func(t *testing.T) {
		err := controller.DownloadManga(ctx, manga, DownloadOptions{Language: "en"})
		if err != nil {
			t.Fatalf("DownloadManga() error = %v", err)
		}

		chapters, err := repo.GetChapters(manga.ID)
		if err != nil {
			t.Fatal(err)
		}
		for _, ch := range chapters {
			want := ch.Language == "en"
			if ch.Downloaded != want {
				t.Errorf("chapter %s downloaded = %v, want %v", ch.ID, ch.Downloaded, want)
			}
			if want {
				pages, err := integrations.ChapterPages(ch.FilePath)
				if err != nil || len(pages) != 3 {
					t.Errorf("chapter %s pages = %v, %v", ch.ID, pages, err)
				}
			}
		}

		stored, err := repo.GetManga(manga.ID)
		if err != nil {
			t.Fatal(err)
		}
		if stored.Status != data.StatusCompleted {
			t.Errorf("manga status = %q, want %q", stored.Status, data.StatusCompleted)
		}
		// 2 chapters x 3 pages and one cover.
		if got := requestCount.Load(); got != 7 {
			t.Errorf("requests = %d, want 7", got)
		}
	})

	t.Run("Nothing left to download", func(t *testing.T) {
		if err := controller.DownloadManga(ctx, manga, DownloadOptions{Language: "en"}); err == nil {
			t.Error("DownloadManga() should fail when every chapter is downloaded")
		}
	})

	t.Run("Export", func(t *testing.T) {
		if err := controller.SetReaderSetting(manga.ID, reader.FieldReadingDirection, "rtl"); err != nil {
			t.Fatal(err)
		}
		settings := integrations.EReaderImageSettings(2, 3)
		path, err := controller.Export(manga, integrations.ExportOptions{Images: &settings})
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Errorf("exported file = %v, %v", info, err)
		}
	})

	t.Run("Read and resume", func(t *testing.T) {
		service, err := controller.NewReader(manga)
		if err != nil {
			t.Fatal(err)
		}
		if len(service.Chapters()) != 2 {
			t.Fatalf("readable chapters = %d, want 2", len(service.Chapters()))
		}

		session, err := service.Open("")
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if session.Chapter.ID != "ch1" || session.HasPrevious || !session.HasNext {
			t.Errorf("Open() = %+v", session)
		}

		service.NavigateToChapter(reader.OffsetNext, reader.ResumeStart)
		next, ok := service.Pending()
		if !ok || next.Chapter.ID != "ch2" || next.HasNext {
			t.Fatalf("Pending() = %+v, %v", next, ok)
		}
		if err := service.SaveProgress(next.Chapter.ID, 2); err != nil {
			t.Fatal(err)
		}

		resumed, err := controller.NewReader(manga)
		if err != nil {
			t.Fatal(err)
		}
		session, err = resumed.Open("")
		if err != nil {
			t.Fatal(err)
		}
		if session.Chapter.ID != "ch2" || session.StartPage != 2 {
			t.Errorf("resumed at %s page %d, want ch2 page 2", session.Chapter.ID, session.StartPage)
		}
	})

	t.Run("Remove from library", func(t *testing.T) {
		if err := controller.RemoveManga(manga, true); err != nil {
			t.Fatal(err)
		}
		if stored, _ := repo.GetManga(manga.ID); stored != nil {
			t.Error("manga should be gone from the library")
		}
		if _, err := os.Stat(controller.downloader.MangaDir(manga)); !os.IsNotExist(err) {
			t.Error("manga files should be removed")
		}
	})
}

func TestE2E_ReaderNavigation(t *testing.T) {
	repo := newTestLibrary(t)
	manga := &data.Manga{ID: "m", Name: "Navigation"}
	if err := repo.SaveManga(manga); err != nil {
		t.Fatal(err)
	}

	for i, lang := range []string{"en", "es", "en", "en"} {
		dir := t.TempDir()
		for p := 0; p <= i; p++ {
			name := filepath.Join(dir, integrations.PageFileName(p, "image/png"))
			if err := os.WriteFile(name, createTestPNG(), 0644); err != nil {
				t.Fatal(err)
			}
		}
		chapter := &data.Chapter{
			ID:         fmt.Sprintf("c%d", i),
			MangaID:    manga.ID,
			Number:     fmt.Sprint(i + 1),
			Language:   lang,
			Downloaded: i != 3,
			FilePath:   dir,
		}
		if err := repo.SaveChapter(chapter); err != nil {
			t.Fatal(err)
		}
	}

	service, err := NewReaderService(repo, manga, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := service.Open("c3"); err == nil {
		t.Error("Open() should fail for a chapter that is not downloaded")
	}

	session, err := service.Open("c0")
	if err != nil {
		t.Fatal(err)
	}
	if session.HasPrevious || !session.HasNext {
		t.Errorf("c0 neighbours = %v/%v", session.HasPrevious, session.HasNext)
	}

	// The spanish chapter is skipped.
	service.NavigateToChapter(reader.OffsetNext, reader.ResumeStart)
	next, ok := service.Pending()
	if !ok || next.Chapter.ID != "c2" {
		t.Fatalf("next chapter = %+v", next)
	}
	if next.HasNext {
		t.Error("c2 is the last downloaded english chapter")
	}

	service.NavigateToChapter(reader.OffsetNext, reader.ResumeStart)
	if _, ok := service.Pending(); ok {
		t.Error("navigating past the last chapter should do nothing")
	}

	service.NavigateToChapter(reader.OffsetPrevious, reader.ResumeEnd)
	prev, ok := service.Pending()
	if !ok || prev.Chapter.ID != "c0" || prev.Resume != reader.ResumeEnd {
		t.Fatalf("previous chapter = %+v", prev)
	}
	if prev.StartPage != len(prev.Pages)-1 {
		t.Errorf("StartPage = %d, want last page", prev.StartPage)
	}
	if _, ok := service.Pending(); ok {
		t.Error("Pending() should clear the session")
	}
}

func TestE2E_ReaderSettingsRoundTrip(t *testing.T) {
	repo := newTestLibrary(t)
	controller := newTestController(t, &mockSource{}, repo)

	if err := controller.SetReaderSetting("m", reader.FieldReadingMode, "webtoon"); err != nil {
		t.Fatal(err)
	}
	if err := controller.SetReaderSetting("m", reader.FieldScrollAmount, "500"); err == nil {
		t.Error("SetReaderSetting() should reject an out of range scroll amount")
	}

	settings, err := controller.ReaderSettings("m")
	if err != nil {
		t.Fatal(err)
	}
	if settings.ReadingMode != reader.Webtoon || settings.IsDefault[reader.FieldReadingMode] {
		t.Errorf("ReaderSettings() = %+v", settings)
	}

	if err := controller.ResetReaderSetting("m", ""); err != nil {
		t.Fatal(err)
	}
	settings, err = controller.ReaderSettings("m")
	if err != nil {
		t.Fatal(err)
	}
	if settings.Settings != reader.DefaultSettings() {
		t.Errorf("settings after reset = %+v", settings.Settings)
	}
}
