package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/kerbaras/mangashelf/pkg/data"
	"github.com/kerbaras/mangashelf/pkg/integrations"
	"github.com/kerbaras/mangashelf/pkg/migration"
	"github.com/kerbaras/mangashelf/pkg/reader"
	"github.com/kerbaras/mangashelf/pkg/sources"
)

// ControllerConfig wires a MangaController.
type ControllerConfig struct {
	SourceType   string
	DownloadDir  string
	ExportDir    string
	DatabasePath string
	// ServerURL, when set, lists migratable sources from a Suwayomi server
	// instead of the local library.
	ServerURL string
	Reader    reader.Settings
	Locale    language.Tag
	Logger    *zap.Logger
}

// DownloadOptions select the chapters to download.
type DownloadOptions struct {
	Language     string
	ChapterIDs   []string
	ChapterRange string // "1-10", inclusive
}

// LibraryEntry is a library manga with its chapter counts.
type LibraryEntry struct {
	Manga      *data.Manga
	Total      int
	Downloaded int
}

// MigrationLister lists library manga with their sources on a server.
type MigrationLister interface {
	MigratableMangas(ctx context.Context) ([]migration.Manga, error)
}

type MangaController struct {
	source      sources.Source
	repo        Repository
	downloader  *Downloader
	exporter    integrations.Exporter
	migrations  MigrationLister
	locale      language.Tag
	defaults    reader.Settings
	downloadDir string
	exportDir   string
	logger      *zap.Logger
}

func NewMangaController(cfg ControllerConfig) (*MangaController, error) {
	if cfg.SourceType == "" {
		cfg.SourceType = sources.MangaDexID
	}
	source, err := sources.New(cfg.SourceType)
	if err != nil {
		return nil, err
	}

	repo, err := data.NewDuckDBRepository(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}

	return NewMangaControllerWith(source, repo, cfg)
}

// NewMangaControllerWith builds a controller over an existing source and
// repository.
func NewMangaControllerWith(source sources.Source, repo Repository, cfg ControllerConfig) (*MangaController, error) {
	if cfg.DownloadDir == "" {
		homeDir, _ := os.UserHomeDir()
		cfg.DownloadDir = filepath.Join(homeDir, "Downloads", "mangashelf")
	}
	if err := os.MkdirAll(cfg.DownloadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = cfg.DownloadDir
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Reader == (reader.Settings{}) {
		cfg.Reader = reader.DefaultSettings()
	}
	if cfg.Locale == language.Und {
		cfg.Locale = language.English
	}

	c := &MangaController{
		source:      source,
		repo:        repo,
		downloader:  NewDownloader(source, repo, cfg.DownloadDir, WithLogger(cfg.Logger)),
		exporter:    integrations.NewEPubExporter(cfg.ExportDir),
		locale:      cfg.Locale,
		defaults:    cfg.Reader,
		downloadDir: cfg.DownloadDir,
		exportDir:   cfg.ExportDir,
		logger:      cfg.Logger,
	}
	if cfg.ServerURL != "" {
		c.migrations = sources.NewSuwayomi(cfg.ServerURL)
	}
	return c, nil
}

func (c *MangaController) Source() sources.Source {
	return c.source
}

func (c *MangaController) Repository() Repository {
	return c.repo
}

// SearchManga searches the source.
func (c *MangaController) SearchManga(ctx context.Context, query string) ([]*data.Manga, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	return c.source.Search(ctx, query)
}

// GetManga fetches a manga from the source.
func (c *MangaController) GetManga(ctx context.Context, id string) (*data.Manga, error) {
	if id == "" {
		return nil, fmt.Errorf("manga ID cannot be empty")
	}
	return c.source.GetManga(ctx, id)
}

// GetMangaFromLibrary returns a library manga, failing when it is unknown.
func (c *MangaController) GetMangaFromLibrary(id string) (*data.Manga, error) {
	if id == "" {
		return nil, fmt.Errorf("manga ID cannot be empty")
	}
	manga, err := c.repo.GetManga(id)
	if err != nil {
		return nil, err
	}
	if manga == nil {
		return nil, fmt.Errorf("manga %s is not in the library", id)
	}
	return manga, nil
}

// FindMangaByName finds a library manga by name, ignoring case. An exact
// match wins; otherwise a single partial match is accepted.
func (c *MangaController) FindMangaByName(name string) (*data.Manga, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("manga name cannot be empty")
	}

	mangas, err := c.repo.ListMangas()
	if err != nil {
		return nil, err
	}

	var partial []*data.Manga
	for _, manga := range mangas {
		if strings.EqualFold(manga.Name, name) || manga.ID == name {
			return manga, nil
		}
		if strings.Contains(strings.ToLower(manga.Name), strings.ToLower(name)) {
			partial = append(partial, manga)
		}
	}

	switch len(partial) {
	case 0:
		return nil, fmt.Errorf("manga %q not found in library", name)
	case 1:
		return partial[0], nil
	default:
		return nil, fmt.Errorf("manga %q is ambiguous: %d matches", name, len(partial))
	}
}

// ListLibrary returns the library with chapter counts.
func (c *MangaController) ListLibrary() ([]LibraryEntry, error) {
	mangas, err := c.repo.ListMangas()
	if err != nil {
		return nil, err
	}
	entries := make([]LibraryEntry, 0, len(mangas))
	for _, manga := range mangas {
		_, total, downloaded, err := c.repo.GetMangaWithChapterCount(manga.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LibraryEntry{Manga: manga, Total: total, Downloaded: downloaded})
	}
	return entries, nil
}

// GetChapters fetches the chapters of a manga from the source.
func (c *MangaController) GetChapters(ctx context.Context, manga *data.Manga) ([]*data.Chapter, error) {
	if manga == nil {
		return nil, fmt.Errorf("manga cannot be nil")
	}
	return c.source.GetChapters(ctx, manga)
}

// LibraryChapters returns the stored chapters of a library manga.
func (c *MangaController) LibraryChapters(mangaID string) ([]*data.Chapter, error) {
	return c.repo.GetChapters(mangaID)
}

// AddMangaToLibrary stores the manga, its source and its chapter list.
func (c *MangaController) AddMangaToLibrary(ctx context.Context, manga *data.Manga) error {
	if manga == nil {
		return fmt.Errorf("manga cannot be nil")
	}

	info := c.source.Info()
	if manga.SourceID == "" {
		manga.SourceID = info.ID
	}
	if err := c.repo.SaveSource(&info); err != nil {
		return err
	}
	if err := c.repo.SaveManga(manga); err != nil {
		return err
	}

	chapters, err := c.source.GetChapters(ctx, manga)
	if err != nil {
		return fmt.Errorf("failed to get chapters: %w", err)
	}
	return c.saveChapters(manga, chapters)
}

// saveChapters stores chapters without losing the download state of known
// ones.
func (c *MangaController) saveChapters(manga *data.Manga, chapters []*data.Chapter) error {
	existing, err := c.repo.GetChapters(manga.ID)
	if err != nil {
		return err
	}
	known := make(map[string]*data.Chapter, len(existing))
	for _, chapter := range existing {
		known[chapter.ID] = chapter
	}

	for _, chapter := range chapters {
		chapter.MangaID = manga.ID
		if prev, ok := known[chapter.ID]; ok && prev.Downloaded {
			chapter.Downloaded = true
			chapter.FilePath = prev.FilePath
		}
		if err := c.repo.SaveChapter(chapter); err != nil {
			return err
		}
	}
	c.logger.Debug("chapters saved", zap.String("manga", manga.ID), zap.Int("count", len(chapters)))
	return nil
}

// RemoveManga deletes a manga from the library. Downloaded files are kept
// unless deleteFiles is set.
func (c *MangaController) RemoveManga(manga *data.Manga, deleteFiles bool) error {
	if manga == nil {
		return fmt.Errorf("manga cannot be nil")
	}
	if err := c.repo.DeleteManga(manga.ID); err != nil {
		return err
	}
	if deleteFiles {
		return os.RemoveAll(c.downloader.MangaDir(manga))
	}
	return nil
}

// DownloadManga downloads the chapters selected by options. Chapters come
// from the library when known, from the source otherwise.
func (c *MangaController) DownloadManga(ctx context.Context, manga *data.Manga, options DownloadOptions) error {
	if manga == nil {
		return fmt.Errorf("manga cannot be nil")
	}

	chapters, err := c.repo.GetChapters(manga.ID)
	if err != nil {
		return err
	}
	if len(chapters) == 0 {
		chapters, err = c.source.GetChapters(ctx, manga)
		if err != nil {
			return fmt.Errorf("failed to get chapters: %w", err)
		}
		if err := c.saveChapters(manga, chapters); err != nil {
			return err
		}
	}

	var pending []*data.Chapter
	for _, chapter := range c.filterChapters(chapters, options) {
		if !chapter.Downloaded {
			pending = append(pending, chapter)
		}
	}
	if len(pending) == 0 {
		return fmt.Errorf("no chapters to download")
	}

	c.logger.Info("download started", zap.String("manga", manga.ID), zap.Int("chapters", len(pending)))
	return c.downloader.DownloadManga(ctx, manga, pending)
}

func (c *MangaController) DownloadChapter(ctx context.Context, manga *data.Manga, chapter *data.Chapter) error {
	if manga == nil {
		return fmt.Errorf("manga cannot be nil")
	}
	if chapter == nil {
		return fmt.Errorf("chapter cannot be nil")
	}
	return c.downloader.DownloadChapter(ctx, manga, chapter)
}

func (c *MangaController) filterChapters(chapters []*data.Chapter, options DownloadOptions) []*data.Chapter {
	filtered := chapters

	if options.Language != "" {
		filtered = slices.DeleteFunc(slices.Clone(filtered), func(ch *data.Chapter) bool {
			return ch.Language != options.Language
		})
	}

	if len(options.ChapterIDs) > 0 {
		filtered = slices.DeleteFunc(slices.Clone(filtered), func(ch *data.Chapter) bool {
			return !slices.Contains(options.ChapterIDs, ch.ID)
		})
	}

	if options.ChapterRange != "" {
		filtered = c.filterByRange(filtered, options.ChapterRange)
	}

	return filtered
}

// filterByRange keeps chapters numbered within "start-end". A malformed
// range keeps everything.
func (c *MangaController) filterByRange(chapters []*data.Chapter, rangeStr string) []*data.Chapter {
	from, to, ok := strings.Cut(rangeStr, "-")
	if !ok {
		return chapters
	}
	start, err := strconv.ParseFloat(strings.TrimSpace(from), 64)
	if err != nil {
		return chapters
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(to), 64)
	if err != nil {
		return chapters
	}

	var filtered []*data.Chapter
	for _, ch := range chapters {
		number, err := strconv.ParseFloat(ch.Number, 64)
		if err != nil {
			continue
		}
		if number >= start && number <= end {
			filtered = append(filtered, ch)
		}
	}
	return filtered
}

// Export packages the downloaded chapters of a manga into an EPub.
func (c *MangaController) Export(manga *data.Manga, options integrations.ExportOptions) (string, error) {
	if manga == nil {
		return "", fmt.Errorf("manga cannot be nil")
	}
	chapters, err := c.repo.GetChapters(manga.ID)
	if err != nil {
		return "", err
	}
	if options.Author == "" {
		options.Author = c.source.Info().Name
	}
	if options.CoverPath == "" {
		options.CoverPath, _ = c.downloader.CoverPath(manga)
	}
	if !options.RightToLeft {
		settings, err := c.ReaderSettings(manga.ID)
		if err == nil && settings.ReadingDirection == reader.RTL {
			options.RightToLeft = true
		}
	}
	return c.exporter.Export(manga, chapters, options)
}

// ReaderSettings returns the effective reader settings of a manga.
func (c *MangaController) ReaderSettings(mangaID string) (*data.ReaderSettings, error) {
	return c.repo.GetReaderSettings(mangaID, c.defaults)
}

func (c *MangaController) SetReaderSetting(mangaID, field, value string) error {
	return c.repo.SaveReaderSetting(mangaID, field, value)
}

// ResetReaderSetting reverts field to the default, or every field when
// field is empty.
func (c *MangaController) ResetReaderSetting(mangaID, field string) error {
	if field != "" {
		if !slices.Contains(reader.SettingFields, field) {
			return fmt.Errorf("unknown reader setting %q", field)
		}
		return c.repo.DeleteReaderSetting(mangaID, field)
	}
	for _, f := range reader.SettingFields {
		if err := c.repo.DeleteReaderSetting(mangaID, f); err != nil {
			return err
		}
	}
	return nil
}

// MigrationSortSettings returns the stored sort preference. An unreadable
// preference falls back to source name ascending.
func (c *MangaController) MigrationSortSettings() migration.SortSettings {
	settings, err := c.repo.GetMigrateSortSettings()
	if err != nil {
		c.logger.Warn("invalid migrate sort settings, using defaults", zap.Error(err))
	}
	return settings
}

func (c *MangaController) SetMigrationSortSettings(settings migration.SortSettings) error {
	return c.repo.SaveMigrateSortSettings(settings)
}

// MigratableSources groups the library by source, sorted by the stored
// preference.
func (c *MangaController) MigratableSources(ctx context.Context) ([]migration.MigratableSource, error) {
	settings := c.MigrationSortSettings()

	var (
		mangas []migration.Manga
		err    error
	)
	if c.migrations != nil {
		mangas, err = c.migrations.MigratableMangas(ctx)
	} else {
		mangas, err = c.repo.MigratableMangas()
	}
	if err != nil {
		return nil, err
	}
	return migration.NewBuilder(c.locale).Build(mangas, settings), nil
}

// NewReader opens a reading session over the downloaded chapters of manga.
func (c *MangaController) NewReader(manga *data.Manga) (*ReaderService, error) {
	return NewReaderService(c.repo, manga, c.logger)
}

// GetProgressChannel returns the channel for receiving download progress updates
func (c *MangaController) GetProgressChannel() <-chan DownloadProgress {
	return c.downloader.GetProgressChannel()
}

func (c *MangaController) GetDownloadDirectory() string {
	return c.downloadDir
}

func (c *MangaController) SaveManga(manga *data.Manga) error {
	if manga == nil {
		return fmt.Errorf("manga cannot be nil")
	}
	return c.repo.SaveManga(manga)
}

func (c *MangaController) SaveChapter(chapter *data.Chapter) error {
	if chapter == nil {
		return fmt.Errorf("chapter cannot be nil")
	}
	return c.repo.SaveChapter(chapter)
}

func (c *MangaController) UpdateChapterStatus(chapterID string, downloaded bool, filePath string) error {
	if chapterID == "" {
		return fmt.Errorf("chapter ID cannot be empty")
	}
	return c.repo.UpdateChapterStatus(chapterID, downloaded, filePath)
}

// Close stops the downloader.
func (c *MangaController) Close() error {
	if c.downloader != nil {
		c.downloader.Close()
	}
	if closer, ok := c.repo.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
