package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/kerbaras/mangashelf/pkg/data"
	"github.com/kerbaras/mangashelf/pkg/integrations"
	"github.com/kerbaras/mangashelf/pkg/sources"
)

// Progress statuses.
const (
	ProgressDownloading = "downloading"
	ProgressComplete    = "complete"
	ProgressError       = "error"
)

const (
	defaultConcurrency = 3
	defaultRate        = rate.Limit(2) // requests per second
	coverFileName      = "cover"
)

// DownloadProgress represents the progress of a download operation
type DownloadProgress struct {
	MangaID       string
	ChapterID     string
	CurrentPage   int
	TotalPages    int
	Status        string // "downloading", "complete", "error"
	Error         error
	ChapterNumber string
}

// Downloader fetches chapter pages into per-chapter image directories.
type Downloader struct {
	source      sources.Source
	repo        Repository
	downloadDir string
	client      *http.Client
	limiter     *rate.Limiter
	concurrency int
	logger      *zap.Logger

	coverMu sync.Mutex

	mu           sync.RWMutex
	closed       bool
	progressChan chan DownloadProgress
}

type DownloaderOption func(*Downloader)

// WithRateLimit caps outgoing requests at r per second.
func WithRateLimit(r rate.Limit, burst int) DownloaderOption {
	return func(d *Downloader) { d.limiter = rate.NewLimiter(r, burst) }
}

func WithConcurrency(n int) DownloaderOption {
	return func(d *Downloader) { d.concurrency = max(1, n) }
}

func WithHTTPClient(client *http.Client) DownloaderOption {
	return func(d *Downloader) { d.client = client }
}

func WithLogger(logger *zap.Logger) DownloaderOption {
	return func(d *Downloader) { d.logger = logger }
}

func NewDownloader(source sources.Source, repo Repository, downloadDir string, opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		source:       source,
		repo:         repo,
		downloadDir:  downloadDir,
		client:       &http.Client{Timeout: time.Minute},
		limiter:      rate.NewLimiter(defaultRate, 1),
		concurrency:  defaultConcurrency,
		logger:       zap.NewNop(),
		progressChan: make(chan DownloadProgress, 100),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// GetProgressChannel returns the channel for receiving download progress updates
func (d *Downloader) GetProgressChannel() <-chan DownloadProgress {
	return d.progressChan
}

// MangaDir is the directory holding the chapters of a manga.
func (d *Downloader) MangaDir(manga *data.Manga) string {
	name := integrations.SanitizeFilename(manga.Name)
	if name == "" {
		name = integrations.SanitizeFilename(manga.ID)
	}
	return filepath.Join(d.downloadDir, name)
}

// ChapterDir is the directory holding the pages of a chapter.
func (d *Downloader) ChapterDir(manga *data.Manga, chapter *data.Chapter) string {
	name := "Ch. " + chapter.Number
	if chapter.Volume != "" {
		name = "Vol. " + chapter.Volume + " " + name
	}
	if chapter.Language != "" {
		name += " [" + chapter.Language + "]"
	}
	return filepath.Join(d.MangaDir(manga), integrations.SanitizeFilename(name+" "+chapter.ID))
}

// DownloadManga downloads chapters concurrently. Failed chapters do not stop
// the others; the manga ends up "completed" or "partial", or "error" with the
// joined chapter errors when none of them downloaded.
func (d *Downloader) DownloadManga(ctx context.Context, manga *data.Manga, chapters []*data.Chapter) error {
	if manga == nil {
		return fmt.Errorf("manga cannot be nil")
	}

	manga.Status = data.StatusDownloading
	if err := d.repo.SaveManga(manga); err != nil {
		return fmt.Errorf("failed to save manga: %w", err)
	}

	if len(chapters) == 0 {
		var err error
		chapters, err = d.source.GetChapters(ctx, manga)
		if err != nil {
			return fmt.Errorf("failed to get chapters: %w", err)
		}
	}

	var (
		mu     sync.Mutex
		failed []error
	)
	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for _, chapter := range chapters {
		g.Go(func() error {
			if err := d.DownloadChapter(ctx, manga, chapter); err != nil {
				mu.Lock()
				failed = append(failed, fmt.Errorf("chapter %s: %w", chapter.Number, err))
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	var failure error
	switch {
	case len(failed) == 0:
		manga.Status = data.StatusCompleted
	case len(failed) == len(chapters):
		manga.Status = data.StatusError
		failure = fmt.Errorf("failed to download %s: %w", manga.Name, errors.Join(failed...))
		d.logger.Error("manga download failed", zap.String("manga", manga.ID), zap.Error(failure))
	default:
		manga.Status = data.StatusPartial
		d.logger.Warn("manga download incomplete",
			zap.String("manga", manga.ID),
			zap.Int("failed", len(failed)),
			zap.Error(errors.Join(failed...)),
		)
	}
	if err := d.repo.UpdateMangaStatus(manga.ID, manga.Status); err != nil {
		return err
	}
	if failure != nil {
		return failure
	}
	return ctx.Err()
}

// DownloadChapter downloads every page of a chapter into its directory and
// marks it downloaded.
func (d *Downloader) DownloadChapter(ctx context.Context, manga *data.Manga, chapter *data.Chapter) (err error) {
	if manga == nil {
		return fmt.Errorf("manga cannot be nil")
	}
	if chapter == nil {
		return fmt.Errorf("chapter cannot be nil")
	}

	progress := DownloadProgress{
		MangaID:       manga.ID,
		ChapterID:     chapter.ID,
		ChapterNumber: chapter.Number,
		Status:        ProgressDownloading,
	}
	defer func() {
		if err != nil {
			progress.Status = ProgressError
			progress.Error = err
			d.sendProgress(progress)
		}
	}()

	d.sendProgress(progress)

	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}
	pages, err := d.source.GetPages(ctx, manga, chapter)
	if err != nil {
		return fmt.Errorf("failed to get pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no pages found for chapter")
	}

	d.downloadCover(ctx, manga)

	dir := d.ChapterDir(manga, chapter)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create chapter directory: %w", err)
	}

	progress.TotalPages = len(pages)
	for i, pageURL := range pages {
		progress.CurrentPage = i + 1
		d.sendProgress(progress)

		if err := d.limiter.Wait(ctx); err != nil {
			return err
		}
		content, contentType, err := d.downloadImage(ctx, pageURL)
		if err != nil {
			return fmt.Errorf("failed to download page %d: %w", i, err)
		}
		path := filepath.Join(dir, integrations.PageFileName(i, contentType))
		if err := os.WriteFile(path, content, 0644); err != nil {
			return fmt.Errorf("failed to write page %d: %w", i, err)
		}
	}

	chapter.MangaID = manga.ID
	chapter.Downloaded = true
	chapter.FilePath = dir
	if err := d.repo.SaveChapter(chapter); err != nil {
		return fmt.Errorf("failed to update chapter status: %w", err)
	}

	progress.Status = ProgressComplete
	d.sendProgress(progress)
	d.logger.Debug("chapter downloaded",
		zap.String("manga", manga.ID),
		zap.String("chapter", chapter.ID),
		zap.Int("pages", len(pages)),
	)
	return nil
}

// CoverPath returns the downloaded cover of a manga, if any.
func (d *Downloader) CoverPath(manga *data.Manga) (string, bool) {
	matches, _ := filepath.Glob(filepath.Join(d.MangaDir(manga), coverFileName+".*"))
	if len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// downloadCover stores the manga cover once. Failures are logged only.
func (d *Downloader) downloadCover(ctx context.Context, manga *data.Manga) {
	d.coverMu.Lock()
	defer d.coverMu.Unlock()

	if _, ok := d.CoverPath(manga); ok {
		return
	}
	coverURL, err := d.source.GetMangaCoverURL(ctx, manga)
	if err != nil || coverURL == "" {
		return
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return
	}
	content, contentType, err := d.downloadImage(ctx, coverURL)
	if err != nil {
		d.logger.Debug("cover download failed", zap.String("manga", manga.ID), zap.Error(err))
		return
	}

	dir := d.MangaDir(manga)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return
	}
	ext := filepath.Ext(integrations.PageFileName(0, contentType))
	if err := os.WriteFile(filepath.Join(dir, coverFileName+ext), content, 0644); err != nil {
		d.logger.Debug("cover write failed", zap.String("manga", manga.ID), zap.Error(err))
	}
}

// downloadImage downloads a single image and returns its content and type
func (d *Downloader) downloadImage(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("bad status: %s", resp.Status)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image content: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}
	return content, contentType, nil
}

// sendProgress sends a progress update (non-blocking)
func (d *Downloader) sendProgress(progress DownloadProgress) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	select {
	case d.progressChan <- progress:
	default:
		// Channel full, skip this update
	}
}

// Close stops progress reporting and closes the progress channel.
func (d *Downloader) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.progressChan)
	}
}
