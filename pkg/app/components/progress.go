package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kerbaras/mangashelf/pkg/app/styles"
	"github.com/kerbaras/mangashelf/pkg/i18n"
	"github.com/kerbaras/mangashelf/pkg/services"
)

type ProgressTracker struct {
	downloads map[string]*services.DownloadProgress
	order     []string
	width     int
}

func NewProgressTracker(width int) *ProgressTracker {
	return &ProgressTracker{
		downloads: make(map[string]*services.DownloadProgress),
		width:     width,
	}
}

// SetWidth resizes the progress bars.
func (p *ProgressTracker) SetWidth(width int) {
	p.width = width
}

func (p *ProgressTracker) Update(progress services.DownloadProgress) {
	key := progress.MangaID + ":" + progress.ChapterID
	if progress.Status == services.ProgressComplete && progress.ChapterID != "" {
		delete(p.downloads, key)
		p.order = slices.DeleteFunc(p.order, func(k string) bool { return k == key })
		return
	}
	if _, ok := p.downloads[key]; !ok {
		p.order = append(p.order, key)
	}
	prog := progress
	p.downloads[key] = &prog
}

func (p *ProgressTracker) Clear() {
	p.downloads = make(map[string]*services.DownloadProgress)
	p.order = nil
}

func (p *ProgressTracker) HasActive() bool {
	return len(p.downloads) > 0
}

func (p *ProgressTracker) View() string {
	if len(p.downloads) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(i18n.T("downloads.title")))
	b.WriteString("\n\n")

	for _, key := range p.order {
		progress := p.downloads[key]

		chapterText := i18n.Tf("chapter.label.title", i18n.Args{"number": progress.ChapterNumber})
		if progress.ChapterNumber == "" {
			chapterText = i18n.T("downloads.label.processing")
		}

		b.WriteString(styles.TextStyle.Render(chapterText))
		b.WriteString("\n")

		statusText := progress.Status
		if progress.TotalPages > 0 {
			percentage := float64(progress.CurrentPage) / float64(progress.TotalPages) * 100
			statusText = fmt.Sprintf("%s (%d/%d pages - %.0f%%)",
				progress.Status, progress.CurrentPage, progress.TotalPages, percentage)

			bar := renderProgressBar(progress.CurrentPage, progress.TotalPages, p.width-4)
			b.WriteString(bar)
			b.WriteString("\n")
		}

		b.WriteString(styles.StatusStyle(progress.Status).Render(statusText))
		b.WriteString("\n")

		if progress.Error != nil {
			b.WriteString(styles.StatusError.Render(i18n.Tf("global.label.error", i18n.Args{"error": progress.Error})))
			b.WriteString("\n")
		}

		b.WriteString("\n")
	}

	return b.String()
}

func renderProgressBar(current, total, width int) string {
	if total == 0 || width <= 0 {
		return ""
	}

	filled := min(width, int(float64(current)/float64(total)*float64(width)))
	bar := styles.ProgressBarStyle.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
	return bar
}

// SimpleProgress renders a simple progress bar
func SimpleProgress(current, total, width int) string {
	return renderProgressBar(current, total, width)
}
