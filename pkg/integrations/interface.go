package integrations

import "github.com/kerbaras/mangashelf/pkg/data"

// Exporter packages downloaded chapters into a single file.
type Exporter interface {
	Export(manga *data.Manga, chapters []*data.Chapter, options ExportOptions) (string, error)
}

// ExportOptions tune an export.
type ExportOptions struct {
	Author      string
	Language    string
	RightToLeft bool
	// CoverPath is an image file used as the book cover.
	CoverPath string
	// Images, when set, post-processes every page before it is packaged.
	Images *ImageSettings
}
