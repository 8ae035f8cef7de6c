package data

import (
	"cmp"
	"math"
	"strconv"
	"strings"
	"time"
)

// Manga status values.
const (
	StatusDownloading = "downloading"
	StatusCompleted   = "completed"
	StatusPartial     = "partial"
	StatusError       = "error"
)

type Manga struct {
	ID          string
	Name        string
	Description string
	CoverURL    string
	SourceID    string
	Status      string // "downloading", "completed", "partial", "error"
}

type Chapter struct {
	ID         string
	MangaID    string
	Title      string
	Language   string
	Volume     string
	Number     string
	Downloaded bool
	FilePath   string // Path to downloaded images directory
}

// DisplayName is the chapter title, or its number when untitled.
func (c *Chapter) DisplayName() string {
	if c.Title != "" {
		return c.Title
	}
	if c.Volume != "" {
		return "Vol. " + c.Volume + " Ch. " + c.Number
	}
	return "Ch. " + c.Number
}

// CompareChapters orders chapters by volume, then number, the way
// Repository.GetChapters does. Missing or non-numeric values sort last.
func CompareChapters(a, b *Chapter) int {
	if c := cmp.Compare(sortKey(a.Volume), sortKey(b.Volume)); c != 0 {
		return c
	}
	if c := cmp.Compare(sortKey(a.Number), sortKey(b.Number)); c != 0 {
		return c
	}
	if c := strings.Compare(a.Number, b.Number); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

func sortKey(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return math.Inf(1)
	}
	return f
}

// Source is a catalogue manga are read from.
type Source struct {
	ID      string
	Name    string
	Lang    string
	IconURL string
}

// ReadingProgress is the last page read of a chapter.
type ReadingProgress struct {
	MangaID   string
	ChapterID string
	Page      int
	UpdatedAt time.Time
}
