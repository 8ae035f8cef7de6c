package sources

import (
	"context"
	"fmt"
	"sort"

	"github.com/kerbaras/mangashelf/pkg/data"
)

type Source interface {
	// Info describes the source for the library and the migrate screen.
	Info() data.Source

	Search(ctx context.Context, query string) ([]*data.Manga, error)
	GetManga(ctx context.Context, id string) (*data.Manga, error)
	GetChapters(ctx context.Context, manga *data.Manga) ([]*data.Chapter, error)
	GetPages(ctx context.Context, manga *data.Manga, chapter *data.Chapter) ([]string, error)

	GetMangaCoverURL(ctx context.Context, manga *data.Manga) (string, error)
	GetChapterCoverURL(ctx context.Context, manga *data.Manga, chapter *data.Chapter) (string, error)
}

var registry = map[string]func() Source{
	MangaDexID: func() Source { return NewMangaDex() },
}

// New returns the source registered under id.
func New(id string) (Source, error) {
	factory, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("unknown source %q", id)
	}
	return factory(), nil
}

// Available lists the registered source ids.
func Available() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
