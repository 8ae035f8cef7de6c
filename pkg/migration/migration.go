// Package migration groups library manga by source for the migrate screen.
package migration

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortBy int

const (
	SortBySourceName SortBy = iota
	SortByMangaCount
)

func (s SortBy) String() string {
	switch s {
	case SortBySourceName:
		return "name"
	case SortByMangaCount:
		return "count"
	default:
		return fmt.Sprintf("SortBy(%d)", int(s))
	}
}

// Next cycles to the other sort key.
func (s SortBy) Next() SortBy {
	return (s + 1) % 2
}

func ParseSortBy(s string) (SortBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "source", "source-name":
		return SortBySourceName, nil
	case "count", "manga-count":
		return SortByMangaCount, nil
	default:
		return SortBySourceName, fmt.Errorf("unknown sort key %q", s)
	}
}

type SortOrder int

const (
	Asc SortOrder = iota
	Desc
)

func (o SortOrder) String() string {
	switch o {
	case Asc:
		return "asc"
	case Desc:
		return "desc"
	default:
		return fmt.Sprintf("SortOrder(%d)", int(o))
	}
}

func (o SortOrder) Next() SortOrder {
	return (o + 1) % 2
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	default:
		return Asc, fmt.Errorf("unknown sort order %q", s)
	}
}

// SortSettings is persisted as a user preference.
type SortSettings struct {
	SortBy    SortBy    `json:"sortBy"`
	SortOrder SortOrder `json:"sortOrder"`
}

// SourceInfo is the source metadata attached to a manga, when known.
type SourceInfo struct {
	ID      string
	Name    string
	Lang    string
	IconURL string
}

// Manga is the minimal view of a library entry the builder needs.
type Manga struct {
	SourceID string
	Source   *SourceInfo
}

type MigratableSource struct {
	ID         string
	Name       string
	Lang       string
	IconURL    string
	MangaCount int
}

// Builder folds manga lists into per-source entries. A Builder is not safe
// for concurrent use.
type Builder struct {
	collator *collate.Collator
}

// NewBuilder returns a builder comparing source names with the collation
// rules of tag.
func NewBuilder(tag language.Tag) *Builder {
	return &Builder{collator: collate.New(tag)}
}

// Build groups mangas by source id and sorts the result. Sources keep the
// order in which they were first seen before sorting, so ties stay stable.
func (b *Builder) Build(mangas []Manga, settings SortSettings) []MigratableSource {
	if len(mangas) == 0 {
		return []MigratableSource{}
	}

	index := make(map[string]int)
	var sources []MigratableSource

	for _, manga := range mangas {
		i, ok := index[manga.SourceID]
		if !ok {
			sources = append(sources, newMigratableSource(manga))
			i = len(sources) - 1
			index[manga.SourceID] = i
		}
		sources[i].MangaCount++
	}

	var cmp func(a, b MigratableSource) int
	switch settings.SortBy {
	case SortBySourceName:
		cmp = func(x, y MigratableSource) int {
			return b.collator.CompareString(x.Name, y.Name)
		}
	case SortByMangaCount:
		cmp = func(x, y MigratableSource) int {
			return x.MangaCount - y.MangaCount
		}
	default:
		panic(fmt.Sprintf("unexpected sortBy %q", settings.SortBy))
	}
	slices.SortStableFunc(sources, cmp)

	switch settings.SortOrder {
	case Asc:
	case Desc:
		slices.Reverse(sources)
	default:
		panic(fmt.Sprintf("unexpected sortOrder %q", settings.SortOrder))
	}

	return sources
}

func newMigratableSource(manga Manga) MigratableSource {
	source := MigratableSource{
		ID:   manga.SourceID,
		Name: manga.SourceID,
		Lang: "unknown",
	}
	if info := manga.Source; info != nil {
		if info.ID != "" {
			source.ID = info.ID
		}
		if info.Name != "" {
			source.Name = info.Name
		}
		if info.Lang != "" {
			source.Lang = info.Lang
		}
		source.IconURL = info.IconURL
	}
	return source
}
