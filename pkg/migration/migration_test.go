package migration

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func mangaFrom(sourceID, name string) Manga {
	return Manga{SourceID: sourceID, Source: &SourceInfo{ID: sourceID, Name: name, Lang: "en"}}
}

func names(sources []MigratableSource) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = s.Name
	}
	return out
}

func TestBuildEmpty(t *testing.T) {
	b := NewBuilder(language.English)
	assert.Empty(t, b.Build(nil, SortSettings{}))
}

func TestBuildCountsSumToInput(t *testing.T) {
	b := NewBuilder(language.English)

	var mangas []Manga
	for i := 0; i < 23; i++ {
		id := fmt.Sprintf("src-%d", i%4)
		mangas = append(mangas, mangaFrom(id, "Source "+id))
	}

	sources := b.Build(mangas, SortSettings{SortBy: SortByMangaCount, SortOrder: Desc})
	require.Len(t, sources, 4)

	total := 0
	for _, s := range sources {
		total += s.MangaCount
	}
	assert.Equal(t, 23, total)
	assert.Equal(t, 6, sources[0].MangaCount)
	assert.Equal(t, 5, sources[3].MangaCount)
}

func TestBuildSortByNameAscending(t *testing.T) {
	b := NewBuilder(language.English)
	mangas := []Manga{
		mangaFrom("3", "mangadex"),
		mangaFrom("1", "Comick"),
		mangaFrom("2", "Bato"),
		mangaFrom("1", "Comick"),
	}

	sources := b.Build(mangas, SortSettings{SortBy: SortBySourceName, SortOrder: Asc})
	assert.Equal(t, []string{"Bato", "Comick", "mangadex"}, names(sources))

	sources = b.Build(mangas, SortSettings{SortBy: SortBySourceName, SortOrder: Desc})
	assert.Equal(t, []string{"mangadex", "Comick", "Bato"}, names(sources))
}

func TestBuildNameTiesKeepFirstSeenOrder(t *testing.T) {
	b := NewBuilder(language.English)
	mangas := []Manga{
		mangaFrom("b", "Same"),
		mangaFrom("a", "Same"),
		mangaFrom("c", "Other"),
	}

	sources := b.Build(mangas, SortSettings{SortBy: SortBySourceName, SortOrder: Asc})
	require.Len(t, sources, 3)
	assert.Equal(t, "c", sources[0].ID)
	assert.Equal(t, "b", sources[1].ID)
	assert.Equal(t, "a", sources[2].ID)
}

func TestBuildFallsBackToSourceID(t *testing.T) {
	b := NewBuilder(language.English)

	sources := b.Build([]Manga{{SourceID: "0"}, {SourceID: "0"}}, SortSettings{})
	require.Len(t, sources, 1)
	assert.Equal(t, MigratableSource{ID: "0", Name: "0", Lang: "unknown", MangaCount: 2}, sources[0])
}

func TestBuildUnknownSettingsPanic(t *testing.T) {
	b := NewBuilder(language.English)
	mangas := []Manga{mangaFrom("1", "A")}

	assert.Panics(t, func() { b.Build(mangas, SortSettings{SortBy: SortBy(5)}) })
	assert.Panics(t, func() { b.Build(mangas, SortSettings{SortOrder: SortOrder(5)}) })
}

func TestSortSettingsCycle(t *testing.T) {
	assert.Equal(t, SortByMangaCount, SortBySourceName.Next())
	assert.Equal(t, SortBySourceName, SortByMangaCount.Next())
	assert.Equal(t, Desc, Asc.Next())

	by, err := ParseSortBy("count")
	require.NoError(t, err)
	assert.Equal(t, SortByMangaCount, by)

	_, err = ParseSortOrder("sideways")
	assert.Error(t, err)
}
