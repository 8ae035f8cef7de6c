package data

import (
	"testing"

	"github.com/kerbaras/mangashelf/pkg/migration"
	"github.com/kerbaras/mangashelf/pkg/reader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestReaderSettingsMergeWithDefaults(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SaveReaderSetting("manga-1", reader.FieldReadingDirection, "RTL"))
	require.NoError(t, repo.SaveReaderSetting("manga-1", reader.FieldScrollAmount, "50"))

	defaults := reader.DefaultSettings()
	defaults.ReadingMode = reader.Webtoon

	settings, err := repo.GetReaderSettings("manga-1", defaults)
	require.NoError(t, err)

	assert.Equal(t, reader.RTL, settings.ReadingDirection)
	assert.Equal(t, reader.ScrollAmountMedium, settings.ScrollAmount)
	assert.Equal(t, reader.Webtoon, settings.ReadingMode)

	assert.False(t, settings.IsDefault[reader.FieldReadingDirection])
	assert.False(t, settings.IsDefault[reader.FieldScrollAmount])
	assert.True(t, settings.IsDefault[reader.FieldReadingMode])
	assert.True(t, settings.IsDefault[reader.FieldStaticNav])
}

func TestReaderSettingsAreScopedToManga(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SaveReaderSetting("manga-1", reader.FieldReadingMode, "webtoon"))

	settings, err := repo.GetReaderSettings("manga-2", reader.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, reader.SinglePage, settings.ReadingMode)
}

func TestSaveReaderSettingValidates(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	assert.Error(t, repo.SaveReaderSetting("manga-1", reader.FieldReadingMode, "sideways"))
	assert.Error(t, repo.SaveReaderSetting("manga-1", "zoom", "2"))
}

func TestDeleteReaderSettingRevertsToDefault(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SaveReaderSetting("manga-1", reader.FieldReadingMode, "double-page"))
	require.NoError(t, repo.SaveReaderSetting("manga-1", reader.FieldReadingMode, "webtoon"))
	require.NoError(t, repo.SaveReaderSetting("manga-1", reader.FieldStaticNav, "true"))
	require.NoError(t, repo.DeleteReaderSetting("manga-1", reader.FieldReadingMode))

	settings, err := repo.GetReaderSettings("manga-1", reader.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, reader.SinglePage, settings.ReadingMode)
	assert.True(t, settings.IsDefault[reader.FieldReadingMode])
	assert.True(t, settings.StaticNav)
}

func TestMigrateSortSettings(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	settings, err := repo.GetMigrateSortSettings()
	require.NoError(t, err)
	assert.Equal(t, migration.SortSettings{SortBy: migration.SortBySourceName, SortOrder: migration.Asc}, settings)

	want := migration.SortSettings{SortBy: migration.SortByMangaCount, SortOrder: migration.Desc}
	require.NoError(t, repo.SaveMigrateSortSettings(want))

	settings, err = repo.GetMigrateSortSettings()
	require.NoError(t, err)
	assert.Equal(t, want, settings)
}

func TestMigrateSortSettingsRejectsInvalidValues(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SetMetadata(MigrateSortSettingsKey, `{"sortBy":7,"sortOrder":0}`))

	settings, err := repo.GetMigrateSortSettings()
	assert.Error(t, err)
	assert.Equal(t, migration.SortBySourceName, settings.SortBy)
}

func TestMigratableMangas(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SaveSource(&Source{ID: "mangadex", Name: "MangaDex", Lang: "all"}))
	require.NoError(t, repo.SaveManga(&Manga{ID: "m1", Name: "One", SourceID: "mangadex"}))
	require.NoError(t, repo.SaveManga(&Manga{ID: "m2", Name: "Two", SourceID: "gone"}))

	mangas, err := repo.MigratableMangas()
	require.NoError(t, err)
	require.Len(t, mangas, 2)

	assert.Equal(t, "mangadex", mangas[0].SourceID)
	require.NotNil(t, mangas[0].Source)
	assert.Equal(t, "MangaDex", mangas[0].Source.Name)

	assert.Equal(t, "gone", mangas[1].SourceID)
	assert.Nil(t, mangas[1].Source)

	sources := migration.NewBuilder(language.English).Build(mangas, migration.SortSettings{})
	require.Len(t, sources, 2)
	assert.Equal(t, "gone", sources[0].Name)
	assert.Equal(t, "unknown", sources[0].Lang)
}

func TestProgress(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	progress, err := repo.GetProgress("manga-1")
	require.NoError(t, err)
	assert.Nil(t, progress)

	require.NoError(t, repo.SaveProgress(&ReadingProgress{MangaID: "manga-1", ChapterID: "ch-1", Page: 3}))
	require.NoError(t, repo.SaveProgress(&ReadingProgress{MangaID: "manga-1", ChapterID: "ch-2", Page: 7}))

	progress, err = repo.GetProgress("manga-1")
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.Equal(t, "ch-2", progress.ChapterID)
	assert.Equal(t, 7, progress.Page)
	assert.False(t, progress.UpdatedAt.IsZero())
}
