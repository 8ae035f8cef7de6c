package services

import (
	"github.com/kerbaras/mangashelf/pkg/data"
	"github.com/kerbaras/mangashelf/pkg/migration"
	"github.com/kerbaras/mangashelf/pkg/reader"
)

// Repository is the library storage the services need. data.Repository
// implements it.
type Repository interface {
	SaveManga(manga *data.Manga) error
	GetManga(id string) (*data.Manga, error)
	ListMangas() ([]*data.Manga, error)
	DeleteManga(mangaID string) error
	UpdateMangaStatus(id, status string) error
	GetMangaWithChapterCount(id string) (*data.Manga, int, int, error)

	GetChapters(mangaID string) ([]*data.Chapter, error)
	SaveChapter(chapter *data.Chapter) error
	UpdateChapterStatus(chapterID string, downloaded bool, filePath string) error

	SaveSource(source *data.Source) error

	SaveReaderSetting(mangaID, field, value string) error
	GetReaderSettings(mangaID string, defaults reader.Settings) (*data.ReaderSettings, error)
	DeleteReaderSetting(mangaID, field string) error

	GetMigrateSortSettings() (migration.SortSettings, error)
	SaveMigrateSortSettings(settings migration.SortSettings) error
	MigratableMangas() ([]migration.Manga, error)

	SaveProgress(progress *data.ReadingProgress) error
	GetProgress(mangaID string) (*data.ReadingProgress, error)
}

var _ Repository = (*data.Repository)(nil)
