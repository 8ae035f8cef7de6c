package data

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kerbaras/mangashelf/pkg/migration"
	"github.com/kerbaras/mangashelf/pkg/reader"
)

// MigrateSortSettingsKey is the metadata key of the migrate screen sorting.
const MigrateSortSettingsKey = "migrateSortSettings"

// ReaderSettings are the effective reader settings of one manga.
type ReaderSettings struct {
	reader.Settings
	// IsDefault reports, per field, whether the value comes from the
	// defaults rather than the manga.
	IsDefault map[string]bool
}

// SaveReaderSetting stores one field for a manga. The value is validated
// before it is stored.
func (r *Repository) SaveReaderSetting(mangaID, field, value string) error {
	settings := reader.DefaultSettings()
	if err := settings.Set(field, value); err != nil {
		return err
	}
	normalized, err := settings.Value(field)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		INSERT INTO reader_settings (manga_id, field, value)
		VALUES (?, ?, ?)
		ON CONFLICT (manga_id, field) DO UPDATE SET value = excluded.value`,
		mangaID, field, normalized,
	)
	if err != nil {
		return fmt.Errorf("failed to save reader setting %s: %w", field, err)
	}
	return nil
}

// GetReaderSettings merges the stored settings of a manga over defaults.
// Stored values that no longer parse are ignored.
func (r *Repository) GetReaderSettings(mangaID string, defaults reader.Settings) (*ReaderSettings, error) {
	result := &ReaderSettings{
		Settings:  defaults,
		IsDefault: make(map[string]bool, len(reader.SettingFields)),
	}
	for _, field := range reader.SettingFields {
		result.IsDefault[field] = true
	}

	rows, err := r.db.Query(`SELECT field, value FROM reader_settings WHERE manga_id = ?`, mangaID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reader settings of %s: %w", mangaID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, fmt.Errorf("failed to scan reader setting: %w", err)
		}
		if err := result.Set(field, value); err != nil {
			continue
		}
		result.IsDefault[field] = false
	}
	return result, rows.Err()
}

// DeleteReaderSetting reverts one field of a manga to the default.
func (r *Repository) DeleteReaderSetting(mangaID, field string) error {
	_, err := r.db.Exec(`DELETE FROM reader_settings WHERE manga_id = ? AND field = ?`, mangaID, field)
	if err != nil {
		return fmt.Errorf("failed to delete reader setting %s: %w", field, err)
	}
	return nil
}

// GetMetadata returns the value stored under key and whether it exists.
func (r *Repository) GetMetadata(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get metadata %s: %w", key, err)
	}
	return value, true, nil
}

func (r *Repository) SetMetadata(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO metadata (key, value)
		VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set metadata %s: %w", key, err)
	}
	return nil
}

// GetMigrateSortSettings returns the stored sorting, defaulting to source
// name ascending.
func (r *Repository) GetMigrateSortSettings() (migration.SortSettings, error) {
	settings := migration.SortSettings{SortBy: migration.SortBySourceName, SortOrder: migration.Asc}

	value, ok, err := r.GetMetadata(MigrateSortSettingsKey)
	if err != nil || !ok {
		return settings, err
	}
	var stored migration.SortSettings
	if err := json.Unmarshal([]byte(value), &stored); err != nil {
		return settings, fmt.Errorf("failed to parse %s: %w", MigrateSortSettingsKey, err)
	}
	if stored.SortBy != migration.SortBySourceName && stored.SortBy != migration.SortByMangaCount {
		return settings, fmt.Errorf("stored sort key %d is invalid", int(stored.SortBy))
	}
	if stored.SortOrder != migration.Asc && stored.SortOrder != migration.Desc {
		return settings, fmt.Errorf("stored sort order %d is invalid", int(stored.SortOrder))
	}
	return stored, nil
}

func (r *Repository) SaveMigrateSortSettings(settings migration.SortSettings) error {
	value, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return r.SetMetadata(MigrateSortSettingsKey, string(value))
}

// MigratableMangas returns every library manga with its source, in library
// order.
func (r *Repository) MigratableMangas() ([]migration.Manga, error) {
	rows, err := r.db.Query(`
		SELECT m.source_id, s.id, s.name, s.lang, s.icon_url
		FROM mangas m
		LEFT JOIN sources s ON s.id = m.source_id
		ORDER BY m.position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list migratable mangas: %w", err)
	}
	defer rows.Close()

	var mangas []migration.Manga
	for rows.Next() {
		var sourceID string
		var id, name, lang, iconURL sql.NullString
		if err := rows.Scan(&sourceID, &id, &name, &lang, &iconURL); err != nil {
			return nil, fmt.Errorf("failed to scan migratable manga: %w", err)
		}
		manga := migration.Manga{SourceID: sourceID}
		if id.Valid {
			manga.Source = &migration.SourceInfo{
				ID:      id.String,
				Name:    name.String,
				Lang:    lang.String,
				IconURL: iconURL.String,
			}
		}
		mangas = append(mangas, manga)
	}
	return mangas, rows.Err()
}

// SaveProgress records the page last read of a manga.
func (r *Repository) SaveProgress(progress *ReadingProgress) error {
	_, err := r.db.Exec(`
		INSERT INTO progress (manga_id, chapter_id, page, updated_at)
		VALUES (?, ?, ?, current_timestamp)
		ON CONFLICT (manga_id) DO UPDATE SET
			chapter_id = excluded.chapter_id,
			page = excluded.page,
			updated_at = excluded.updated_at`,
		progress.MangaID, progress.ChapterID, progress.Page,
	)
	if err != nil {
		return fmt.Errorf("failed to save progress of %s: %w", progress.MangaID, err)
	}
	return nil
}

// GetProgress returns nil without an error when nothing was read yet.
func (r *Repository) GetProgress(mangaID string) (*ReadingProgress, error) {
	p := ReadingProgress{MangaID: mangaID}
	err := r.db.QueryRow(`SELECT chapter_id, page, updated_at FROM progress WHERE manga_id = ?`, mangaID).
		Scan(&p.ChapterID, &p.Page, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress of %s: %w", mangaID, err)
	}
	return &p, nil
}
