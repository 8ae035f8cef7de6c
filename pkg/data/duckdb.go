package data

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/marcboeker/go-duckdb/v2"
)

var schema = []string{
	`CREATE SEQUENCE IF NOT EXISTS manga_position START 1`,
	`CREATE TABLE IF NOT EXISTS mangas (
		id          VARCHAR PRIMARY KEY,
		name        VARCHAR NOT NULL,
		description VARCHAR NOT NULL DEFAULT '',
		cover_url   VARCHAR NOT NULL DEFAULT '',
		source_id   VARCHAR NOT NULL DEFAULT '',
		status      VARCHAR NOT NULL DEFAULT '',
		position    BIGINT NOT NULL DEFAULT nextval('manga_position')
	)`,
	`CREATE TABLE IF NOT EXISTS chapters (
		id         VARCHAR PRIMARY KEY,
		manga_id   VARCHAR NOT NULL,
		title      VARCHAR NOT NULL DEFAULT '',
		language   VARCHAR NOT NULL DEFAULT '',
		volume     VARCHAR NOT NULL DEFAULT '',
		number     VARCHAR NOT NULL DEFAULT '',
		downloaded BOOLEAN NOT NULL DEFAULT false,
		file_path  VARCHAR NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS sources (
		id       VARCHAR PRIMARY KEY,
		name     VARCHAR NOT NULL,
		lang     VARCHAR NOT NULL DEFAULT '',
		icon_url VARCHAR NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS reader_settings (
		manga_id VARCHAR NOT NULL,
		field    VARCHAR NOT NULL,
		value    VARCHAR NOT NULL,
		PRIMARY KEY (manga_id, field)
	)`,
	`CREATE TABLE IF NOT EXISTS progress (
		manga_id   VARCHAR PRIMARY KEY,
		chapter_id VARCHAR NOT NULL,
		page       INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS metadata (
		key   VARCHAR PRIMARY KEY,
		value VARCHAR NOT NULL
	)`,
}

// InitDuckDB opens the database at path, creating its directory and the
// schema when missing.
func InitDuckDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return db, nil
}

type Repository struct {
	db *sql.DB
}

var (
	duckDB   *sql.DB
	duckDBMu sync.Mutex
)

// NewDuckDBRepository returns a repository over the process wide database,
// opening it at path on first use.
func NewDuckDBRepository(path string) (*Repository, error) {
	duckDBMu.Lock()
	defer duckDBMu.Unlock()

	if duckDB == nil {
		db, err := InitDuckDB(path)
		if err != nil {
			return nil, err
		}
		duckDB = db
	}

	return &Repository{db: duckDB}, nil
}

// NewRepository wraps an already initialized database.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Close closes the database. Closing the process wide database lets the next
// NewDuckDBRepository open it again.
func (r *Repository) Close() error {
	duckDBMu.Lock()
	if r.db == duckDB {
		duckDB = nil
	}
	duckDBMu.Unlock()
	return r.db.Close()
}

func (r *Repository) SaveManga(manga *Manga) error {
	_, err := r.db.Exec(`
		INSERT INTO mangas (id, name, description, cover_url, source_id, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			cover_url = excluded.cover_url,
			source_id = excluded.source_id,
			status = excluded.status`,
		manga.ID, manga.Name, manga.Description, manga.CoverURL, manga.SourceID, manga.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to save manga %s: %w", manga.ID, err)
	}
	return nil
}

const mangaColumns = `id, name, description, cover_url, source_id, status`

type scanner interface {
	Scan(dest ...any) error
}

func scanManga(row scanner) (*Manga, error) {
	var m Manga
	if err := row.Scan(&m.ID, &m.Name, &m.Description, &m.CoverURL, &m.SourceID, &m.Status); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetManga returns nil without an error when the manga does not exist.
func (r *Repository) GetManga(id string) (*Manga, error) {
	row := r.db.QueryRow(`SELECT `+mangaColumns+` FROM mangas WHERE id = ?`, id)
	manga, err := scanManga(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get manga %s: %w", id, err)
	}
	return manga, nil
}

// ListMangas returns the library in the order manga were added.
func (r *Repository) ListMangas() ([]*Manga, error) {
	rows, err := r.db.Query(`SELECT ` + mangaColumns + ` FROM mangas ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list mangas: %w", err)
	}
	defer rows.Close()

	var mangas []*Manga
	for rows.Next() {
		manga, err := scanManga(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan manga: %w", err)
		}
		mangas = append(mangas, manga)
	}
	return mangas, rows.Err()
}

// DeleteManga removes the manga together with its chapters, settings and
// progress.
func (r *Repository) DeleteManga(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM chapters WHERE manga_id = ?`,
		`DELETE FROM reader_settings WHERE manga_id = ?`,
		`DELETE FROM progress WHERE manga_id = ?`,
		`DELETE FROM mangas WHERE id = ?`,
	} {
		if _, err := tx.Exec(stmt, id); err != nil {
			return fmt.Errorf("failed to delete manga %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func (r *Repository) SaveChapter(chapter *Chapter) error {
	_, err := r.db.Exec(`
		INSERT INTO chapters (id, manga_id, title, language, volume, number, downloaded, file_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			manga_id = excluded.manga_id,
			title = excluded.title,
			language = excluded.language,
			volume = excluded.volume,
			number = excluded.number,
			downloaded = excluded.downloaded,
			file_path = excluded.file_path`,
		chapter.ID, chapter.MangaID, chapter.Title, chapter.Language,
		chapter.Volume, chapter.Number, chapter.Downloaded, chapter.FilePath,
	)
	if err != nil {
		return fmt.Errorf("failed to save chapter %s: %w", chapter.ID, err)
	}
	return nil
}

// GetChapters returns the chapters of a manga ordered by volume, then
// number. Chapters without a volume come last; numbers compare numerically.
func (r *Repository) GetChapters(mangaID string) ([]*Chapter, error) {
	rows, err := r.db.Query(`
		SELECT id, manga_id, title, language, volume, number, downloaded, file_path
		FROM chapters
		WHERE manga_id = ?
		ORDER BY
			TRY_CAST(NULLIF(volume, '') AS DOUBLE) NULLS LAST,
			TRY_CAST(NULLIF(number, '') AS DOUBLE) NULLS LAST,
			number,
			id`,
		mangaID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get chapters of %s: %w", mangaID, err)
	}
	defer rows.Close()

	var chapters []*Chapter
	for rows.Next() {
		var c Chapter
		if err := rows.Scan(&c.ID, &c.MangaID, &c.Title, &c.Language, &c.Volume, &c.Number, &c.Downloaded, &c.FilePath); err != nil {
			return nil, fmt.Errorf("failed to scan chapter: %w", err)
		}
		chapters = append(chapters, &c)
	}
	return chapters, rows.Err()
}

func (r *Repository) UpdateChapterStatus(id string, downloaded bool, filePath string) error {
	_, err := r.db.Exec(`UPDATE chapters SET downloaded = ?, file_path = ? WHERE id = ?`, downloaded, filePath, id)
	if err != nil {
		return fmt.Errorf("failed to update chapter %s: %w", id, err)
	}
	return nil
}

func (r *Repository) UpdateMangaStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE mangas SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update manga %s: %w", id, err)
	}
	return nil
}

// GetMangaWithChapterCount returns the manga with its total and downloaded
// chapter counts.
func (r *Repository) GetMangaWithChapterCount(id string) (*Manga, int, int, error) {
	manga, err := r.GetManga(id)
	if err != nil || manga == nil {
		return manga, 0, 0, err
	}

	var total, downloaded int
	err = r.db.QueryRow(`
		SELECT COUNT(*), COUNT(*) FILTER (WHERE downloaded)
		FROM chapters
		WHERE manga_id = ?`, id,
	).Scan(&total, &downloaded)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to count chapters of %s: %w", id, err)
	}
	return manga, total, downloaded, nil
}

func (r *Repository) SaveSource(source *Source) error {
	_, err := r.db.Exec(`
		INSERT INTO sources (id, name, lang, icon_url)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			lang = excluded.lang,
			icon_url = excluded.icon_url`,
		source.ID, source.Name, source.Lang, source.IconURL,
	)
	if err != nil {
		return fmt.Errorf("failed to save source %s: %w", source.ID, err)
	}
	return nil
}

func (r *Repository) ListSources() ([]*Source, error) {
	rows, err := r.db.Query(`SELECT id, name, lang, icon_url FROM sources ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []*Source
	for rows.Next() {
		var s Source
		if err := rows.Scan(&s.ID, &s.Name, &s.Lang, &s.IconURL); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, &s)
	}
	return sources, rows.Err()
}
