package sources

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/kerbaras/mangashelf/pkg/data"
	"github.com/kerbaras/mangashelf/pkg/utils"
)

const (
	MangaDexID = "mangadex"

	mangaDexAPI     = "https://api.mangadex.org"
	mangaDexUploads = "https://uploads.mangadex.org"

	// feedPageSize is the largest page the feed endpoint accepts.
	feedPageSize = 500
)

type relationship struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		FileName string `json:"fileName"`
	} `json:"attributes"`
}

type Manga struct {
	ID         string `json:"id"`
	Attributes struct {
		Title       map[string]string `json:"title"`
		Description map[string]string `json:"description"`
	} `json:"attributes"`
	Relationships []relationship `json:"relationships"`
}

func (m *Manga) ToManga(uploadsURL string) *data.Manga {
	manga := &data.Manga{
		ID:          m.ID,
		Name:        localized(m.Attributes.Title),
		Description: localized(m.Attributes.Description),
		SourceID:    MangaDexID,
	}
	for _, rel := range m.Relationships {
		if rel.Type == "cover_art" && rel.Attributes.FileName != "" {
			manga.CoverURL = fmt.Sprintf("%s/covers/%s/%s", uploadsURL, m.ID, rel.Attributes.FileName)
		}
	}
	return manga
}

// localized prefers English, then the alphabetically first language.
func localized(values map[string]string) string {
	if v, ok := values["en"]; ok {
		return v
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return ""
	}
	return values[keys[0]]
}

type Chapter struct {
	ID         string `json:"id"`
	Attributes struct {
		Title    string `json:"title"`
		Language string `json:"translatedLanguage"`
		Volume   string `json:"volume"`
		Number   string `json:"chapter"`
		Pages    int    `json:"pages"`
	} `json:"attributes"`
}

func (c *Chapter) ToChapter(mangaID string) *data.Chapter {
	return &data.Chapter{
		ID:       c.ID,
		MangaID:  mangaID,
		Title:    c.Attributes.Title,
		Language: c.Attributes.Language,
		Volume:   c.Attributes.Volume,
		Number:   c.Attributes.Number,
	}
}

type MangaDex struct {
	api        *utils.API
	uploadsURL string
}

func NewMangaDex() *MangaDex {
	return NewMangaDexWithURLs(mangaDexAPI, mangaDexUploads)
}

// NewMangaDexWithURLs points the source at other API and uploads hosts.
func NewMangaDexWithURLs(apiURL, uploadsURL string) *MangaDex {
	return &MangaDex{api: utils.NewAPI(apiURL), uploadsURL: uploadsURL}
}

func (m *MangaDex) Info() data.Source {
	return data.Source{
		ID:      MangaDexID,
		Name:    "MangaDex",
		Lang:    "all",
		IconURL: "https://mangadex.org/favicon.ico",
	}
}

func (m *MangaDex) Search(ctx context.Context, query string) ([]*data.Manga, error) {
	params := url.Values{
		"title":      {query},
		"limit":      {"20"},
		"includes[]": {"cover_art"},
	}
	var mangas struct {
		Data []Manga `json:"data"`
	}
	if err := m.api.Get(ctx, "/manga", params, &mangas); err != nil {
		return nil, err
	}
	out := make([]*data.Manga, len(mangas.Data))
	for i, manga := range mangas.Data {
		out[i] = manga.ToManga(m.uploadsURL)
	}
	return out, nil
}

func (m *MangaDex) GetManga(ctx context.Context, id string) (*data.Manga, error) {
	var manga struct {
		Data Manga `json:"data"`
	}
	params := url.Values{"includes[]": {"cover_art"}}
	if err := m.api.Get(ctx, "/manga/"+url.PathEscape(id), params, &manga); err != nil {
		return nil, err
	}
	return manga.Data.ToManga(m.uploadsURL), nil
}

// GetChapters pages through the whole feed of a manga.
func (m *MangaDex) GetChapters(ctx context.Context, manga *data.Manga) ([]*data.Chapter, error) {
	var out []*data.Chapter
	for offset := 0; ; offset += feedPageSize {
		params := url.Values{
			"limit":             {strconv.Itoa(feedPageSize)},
			"offset":            {strconv.Itoa(offset)},
			"order[volume]":     {"asc"},
			"order[chapter]":    {"asc"},
			"includeEmptyPages": {"0"},
		}
		var feed struct {
			Data  []Chapter `json:"data"`
			Total int       `json:"total"`
		}
		if err := m.api.Get(ctx, "/manga/"+url.PathEscape(manga.ID)+"/feed", params, &feed); err != nil {
			return nil, err
		}
		for _, chapter := range feed.Data {
			out = append(out, chapter.ToChapter(manga.ID))
		}
		if len(feed.Data) == 0 || offset+len(feed.Data) >= feed.Total {
			return out, nil
		}
	}
}

func (m *MangaDex) GetPages(ctx context.Context, _ *data.Manga, chapter *data.Chapter) ([]string, error) {
	var server struct {
		BaseURL string `json:"baseUrl"`
		Chapter struct {
			Hash string   `json:"hash"`
			Data []string `json:"data"`
		} `json:"chapter"`
	}
	if err := m.api.Get(ctx, "/at-home/server/"+url.PathEscape(chapter.ID), nil, &server); err != nil {
		return nil, err
	}
	pages := make([]string, len(server.Chapter.Data))
	for i, file := range server.Chapter.Data {
		pages[i] = fmt.Sprintf("%s/data/%s/%s", server.BaseURL, server.Chapter.Hash, file)
	}
	return pages, nil
}

func (m *MangaDex) GetMangaCoverURL(ctx context.Context, manga *data.Manga) (string, error) {
	if manga.CoverURL != "" {
		return manga.CoverURL, nil
	}
	full, err := m.GetManga(ctx, manga.ID)
	if err != nil {
		return "", err
	}
	return full.CoverURL, nil
}

// GetChapterCoverURL is always empty: MangaDex chapters have no covers.
func (m *MangaDex) GetChapterCoverURL(context.Context, *data.Manga, *data.Chapter) (string, error) {
	return "", nil
}
