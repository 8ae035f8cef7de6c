package services

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/kerbaras/mangashelf/pkg/data"
	"github.com/kerbaras/mangashelf/pkg/integrations"
	"github.com/kerbaras/mangashelf/pkg/reader"
)

// ChapterSession is a chapter ready to be read.
type ChapterSession struct {
	Manga   *data.Manga
	Chapter *data.Chapter
	Pages   []string
	Resume  reader.ResumeMode
	// StartPage is the image index to open at, from saved progress.
	StartPage   int
	HasPrevious bool
	HasNext     bool
}

// ReaderService moves between the downloaded chapters of one manga. It
// implements reader.ChapterNavigator.
type ReaderService struct {
	repo     Repository
	manga    *data.Manga
	chapters []*data.Chapter
	current  int
	pending  *ChapterSession
	logger   *zap.Logger
}

func NewReaderService(repo Repository, manga *data.Manga, logger *zap.Logger) (*ReaderService, error) {
	if manga == nil {
		return nil, fmt.Errorf("manga cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	chapters, err := repo.GetChapters(manga.ID)
	if err != nil {
		return nil, err
	}
	chapters = slices.DeleteFunc(chapters, func(ch *data.Chapter) bool {
		return !ch.Downloaded || ch.FilePath == ""
	})
	slices.SortStableFunc(chapters, data.CompareChapters)

	return &ReaderService{
		repo:     repo,
		manga:    manga,
		chapters: chapters,
		current:  -1,
		logger:   logger,
	}, nil
}

// Chapters returns the readable chapters in reading order.
func (s *ReaderService) Chapters() []*data.Chapter {
	return s.chapters
}

// Open loads a chapter. An empty chapterID resumes from the saved progress,
// or starts at the first chapter.
func (s *ReaderService) Open(chapterID string) (*ChapterSession, error) {
	if len(s.chapters) == 0 {
		return nil, fmt.Errorf("no downloaded chapters")
	}

	progress, err := s.repo.GetProgress(s.manga.ID)
	if err != nil {
		s.logger.Warn("failed to load reading progress", zap.String("manga", s.manga.ID), zap.Error(err))
	}
	if chapterID == "" && progress != nil {
		chapterID = progress.ChapterID
	}

	index := 0
	if chapterID != "" {
		index = slices.IndexFunc(s.chapters, func(ch *data.Chapter) bool { return ch.ID == chapterID })
		if index < 0 {
			if progress == nil || progress.ChapterID != chapterID {
				return nil, fmt.Errorf("chapter %s is not downloaded", chapterID)
			}
			index = 0
		}
	}

	session, err := s.open(index, reader.ResumeStart)
	if err != nil {
		return nil, err
	}
	if progress != nil && progress.ChapterID == session.Chapter.ID {
		session.StartPage = max(0, min(progress.Page, len(session.Pages)-1))
	}
	return session, nil
}

func (s *ReaderService) open(index int, resume reader.ResumeMode) (*ChapterSession, error) {
	chapter := s.chapters[index]
	pages, err := integrations.ChapterPages(chapter.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages of chapter %s: %w", chapter.Number, err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("chapter %s has no pages", chapter.Number)
	}

	s.current = index
	session := &ChapterSession{
		Manga:       s.manga,
		Chapter:     chapter,
		Pages:       pages,
		Resume:      resume,
		HasPrevious: s.neighbour(index, reader.OffsetPrevious) >= 0,
		HasNext:     s.neighbour(index, reader.OffsetNext) >= 0,
	}
	if resume == reader.ResumeEnd {
		session.StartPage = len(pages) - 1
	}
	return session, nil
}

// neighbour returns the index of the adjacent chapter in the same language,
// or -1.
func (s *ReaderService) neighbour(index int, offset reader.ChapterOffset) int {
	lang := s.chapters[index].Language
	step := 1
	if offset == reader.OffsetPrevious {
		step = -1
	}
	for i := index + step; i >= 0 && i < len(s.chapters); i += step {
		if s.chapters[i].Language == lang {
			return i
		}
	}
	return -1
}

// Adjacent returns the chapter next to the open one, or nil.
func (s *ReaderService) Adjacent(offset reader.ChapterOffset) *data.Chapter {
	if s.current < 0 {
		return nil
	}
	if i := s.neighbour(s.current, offset); i >= 0 {
		return s.chapters[i]
	}
	return nil
}

// NavigateToChapter opens the adjacent chapter. The result is picked up
// with Pending; nothing happens at either end.
func (s *ReaderService) NavigateToChapter(offset reader.ChapterOffset, resume reader.ResumeMode) {
	if s.current < 0 {
		return
	}
	next := s.neighbour(s.current, offset)
	if next < 0 {
		return
	}
	session, err := s.open(next, resume)
	if err != nil {
		s.logger.Warn("failed to open chapter",
			zap.String("manga", s.manga.ID),
			zap.Stringer("offset", offset),
			zap.Error(err),
		)
		return
	}
	s.pending = session
}

// Pending returns and clears the chapter opened by the last navigation.
func (s *ReaderService) Pending() (*ChapterSession, bool) {
	session := s.pending
	s.pending = nil
	return session, session != nil
}

// SaveProgress records the image index being read.
func (s *ReaderService) SaveProgress(chapterID string, page int) error {
	return s.repo.SaveProgress(&data.ReadingProgress{
		MangaID:   s.manga.ID,
		ChapterID: chapterID,
		Page:      page,
	})
}
