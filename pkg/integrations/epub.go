package integrations

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-shiori/go-epub"
	"github.com/kerbaras/mangashelf/pkg/data"
)

type EPubExporter struct {
	outputDir string
}

func NewEPubExporter(outputDir string) *EPubExporter {
	return &EPubExporter{outputDir: outputDir}
}

// Export compiles the downloaded chapters of a manga into a single EPub
// file. Chapters that are not downloaded are skipped.
func (p *EPubExporter) Export(manga *data.Manga, chapters []*data.Chapter, options ExportOptions) (string, error) {
	if manga == nil {
		return "", fmt.Errorf("manga cannot be nil")
	}

	var downloaded []*data.Chapter
	for _, chapter := range chapters {
		if chapter.Downloaded && chapter.FilePath != "" {
			downloaded = append(downloaded, chapter)
		}
	}
	if len(downloaded) == 0 {
		return "", fmt.Errorf("no chapters to compile")
	}
	slices.SortStableFunc(downloaded, data.CompareChapters)

	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	e, err := epub.NewEpub(manga.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create EPub: %w", err)
	}
	if options.Author != "" {
		e.SetAuthor(options.Author)
	}
	if manga.Description != "" {
		e.SetDescription(manga.Description)
	}
	lang := options.Language
	if lang == "" {
		lang = "en"
	}
	e.SetLang(lang)
	if options.RightToLeft {
		e.SetPpd("rtl")
	}

	var processor *ImageProcessor
	var workDir string
	if options.Images != nil {
		processor = NewImageProcessor(*options.Images)
		workDir, err = os.MkdirTemp("", "mangashelf-epub-*")
		if err != nil {
			return "", fmt.Errorf("failed to create work directory: %w", err)
		}
		defer os.RemoveAll(workDir)
	}

	if options.CoverPath != "" {
		coverPath, err := e.AddImage(options.CoverPath, "cover"+filepath.Ext(options.CoverPath))
		if err != nil {
			return "", fmt.Errorf("failed to add cover: %w", err)
		}
		e.SetCover(coverPath, "")
	}

	for _, chapter := range downloaded {
		if err := p.addChapter(e, chapter, processor, workDir); err != nil {
			return "", fmt.Errorf("failed to add chapter %s: %w", chapter.Number, err)
		}
	}

	outputPath := filepath.Join(p.outputDir, sanitizeFilename(manga.Name)+".epub")
	if err := e.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}

	return outputPath, nil
}

// addChapter adds a single chapter's images to the EPub as one section.
func (p *EPubExporter) addChapter(e *epub.Epub, chapter *data.Chapter, processor *ImageProcessor, workDir string) error {
	pages, err := ChapterPages(chapter.FilePath)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no images found in chapter directory")
	}

	title := chapterTitle(chapter)

	var html strings.Builder
	fmt.Fprintf(&html, "<h1>%s</h1>\n", title)

	for i, page := range pages {
		if processor != nil {
			page, err = processPage(processor, page, workDir, fmt.Sprintf("%s-%04d", chapter.ID, i+1))
			if err != nil {
				return err
			}
		}

		name := fmt.Sprintf("%s-%s", chapter.ID, filepath.Base(page))
		internalPath, err := e.AddImage(page, name)
		if err != nil {
			return fmt.Errorf("failed to add image %s: %w", filepath.Base(page), err)
		}

		fmt.Fprintf(&html,
			`<div class="page"><img src="%s" alt="Page %d" style="width:100%%;height:auto;"/></div>`+"\n",
			internalPath, i+1,
		)
	}

	if _, err := e.AddSection(html.String(), title, "", ""); err != nil {
		return fmt.Errorf("failed to add section: %w", err)
	}
	return nil
}

func processPage(processor *ImageProcessor, page, workDir, name string) (string, error) {
	f, err := os.Open(page)
	if err != nil {
		return "", err
	}
	defer f.Close()

	processed, err := processor.ProcessImage(f)
	if err != nil {
		return "", fmt.Errorf("failed to process %s: %w", filepath.Base(page), err)
	}

	out := filepath.Join(workDir, name+processor.Extension())
	if err := os.WriteFile(out, processed, 0644); err != nil {
		return "", err
	}
	return out, nil
}

func chapterTitle(chapter *data.Chapter) string {
	title := fmt.Sprintf("Chapter %s", chapter.Number)
	if chapter.Volume != "" && chapter.Volume != "0" {
		title = fmt.Sprintf("Vol. %s, %s", chapter.Volume, title)
	}
	if chapter.Title != "" {
		title = fmt.Sprintf("%s: %s", title, chapter.Title)
	}
	return title
}
