package reader

import "fmt"

// PageRef points at one image of a chapter.
type PageRef struct {
	Index  int
	Source string
}

// Page is one displayed unit: a single image or, in double page mode, a
// spread of two.
type Page struct {
	Name      string
	Primary   PageRef
	Secondary *PageRef
}

// BuildPages groups the chapter images into displayed pages.
func BuildPages(sources []string, mode ReadingMode) []Page {
	pages := make([]Page, 0, len(sources))
	for i := 0; i < len(sources); i++ {
		page := Page{
			Name:    fmt.Sprintf("%d", i+1),
			Primary: PageRef{Index: i, Source: sources[i]},
		}
		if mode == DoublePage && i+1 < len(sources) {
			page.Name = fmt.Sprintf("%d-%d", i+1, i+2)
			page.Secondary = &PageRef{Index: i + 1, Source: sources[i+1]}
			i++
		}
		pages = append(pages, page)
	}
	return pages
}

// PageAt returns the page showing the image at index and its position in
// pages. Indexes that match nothing resolve to the first page.
func PageAt(index int, pages []Page) (Page, int) {
	for i, page := range pages {
		if page.Primary.Index == index {
			return page, i
		}
		if page.Secondary != nil && page.Secondary.Index == index {
			return page, i
		}
	}
	if len(pages) == 0 {
		return Page{}, 0
	}
	return pages[0], 0
}

// NextPageIndex returns the primary image index of the page next to
// pagesIndex, clamped to the sequence.
func NextPageIndex(offset ChapterOffset, pagesIndex int, pages []Page) int {
	if len(pages) == 0 {
		return 0
	}

	var target int
	switch offset {
	case OffsetPrevious:
		target = pagesIndex - 1
	case OffsetNext:
		target = pagesIndex + 1
	default:
		panic(fmt.Sprintf("unexpected ChapterOffset (%d)", offset))
	}

	target = max(0, min(target, len(pages)-1))
	return pages[target].Primary.Index
}

// LastPageIndex is the primary index of the final page.
func LastPageIndex(pages []Page) int {
	if len(pages) == 0 {
		return 0
	}
	return pages[len(pages)-1].Primary.Index
}

// PageSpan is the extent of a rendered page along the scroll axis, relative
// to the visible area's origin.
type PageSpan struct {
	Start int
	End   int
}

// PageInViewport reports whether the span crosses the middle of the viewport.
func PageInViewport(span PageSpan, viewportSize int) bool {
	middle := viewportSize / 2
	return span.Start <= middle && span.End > middle
}
