package reader

// State is the mutable state of an open chapter in the reader.
type State struct {
	Pages              []Page
	CurrentPageIndex   int
	TransitionPageMode TransitionPageMode
	OverlayVisible     bool
	ShowTapZonePreview bool
	HasPreviousChapter bool
	HasNextChapter     bool

	scrollTarget    int
	hasScrollTarget bool
}

func NewState(pages []Page) *State {
	return &State{Pages: pages}
}

// Reset loads a new page sequence and positions the reader according to
// resume.
func (s *State) Reset(pages []Page, resume ResumeMode) {
	s.Pages = pages
	s.TransitionPageMode = TransitionNone
	start := 0
	if resume == ResumeEnd {
		start = LastPageIndex(pages)
	}
	s.ScrollToPage(start)
}

// SetCurrentPageIndex records the page currently in view.
func (s *State) SetCurrentPageIndex(index int) {
	s.CurrentPageIndex = s.clamp(index)
}

// ScrollToPage requests the view to move to the page at index. Paged modes
// show it immediately; continuous modes pick the target up with
// TakeScrollTarget.
func (s *State) ScrollToPage(index int) {
	index = s.clamp(index)
	s.CurrentPageIndex = index
	s.scrollTarget = index
	s.hasScrollTarget = true
}

// TakeScrollTarget returns and clears the pending scroll request.
func (s *State) TakeScrollTarget() (int, bool) {
	if !s.hasScrollTarget {
		return 0, false
	}
	s.hasScrollTarget = false
	return s.scrollTarget, true
}

func (s *State) IsFirstPage() bool {
	return s.CurrentPageIndex == 0
}

func (s *State) IsLastPage() bool {
	return s.CurrentPageIndex == LastPageIndex(s.Pages)
}

func (s *State) TransitionPageVisible() bool {
	return s.TransitionPageMode != TransitionNone
}

// CurrentPage returns the page on display. ok is false while a transition
// page replaces it or no pages are loaded.
func (s *State) CurrentPage() (page Page, pagesIndex int, ok bool) {
	if len(s.Pages) == 0 || s.TransitionPageVisible() {
		return Page{}, 0, false
	}
	page, pagesIndex = PageAt(s.CurrentPageIndex, s.Pages)
	return page, pagesIndex, true
}

func (s *State) clamp(index int) int {
	return max(0, min(index, LastPageIndex(s.Pages)))
}
