package reader

import (
	"fmt"
	"math"
)

// Scroller is a scrollable surface. Positions follow the layout direction:
// right-to-left horizontal surfaces start at 0 and grow negative.
type Scroller interface {
	ScrollPosition(axis ScrollDirection) float64
	ScrollSize(axis ScrollDirection) int
	ClientSize(axis ScrollDirection) int
	ScrollTo(axis ScrollDirection, position float64)
}

// ChapterNavigator opens the chapter adjacent to the one being read.
type ChapterNavigator interface {
	NavigateToChapter(offset ChapterOffset, resume ResumeMode)
}

// Settings are the per-manga reader settings the controls consult.
type Settings struct {
	ReadingMode      ReadingMode
	ReadingDirection ReadingDirection
	TapZones         TapZones
	StaticNav        bool
	ScrollAmount     int
}

func DefaultSettings() Settings {
	return Settings{
		ReadingMode:      SinglePage,
		ReadingDirection: LTR,
		TapZones:         NewTapZones(LayoutLShaped, InvertNone),
		ScrollAmount:     DefaultScrollAmount,
	}
}

// PageRequest is either an absolute page index or a symbolic move.
type PageRequest struct {
	index    int
	offset   ChapterOffset
	symbolic bool
}

func PageIndex(index int) PageRequest {
	return PageRequest{index: index}
}

func PageOffset(offset ChapterOffset) PageRequest {
	return PageRequest{offset: offset, symbolic: true}
}

func (r PageRequest) String() string {
	if r.symbolic {
		return r.offset.String()
	}
	return fmt.Sprintf("page %d", r.index)
}

// Controls turns reader input into state changes and chapter navigation.
type Controls struct {
	State     *State
	Settings  Settings
	Navigator ChapterNavigator
}

func NewControls(state *State, settings Settings, navigator ChapterNavigator) *Controls {
	return &Controls{State: state, Settings: settings, Navigator: navigator}
}

// Scroll moves element by amountPercentage of its client size, or opens the
// adjacent chapter when element already sits at the boundary the intent
// points past.
func (c *Controls) Scroll(offset ScrollOffset, axis ScrollDirection, element Scroller, amountPercentage int) {
	if element == nil {
		return
	}

	switch axis {
	case ScrollX, ScrollY:
	default:
		panic(fmt.Sprintf("unexpected ScrollDirection (%d)", axis))
	}

	position := element.ScrollPosition(axis)
	client := element.ClientSize(axis)
	limit := float64(element.ScrollSize(axis) - client)

	distance := math.Abs(position)
	atStart := position == 0
	atEnd := math.Floor(distance) == limit || math.Ceil(distance) == limit

	if atStart && offset == Backward {
		c.OpenChapter(OffsetPrevious)
		return
	}
	if atEnd && offset == Forward {
		c.OpenChapter(OffsetNext)
		return
	}

	// Vertical strips advance downwards whatever the reading direction.
	direction := c.Settings.ReadingDirection
	if axis == ScrollY {
		direction = LTR
	}
	amount := float64(amountPercentage) / 100
	sign := float64(ScrollSign(direction, offset))
	element.ScrollTo(axis, position+float64(client)*amount*sign)
}

// OpenChapter opens the logical previous or next chapter. The previous
// chapter resumes at its last page, the next at its first.
func (c *Controls) OpenChapter(offset ChapterOffset) {
	if c.Navigator == nil {
		return
	}
	switch offset {
	case OffsetPrevious:
		if c.State.HasPreviousChapter {
			c.Navigator.NavigateToChapter(OffsetPrevious, ResumeEnd)
		}
	case OffsetNext:
		if c.State.HasNextChapter {
			c.Navigator.NavigateToChapter(OffsetNext, ResumeStart)
		}
	default:
		panic(fmt.Sprintf("unexpected ChapterOffset (%d)", offset))
	}
}

// OpenPage handles a page request using the manga's reading direction.
func (c *Controls) OpenPage(req PageRequest) {
	c.OpenPageInDirection(req, c.Settings.ReadingDirection)
}

// OpenPageInDirection handles a page request. Symbolic requests are
// on-screen moves and get mapped through direction first.
func (c *Controls) OpenPageInDirection(req PageRequest, direction ReadingDirection) {
	s := c.State

	if !req.symbolic {
		s.ScrollToPage(req.index)
		s.TransitionPageMode = TransitionNone
		return
	}

	offset := ChapterFor(direction, req.offset)
	transitionVisible := s.TransitionPageVisible()

	if s.IsFirstPage() && transitionVisible && offset == OffsetPrevious && s.HasPreviousChapter {
		c.OpenChapter(OffsetPrevious)
		return
	}
	if s.IsLastPage() && transitionVisible && offset == OffsetNext && s.HasNextChapter {
		c.OpenChapter(OffsetNext)
		return
	}

	_, pagesIndex := PageAt(s.CurrentPageIndex, s.Pages)
	hideTransition := transitionVisible && !c.Settings.ReadingMode.IsContinuous()

	switch offset {
	case OffsetPrevious:
		if s.IsFirstPage() {
			s.TransitionPageMode = TransitionPrevious
			return
		}
		if hideTransition {
			s.TransitionPageMode = TransitionNone
			return
		}
		s.ScrollToPage(NextPageIndex(OffsetPrevious, pagesIndex, s.Pages))
	case OffsetNext:
		if s.IsLastPage() {
			s.TransitionPageMode = TransitionNext
			return
		}
		if hideTransition {
			s.TransitionPageMode = TransitionNone
			return
		}
		s.ScrollToPage(NextPageIndex(OffsetNext, pagesIndex, s.Pages))
	}
}

// UpdateCurrentPageOnScroll makes the first page crossing the viewport
// middle the current page. spans are indexed by image index.
func (c *Controls) UpdateCurrentPageOnScroll(spans []PageSpan, viewportSize int) {
	for i, span := range spans {
		if !PageInViewport(span, viewportSize) {
			continue
		}
		if i != c.State.CurrentPageIndex {
			c.State.SetCurrentPageIndex(i)
		}
		return
	}
}

// HandleClick dispatches a click at (x, y) within a width x height viewport.
func (c *Controls) HandleClick(x, y, width, height int, element Scroller) {
	if element == nil {
		return
	}

	region := c.Settings.TapZones.Resolve(x, y, width, height)
	c.State.ShowTapZonePreview = false

	mode := c.Settings.ReadingMode
	amount := c.Settings.ScrollAmount
	if amount <= 0 {
		amount = DefaultScrollAmount
	}

	switch region {
	case RegionMenu:
		c.State.OverlayVisible = c.Settings.StaticNav || !c.State.OverlayVisible
	case RegionPrevious:
		if mode.IsContinuous() {
			c.Scroll(Backward, mode.ScrollAxis(), element, amount)
		} else {
			c.OpenPage(PageOffset(OffsetPrevious))
		}
	case RegionNext:
		if mode.IsContinuous() {
			c.Scroll(Forward, mode.ScrollAxis(), element, amount)
		} else {
			c.OpenPage(PageOffset(OffsetNext))
		}
	default:
		panic(fmt.Sprintf("unexpected TapZoneRegion (%d)", region))
	}
}
