package reader

import "math"

// Surface is an in-memory Scroller over a content area larger than the
// visible view. Horizontal positions of a right-to-left surface run from 0
// down to -(content - view).
type Surface struct {
	Direction     ReadingDirection
	ContentWidth  int
	ContentHeight int
	ViewWidth     int
	ViewHeight    int

	x, y float64
}

func (s *Surface) ScrollPosition(axis ScrollDirection) float64 {
	if axis == ScrollX {
		return s.x
	}
	return s.y
}

func (s *Surface) ScrollSize(axis ScrollDirection) int {
	if axis == ScrollX {
		return max(s.ContentWidth, s.ViewWidth)
	}
	return max(s.ContentHeight, s.ViewHeight)
}

func (s *Surface) ClientSize(axis ScrollDirection) int {
	if axis == ScrollX {
		return s.ViewWidth
	}
	return s.ViewHeight
}

// ScrollTo jumps to position, clamped to the scrollable range.
func (s *Surface) ScrollTo(axis ScrollDirection, position float64) {
	limit := float64(s.ScrollSize(axis) - s.ClientSize(axis))
	if axis == ScrollX {
		if s.Direction == RTL {
			s.x = math.Max(-limit, math.Min(position, 0))
		} else {
			s.x = math.Max(0, math.Min(position, limit))
		}
		return
	}
	s.y = math.Max(0, math.Min(position, limit))
}

// Offset is the distance of the view's left or top edge from the content's
// left or top edge.
func (s *Surface) Offset(axis ScrollDirection) int {
	if axis == ScrollX {
		if s.Direction == RTL {
			limit := s.ScrollSize(ScrollX) - s.ViewWidth
			return limit + int(math.Round(s.x))
		}
		return int(math.Round(s.x))
	}
	return int(math.Round(s.y))
}

// Resize changes the content and view dimensions, keeping the position
// within range.
func (s *Surface) Resize(contentWidth, contentHeight, viewWidth, viewHeight int) {
	s.ContentWidth = contentWidth
	s.ContentHeight = contentHeight
	s.ViewWidth = viewWidth
	s.ViewHeight = viewHeight
	s.ScrollTo(ScrollX, s.x)
	s.ScrollTo(ScrollY, s.y)
}
