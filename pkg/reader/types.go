package reader

import (
	"fmt"
	"strings"
)

// ReadingDirection is fixed per manga setting.
type ReadingDirection int

const (
	LTR ReadingDirection = iota
	RTL
)

func (d ReadingDirection) String() string {
	switch d {
	case LTR:
		return "ltr"
	case RTL:
		return "rtl"
	default:
		return fmt.Sprintf("ReadingDirection(%d)", int(d))
	}
}

func ParseReadingDirection(s string) (ReadingDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ltr", "left-to-right":
		return LTR, nil
	case "rtl", "right-to-left":
		return RTL, nil
	default:
		return LTR, fmt.Errorf("unknown reading direction %q", s)
	}
}

type ReadingMode int

const (
	SinglePage ReadingMode = iota
	DoublePage
	ContinuousVertical
	ContinuousHorizontal
	Webtoon
)

var readingModeNames = map[ReadingMode]string{
	SinglePage:           "single-page",
	DoublePage:           "double-page",
	ContinuousVertical:   "continuous-vertical",
	ContinuousHorizontal: "continuous-horizontal",
	Webtoon:              "webtoon",
}

func (m ReadingMode) String() string {
	if name, ok := readingModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ReadingMode(%d)", int(m))
}

func ParseReadingMode(s string) (ReadingMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for mode, name := range readingModeNames {
		if name == s {
			return mode, nil
		}
	}
	return SinglePage, fmt.Errorf("unknown reading mode %q", s)
}

// IsContinuous reports whether pages are laid out on one scrollable surface.
func (m ReadingMode) IsContinuous() bool {
	switch m {
	case ContinuousVertical, ContinuousHorizontal, Webtoon:
		return true
	default:
		return false
	}
}

// ScrollAxis returns the axis continuous modes scroll along.
func (m ReadingMode) ScrollAxis() ScrollDirection {
	if m == ContinuousHorizontal {
		return ScrollX
	}
	return ScrollY
}

// ScrollOffset is a direction-agnostic scroll intent.
type ScrollOffset int

const (
	Backward ScrollOffset = iota
	Forward
)

func (o ScrollOffset) String() string {
	switch o {
	case Backward:
		return "backward"
	case Forward:
		return "forward"
	default:
		return fmt.Sprintf("ScrollOffset(%d)", int(o))
	}
}

// ScrollDirection is the axis of a scroll.
type ScrollDirection int

const (
	ScrollX ScrollDirection = iota
	ScrollY
)

func (d ScrollDirection) String() string {
	switch d {
	case ScrollX:
		return "x"
	case ScrollY:
		return "y"
	default:
		return fmt.Sprintf("ScrollDirection(%d)", int(d))
	}
}

type TapZoneRegion int

const (
	RegionMenu TapZoneRegion = iota
	RegionPrevious
	RegionNext
)

func (r TapZoneRegion) String() string {
	switch r {
	case RegionMenu:
		return "menu"
	case RegionPrevious:
		return "previous"
	case RegionNext:
		return "next"
	default:
		return fmt.Sprintf("TapZoneRegion(%d)", int(r))
	}
}

// TransitionPageMode tells whether a chapter boundary placeholder is shown
// instead of the current page.
type TransitionPageMode int

const (
	TransitionNone TransitionPageMode = iota
	TransitionPrevious
	TransitionNext
)

func (m TransitionPageMode) String() string {
	switch m {
	case TransitionNone:
		return "none"
	case TransitionPrevious:
		return "previous"
	case TransitionNext:
		return "next"
	default:
		return fmt.Sprintf("TransitionPageMode(%d)", int(m))
	}
}

// ResumeMode selects where a freshly opened chapter starts.
type ResumeMode int

const (
	ResumeStart ResumeMode = iota
	ResumeEnd
)

func (m ResumeMode) String() string {
	if m == ResumeEnd {
		return "end"
	}
	return "start"
}

type ChapterOffset int

const (
	OffsetPrevious ChapterOffset = iota
	OffsetNext
)

func (o ChapterOffset) String() string {
	switch o {
	case OffsetPrevious:
		return "previous"
	case OffsetNext:
		return "next"
	default:
		return fmt.Sprintf("ChapterOffset(%d)", int(o))
	}
}

// Scroll amounts are percentages of the visible client size.
const (
	ScrollAmountSmall  = 25
	ScrollAmountMedium = 50
	ScrollAmountLarge  = 75
	ScrollAmountFull   = 95

	DefaultScrollAmount = ScrollAmountLarge
)
