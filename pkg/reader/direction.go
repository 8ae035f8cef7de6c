package reader

import "fmt"

var scrollSigns = map[ReadingDirection]map[ScrollOffset]int{
	LTR: {Backward: -1, Forward: 1},
	RTL: {Backward: 1, Forward: -1},
}

// ScrollSign returns the sign of the viewport delta for a scroll intent.
func ScrollSign(direction ReadingDirection, offset ScrollOffset) int {
	signs, ok := scrollSigns[direction]
	if !ok {
		panic(fmt.Sprintf("unexpected ReadingDirection (%d)", direction))
	}
	sign, ok := signs[offset]
	if !ok {
		panic(fmt.Sprintf("unexpected ScrollOffset (%d)", offset))
	}
	return sign
}

// OptionForDirection picks ltr for left-to-right reading and rtl otherwise.
func OptionForDirection[T any](ltr, rtl T, direction ReadingDirection) T {
	if direction == RTL {
		return rtl
	}
	return ltr
}

func (o ChapterOffset) opposite() ChapterOffset {
	if o == OffsetPrevious {
		return OffsetNext
	}
	return OffsetPrevious
}

// ChapterFor maps a symbolic on-screen move to the logical one. Right-to-left
// reading swaps previous and next.
func ChapterFor(direction ReadingDirection, offset ChapterOffset) ChapterOffset {
	switch offset {
	case OffsetPrevious, OffsetNext:
		return OptionForDirection(offset, offset.opposite(), direction)
	default:
		panic(fmt.Sprintf("unexpected ChapterOffset (%d)", offset))
	}
}
