package reader

import (
	"fmt"
	"strings"
)

// TapZoneLayout names a mapping of the screen to navigation regions.
type TapZoneLayout int

const (
	LayoutLShaped TapZoneLayout = iota
	LayoutKindle
	LayoutEdge
	LayoutRightLeft
	LayoutDisabled
)

var layoutNames = map[TapZoneLayout]string{
	LayoutLShaped:   "l-shaped",
	LayoutKindle:    "kindle",
	LayoutEdge:      "edge",
	LayoutRightLeft: "right-left",
	LayoutDisabled:  "disabled",
}

func (l TapZoneLayout) String() string {
	if name, ok := layoutNames[l]; ok {
		return name
	}
	return fmt.Sprintf("TapZoneLayout(%d)", int(l))
}

func ParseTapZoneLayout(s string) (TapZoneLayout, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for layout, name := range layoutNames {
		if name == s {
			return layout, nil
		}
	}
	return LayoutLShaped, fmt.Errorf("unknown tap zone layout %q", s)
}

// TapZoneInvert mirrors the screen before a point is looked up.
type TapZoneInvert int

const (
	InvertNone TapZoneInvert = iota
	InvertHorizontal
	InvertVertical
	InvertBoth
)

var invertNames = map[TapZoneInvert]string{
	InvertNone:       "none",
	InvertHorizontal: "horizontal",
	InvertVertical:   "vertical",
	InvertBoth:       "both",
}

func (i TapZoneInvert) String() string {
	if name, ok := invertNames[i]; ok {
		return name
	}
	return fmt.Sprintf("TapZoneInvert(%d)", int(i))
}

func ParseTapZoneInvert(s string) (TapZoneInvert, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for invert, name := range invertNames {
		if name == s {
			return invert, nil
		}
	}
	return InvertNone, fmt.Errorf("unknown tap zone invert mode %q", s)
}

// Layouts are defined on a 3x3 grid. A zone spans the cells
// [col0, col1] x [row0, row1], inclusive.
type zone struct {
	col0, row0 int
	col1, row1 int
	region     TapZoneRegion
}

func (z zone) contains(col, row int) bool {
	return col >= z.col0 && col <= z.col1 && row >= z.row0 && row <= z.row1
}

const gridSize = 3

var layoutZones = map[TapZoneLayout][]zone{
	LayoutLShaped: {
		{0, 0, 2, 0, RegionPrevious},
		{0, 1, 0, 1, RegionPrevious},
		{2, 1, 2, 1, RegionNext},
		{0, 2, 2, 2, RegionNext},
	},
	LayoutKindle: {
		{0, 1, 0, 2, RegionPrevious},
		{1, 1, 2, 2, RegionNext},
	},
	LayoutEdge: {
		{0, 0, 0, 2, RegionNext},
		{1, 2, 1, 2, RegionPrevious},
		{2, 0, 2, 2, RegionNext},
	},
	LayoutRightLeft: {
		{0, 0, 0, 2, RegionPrevious},
		{2, 0, 2, 2, RegionNext},
	},
	LayoutDisabled: nil,
}

// TapZones resolves viewport points to navigation regions.
type TapZones struct {
	Layout TapZoneLayout
	Invert TapZoneInvert
}

func NewTapZones(layout TapZoneLayout, invert TapZoneInvert) TapZones {
	return TapZones{Layout: layout, Invert: invert}
}

// Resolve maps a point relative to the viewport origin to a region. Points
// outside the viewport are clamped to its edges.
func (t TapZones) Resolve(x, y, width, height int) TapZoneRegion {
	if width <= 0 || height <= 0 {
		return RegionMenu
	}

	col := cell(x, width)
	row := cell(y, height)

	switch t.Invert {
	case InvertNone:
	case InvertHorizontal:
		col = gridSize - 1 - col
	case InvertVertical:
		row = gridSize - 1 - row
	case InvertBoth:
		col = gridSize - 1 - col
		row = gridSize - 1 - row
	default:
		panic(fmt.Sprintf("unexpected TapZoneInvert (%d)", t.Invert))
	}

	zones, ok := layoutZones[t.Layout]
	if !ok {
		panic(fmt.Sprintf("unexpected TapZoneLayout (%d)", t.Layout))
	}
	for _, z := range zones {
		if z.contains(col, row) {
			return z.region
		}
	}
	return RegionMenu
}

// Grid renders the layout as rows of regions, used by the tap zone preview.
func (t TapZones) Grid() [gridSize][gridSize]TapZoneRegion {
	var grid [gridSize][gridSize]TapZoneRegion
	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			grid[row][col] = t.Resolve(col, row, gridSize, gridSize)
		}
	}
	return grid
}

func cell(pos, size int) int {
	if pos < 0 {
		return 0
	}
	if pos >= size {
		return gridSize - 1
	}
	return pos * gridSize / size
}
