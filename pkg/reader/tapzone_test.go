package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	m = RegionMenu
	p = RegionPrevious
	n = RegionNext
)

func TestTapZoneLayouts(t *testing.T) {
	tests := []struct {
		layout TapZoneLayout
		invert TapZoneInvert
		want   [3][3]TapZoneRegion
	}{
		{LayoutLShaped, InvertNone, [3][3]TapZoneRegion{{p, p, p}, {p, m, n}, {n, n, n}}},
		{LayoutKindle, InvertNone, [3][3]TapZoneRegion{{m, m, m}, {p, n, n}, {p, n, n}}},
		{LayoutEdge, InvertNone, [3][3]TapZoneRegion{{n, m, n}, {n, m, n}, {n, p, n}}},
		{LayoutRightLeft, InvertNone, [3][3]TapZoneRegion{{p, m, n}, {p, m, n}, {p, m, n}}},
		{LayoutDisabled, InvertNone, [3][3]TapZoneRegion{{m, m, m}, {m, m, m}, {m, m, m}}},
		{LayoutLShaped, InvertHorizontal, [3][3]TapZoneRegion{{p, p, p}, {n, m, p}, {n, n, n}}},
		{LayoutLShaped, InvertVertical, [3][3]TapZoneRegion{{n, n, n}, {p, m, n}, {p, p, p}}},
		{LayoutRightLeft, InvertBoth, [3][3]TapZoneRegion{{n, m, p}, {n, m, p}, {n, m, p}}},
	}

	for _, tt := range tests {
		t.Run(tt.layout.String()+"/"+tt.invert.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, NewTapZones(tt.layout, tt.invert).Grid())
		})
	}
}

func TestTapZoneResolveCoordinates(t *testing.T) {
	zones := NewTapZones(LayoutLShaped, InvertNone)

	assert.Equal(t, RegionPrevious, zones.Resolve(0, 0, 90, 90))
	assert.Equal(t, RegionPrevious, zones.Resolve(29, 45, 90, 90))
	assert.Equal(t, RegionMenu, zones.Resolve(30, 45, 90, 90))
	assert.Equal(t, RegionMenu, zones.Resolve(59, 59, 90, 90))
	assert.Equal(t, RegionNext, zones.Resolve(60, 45, 90, 90))
	assert.Equal(t, RegionNext, zones.Resolve(89, 89, 90, 90))
}

func TestTapZoneResolveClampsOutsidePoints(t *testing.T) {
	zones := NewTapZones(LayoutRightLeft, InvertNone)

	assert.Equal(t, RegionPrevious, zones.Resolve(-10, 10, 90, 90))
	assert.Equal(t, RegionNext, zones.Resolve(500, 10, 90, 90))
}

func TestTapZoneResolveEmptyViewport(t *testing.T) {
	assert.Equal(t, RegionMenu, NewTapZones(LayoutRightLeft, InvertNone).Resolve(1, 1, 0, 0))
}

func TestTapZoneUnknownLayoutPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewTapZones(TapZoneLayout(42), InvertNone).Resolve(1, 1, 9, 9)
	})
}

func TestParseTapZoneLayout(t *testing.T) {
	layout, err := ParseTapZoneLayout("Kindle")
	assert.NoError(t, err)
	assert.Equal(t, LayoutKindle, layout)

	_, err = ParseTapZoneLayout("zigzag")
	assert.Error(t, err)

	invert, err := ParseTapZoneInvert("both")
	assert.NoError(t, err)
	assert.Equal(t, InvertBoth, invert)
}
