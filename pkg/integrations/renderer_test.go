package integrations

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitCells(t *testing.T) {
	tests := []struct {
		name               string
		imgW, imgH         int
		cols, rows         int
		wantCols, wantRows int
	}{
		{"width bound", 8, 12, 4, 0, 4, 3},
		{"height bound", 8, 12, 4, 2, 2, 2},
		{"wide page", 200, 100, 40, 20, 40, 10},
		{"empty image", 0, 10, 4, 4, 0, 0},
		{"no columns", 10, 10, 0, 4, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows := FitCells(tt.imgW, tt.imgH, tt.cols, tt.rows)
			assert.Equal(t, tt.wantCols, cols)
			assert.Equal(t, tt.wantRows, rows)
		})
	}
}

func TestRenderSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	out := NewPageRenderer(ImageSettings{}).Render(img, 4, 0)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.Equal(t, 4, lipgloss.Width(line))
		assert.Contains(t, line, upperHalf)
	}
}

func TestRenderFileCachesAndMeasures(t *testing.T) {
	dir := t.TempDir()
	path := createTestImage(t, dir, "0001.png")
	renderer := NewPageRenderer(ImageSettings{Grayscale: true})

	cols, rows, err := renderer.Measure(path, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, cols)
	assert.Equal(t, 3, rows)

	first, err := renderer.RenderFile(path, 4, 0)
	require.NoError(t, err)
	assert.Len(t, renderer.cache, 1)

	second, err := renderer.RenderFile(path, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	renderer.Clear()
	assert.Empty(t, renderer.cache)

	_, err = renderer.RenderFile(dir+"/missing.png", 4, 0)
	assert.Error(t, err)
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#ff0080", hex(color.RGBA{R: 255, B: 128, A: 255}))
}

func TestRenderGridMatchesRender(t *testing.T) {
	path := createTestImage(t, t.TempDir(), "0001.png")
	renderer := NewPageRenderer(ImageSettings{})

	grid, err := renderer.RenderGrid(path, 4, 2)
	require.NoError(t, err)
	require.NotEmpty(t, grid)
	for _, row := range grid {
		assert.Len(t, row, len(grid[0]))
	}

	out, err := renderer.RenderFile(path, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, JoinGrid(grid), out)
	assert.Len(t, strings.Split(out, "\n"), len(grid))
}
