package integrations

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// upperHalf is drawn with the top pixel as foreground and the bottom pixel
// as background, so each terminal cell shows two pixels.
const upperHalf = "▀"

type renderKey struct {
	path       string
	cols, rows int
}

// PageRenderer draws page images as terminal cells.
type PageRenderer struct {
	processor *ImageProcessor

	mu    sync.Mutex
	cache map[renderKey][][]string
}

func NewPageRenderer(settings ImageSettings) *PageRenderer {
	// Sizing is decided per render.
	settings.MaxWidth, settings.MaxHeight = 0, 0
	return &PageRenderer{
		processor: NewImageProcessor(settings),
		cache:     make(map[renderKey][][]string),
	}
}

// FitCells returns the size in cells of an imgWidth x imgHeight image scaled
// to fit cols x rows. A rows of 0 leaves the height unbounded.
func FitCells(imgWidth, imgHeight, cols, rows int) (int, int) {
	if imgWidth <= 0 || imgHeight <= 0 || cols <= 0 {
		return 0, 0
	}
	pxWidth := cols
	pxHeight := imgHeight * cols / imgWidth
	if rows > 0 && pxHeight > rows*2 {
		pxHeight = rows * 2
		pxWidth = max(1, imgWidth*pxHeight/imgHeight)
	}
	return pxWidth, max(1, (pxHeight+1)/2)
}

// Measure returns the cell size of the page at path without decoding it.
func (r *PageRenderer) Measure(path string, cols, rows int) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	w, h := FitCells(cfg.Width, cfg.Height, cols, rows)
	return w, h, nil
}

// RenderFile renders the page at path to fit cols x rows.
func (r *PageRenderer) RenderFile(path string, cols, rows int) (string, error) {
	grid, err := r.RenderGrid(path, cols, rows)
	if err != nil {
		return "", err
	}
	return JoinGrid(grid), nil
}

// RenderGrid renders the page at path as rows of styled cells. Results are
// cached.
func (r *PageRenderer) RenderGrid(path string, cols, rows int) ([][]string, error) {
	key := renderKey{path: path, cols: cols, rows: rows}

	r.mu.Lock()
	cached, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	grid := r.Grid(img, cols, rows)

	r.mu.Lock()
	r.cache[key] = grid
	r.mu.Unlock()
	return grid, nil
}

// Render draws img to fit cols x rows.
func (r *PageRenderer) Render(img image.Image, cols, rows int) string {
	return JoinGrid(r.Grid(img, cols, rows))
}

// Grid draws img to fit cols x rows, one string per cell.
func (r *PageRenderer) Grid(img image.Image, cols, rows int) [][]string {
	bounds := img.Bounds()
	width, height := FitCells(bounds.Dx(), bounds.Dy(), cols, rows)
	if width == 0 {
		return nil
	}

	pixels := r.processor.Adjust(Resize(img, width, height*2))

	grid := make([][]string, height)
	for row := range grid {
		cells := make([]string, width)
		for x := range cells {
			top := pixels.At(x, row*2)
			bottom := pixels.At(x, row*2+1)
			cells[x] = lipgloss.NewStyle().
				Foreground(lipgloss.Color(hex(top))).
				Background(lipgloss.Color(hex(bottom))).
				Render(upperHalf)
		}
		grid[row] = cells
	}
	return grid
}

// JoinGrid joins cells into lines.
func JoinGrid(grid [][]string) string {
	lines := make([]string, len(grid))
	for i, cells := range grid {
		lines[i] = strings.Join(cells, "")
	}
	return strings.Join(lines, "\n")
}

// Clear drops cached renders, after a resize for instance.
func (r *PageRenderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.cache)
}

func hex(c color.Color) string {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}
