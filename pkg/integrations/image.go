package integrations

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ImageSettings define how page images are processed.
type ImageSettings struct {
	MaxWidth  int     // Maximum image width, 0 for no limit
	MaxHeight int     // Maximum image height, 0 for no limit
	Quality   int     // JPEG quality (1-100)
	Grayscale bool    // Convert to grayscale
	Contrast  float64 // Contrast adjustment (1.0 = no change)
	Gamma     float64 // Gamma correction (1.0 = no change)
	Format    string  // Output format: "jpeg" or "png"
}

// EReaderImageSettings suit grayscale e-ink readers.
func EReaderImageSettings(width, height int) ImageSettings {
	return ImageSettings{
		MaxWidth:  width,
		MaxHeight: height,
		Quality:   85,
		Grayscale: true,
		Contrast:  1.1,
		Gamma:     0.9,
		Format:    "jpeg",
	}
}

// ImageProcessor decodes, adjusts and re-encodes page images.
type ImageProcessor struct {
	settings ImageSettings
}

func NewImageProcessor(settings ImageSettings) *ImageProcessor {
	if settings.Contrast == 0 {
		settings.Contrast = 1
	}
	if settings.Gamma == 0 {
		settings.Gamma = 1
	}
	if settings.Quality == 0 {
		settings.Quality = 85
	}
	if settings.Format == "" {
		settings.Format = "jpeg"
	}
	return &ImageProcessor{settings: settings}
}

// ProcessImage decodes input and returns the adjusted, encoded image.
func (p *ImageProcessor) ProcessImage(input io.Reader) ([]byte, error) {
	img, _, err := image.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return p.encode(p.Adjust(img))
}

// Adjust applies every setting but the output format to img.
func (p *ImageProcessor) Adjust(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := p.calculateDimensions(bounds.Dx(), bounds.Dy())

	processed := img
	if width != bounds.Dx() || height != bounds.Dy() {
		processed = Resize(img, width, height)
	}
	if p.settings.Grayscale {
		processed = toGrayscale(processed)
	}
	if p.settings.Contrast != 1 {
		processed = adjustContrast(processed, p.settings.Contrast)
	}
	if p.settings.Gamma != 1 {
		processed = adjustGamma(processed, p.settings.Gamma)
	}
	return processed
}

// calculateDimensions fits width x height into the limits, keeping the
// aspect ratio.
func (p *ImageProcessor) calculateDimensions(width, height int) (int, int) {
	return fit(width, height, p.settings.MaxWidth, p.settings.MaxHeight)
}

func fit(width, height, maxWidth, maxHeight int) (int, int) {
	scale := 1.0
	if maxWidth > 0 && width > maxWidth {
		scale = float64(maxWidth) / float64(width)
	}
	if maxHeight > 0 && height > maxHeight {
		scale = min(scale, float64(maxHeight)/float64(height))
	}
	if scale == 1 {
		return width, height
	}
	return max(1, int(float64(width)*scale)), max(1, int(float64(height)*scale))
}

// Resize scales img to width x height.
func Resize(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

func toGrayscale(img image.Image) image.Image {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

// mapChannels applies table to the colour channels of every pixel.
func mapChannels(img image.Image, table *[256]uint8) image.Image {
	bounds := img.Bounds()
	adjusted := image.NewRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			adjusted.SetRGBA(x, y, color.RGBA{table[c.R], table[c.G], table[c.B], c.A})
		}
	}
	return adjusted
}

func adjustContrast(img image.Image, factor float64) image.Image {
	var table [256]uint8
	for i := range table {
		table[i] = clamp((float64(i)-128)*factor + 128)
	}
	return mapChannels(img, &table)
}

func adjustGamma(img image.Image, gamma float64) image.Image {
	var table [256]uint8
	for i := range table {
		table[i] = clamp(255 * math.Pow(float64(i)/255, 1/gamma))
	}
	return mapChannels(img, &table)
}

// clamp restricts a value to the 0-255 range
func clamp(value float64) uint8 {
	if value < 0 {
		return 0
	}
	if value > 255 {
		return 255
	}
	return uint8(value)
}

func (p *ImageProcessor) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer

	switch p.settings.Format {
	case "jpeg", "jpg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.settings.Quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", p.settings.Format)
	}

	return buf.Bytes(), nil
}

// Extension is the file extension of processed images.
func (p *ImageProcessor) Extension() string {
	if p.settings.Format == "png" {
		return ".png"
	}
	return ".jpg"
}
