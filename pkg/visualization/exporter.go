package visualization

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/gift"
	"github.com/nfnt/resize"

	"mnistview/internal/models"
	"mnistview/pkg/aggregate"
)

// Exporter writes decoded images and per-label composites to disk as PNG
type Exporter struct {
	// outputDir is the directory files are written to
	outputDir string

	// scale is the integer upscaling factor applied before saving
	scale int

	// blur is the Gaussian blur sigma applied after upscaling; zero disables it
	blur float64
}

// NewExporter creates a new PNG exporter
func NewExporter(outputDir string, scale int, blur float64) *Exporter {
	if scale < 1 {
		scale = 1
	}
	if blur < 0 {
		blur = 0
	}
	return &Exporter{
		outputDir: outputDir,
		scale:     scale,
		blur:      blur,
	}
}

// ToImage converts a grid to an image.Gray, upscaled with nearest-neighbour
// sampling and optionally blurred
func (e *Exporter) ToImage(g *models.Image) image.Image {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+g.Width], g.Data[y*g.Width:(y+1)*g.Width])
	}

	var out image.Image = img
	if e.scale > 1 && g.Len() > 0 {
		out = resize.Resize(uint(g.Width*e.scale), uint(g.Height*e.scale), out, resize.NearestNeighbor)
	}

	if e.blur > 0 {
		filter := gift.New(gift.GaussianBlur(float32(e.blur)))
		blurred := image.NewGray(filter.Bounds(out.Bounds()))
		filter.Draw(blurred, out)
		out = blurred
	}
	return out
}

// SaveImage saves an image as PNG
func (e *Exporter) SaveImage(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// SaveComposites writes one rescaled PNG per composite, named label_<l>.png.
// It returns the paths written.
func (e *Exporter) SaveComposites(composites []*aggregate.Composite) ([]string, error) {
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return nil, err
	}

	var paths []string
	for _, c := range composites {
		filename := filepath.Join(e.outputDir, fmt.Sprintf("label_%d.png", c.Label))
		if err := e.SaveImage(e.ToImage(c.Scaled()), filename); err != nil {
			return paths, fmt.Errorf("saving composite for label %d: %w", c.Label, err)
		}
		paths = append(paths, filename)
	}
	return paths, nil
}

// SaveRaw writes the first limit images as image_<index>_label_<l>.png.
// It returns the paths written.
func (e *Exporter) SaveRaw(images models.ImageSet, labels models.LabelSet, limit int) ([]string, error) {
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return nil, err
	}

	n := min(limit, len(images), len(labels))
	var paths []string
	for i := 0; i < n; i++ {
		filename := filepath.Join(e.outputDir, fmt.Sprintf("image_%05d_label_%d.png", i, labels[i]))
		if err := e.SaveImage(e.ToImage(images[i]), filename); err != nil {
			return paths, fmt.Errorf("saving image %d: %w", i, err)
		}
		paths = append(paths, filename)
	}
	return paths, nil
}
