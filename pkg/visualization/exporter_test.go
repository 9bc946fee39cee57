package visualization

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"mnistview/internal/models"
	"mnistview/pkg/aggregate"
)

// TestNewExporter verifies that parameters are clamped to usable values
func TestNewExporter(t *testing.T) {
	e := NewExporter("out", 0, -1)
	if e.scale != 1 {
		t.Errorf("Expected scale 1, got %d", e.scale)
	}
	if e.blur != 0 {
		t.Errorf("Expected blur 0, got %f", e.blur)
	}
	if e.outputDir != "out" {
		t.Errorf("Expected output dir out, got %s", e.outputDir)
	}
}

// TestToImage verifies pixel placement and nearest-neighbour upscaling
func TestToImage(t *testing.T) {
	g := models.NewGrid(2, 1, []uint8{0, 200})

	plain := NewExporter("", 1, 0).ToImage(g)
	gray, ok := plain.(*image.Gray)
	if !ok {
		t.Fatalf("Expected *image.Gray, got %T", plain)
	}
	if gray.GrayAt(1, 0).Y != 200 || gray.GrayAt(0, 0).Y != 0 {
		t.Errorf("Unexpected pixels %v", gray.Pix)
	}

	scaled := NewExporter("", 3, 0).ToImage(g)
	bounds := scaled.Bounds()
	if bounds.Dx() != 6 || bounds.Dy() != 3 {
		t.Fatalf("Expected 6x3 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}
	r, _, _, _ := scaled.At(bounds.Min.X+5, bounds.Min.Y+2).RGBA()
	if r>>8 != 200 {
		t.Errorf("Expected upscaled pixel 200, got %d", r>>8)
	}
}

func TestToImageBlur(t *testing.T) {
	g := models.NewGrid(3, 3, []uint8{0, 0, 0, 0, 255, 0, 0, 0, 0})
	img := NewExporter("", 1, 1.0).ToImage(g)

	bounds := img.Bounds()
	if bounds.Dx() != 3 || bounds.Dy() != 3 {
		t.Fatalf("Expected blur to keep 3x3, got %dx%d", bounds.Dx(), bounds.Dy())
	}
	// Blurring spreads the bright centre into its neighbours
	r, _, _, _ := img.At(bounds.Min.X, bounds.Min.Y+1).RGBA()
	if r == 0 {
		t.Error("Expected blurred neighbour to be non-zero")
	}
}

func TestSaveComposites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "composites")
	composites, err := aggregate.ByLabel(
		models.LabelSet{4, 1},
		models.ImageSet{
			models.NewGrid(2, 2, []uint8{1, 2, 3, 4}),
			models.NewGrid(2, 2, []uint8{4, 3, 2, 1}),
		})
	if err != nil {
		t.Fatalf("ByLabel: %v", err)
	}

	paths, err := NewExporter(dir, 2, 0).SaveComposites(composites)
	if err != nil {
		t.Fatalf("SaveComposites: %v", err)
	}
	want := []string{filepath.Join(dir, "label_1.png"), filepath.Join(dir, "label_4.png")}
	if len(paths) != len(want) {
		t.Fatalf("Expected %d files, got %v", len(want), paths)
	}
	for i, p := range paths {
		if p != want[i] {
			t.Errorf("Expected %s, got %s", want[i], p)
		}
		checkPNG(t, p, 4, 4)
	}
}

func TestSaveRaw(t *testing.T) {
	dir := t.TempDir()
	images := models.ImageSet{
		models.NewGrid(1, 1, []uint8{9}),
		models.NewGrid(1, 1, []uint8{8}),
		models.NewGrid(1, 1, []uint8{7}),
	}

	paths, err := NewExporter(dir, 1, 0).SaveRaw(images, models.LabelSet{3, 2, 1}, 2)
	if err != nil {
		t.Fatalf("SaveRaw: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("Expected 2 files, got %d", len(paths))
	}
	if filepath.Base(paths[1]) != "image_00001_label_2.png" {
		t.Errorf("Unexpected filename %s", paths[1])
	}
	checkPNG(t, paths[0], 1, 1)
}

func checkPNG(t *testing.T, path string, width, height int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Decode %s: %v", path, err)
	}
	if img.Bounds().Dx() != width || img.Bounds().Dy() != height {
		t.Errorf("%s: expected %dx%d, got %dx%d", path, width, height, img.Bounds().Dx(), img.Bounds().Dy())
	}
}
