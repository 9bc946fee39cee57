package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"mnistview/internal/models"
	"mnistview/pkg/idx"
)

// writeDataset writes a label file and a matching file of 2x2 images
func writeDataset(t *testing.T, labels models.LabelSet, pixels [][]uint8) (string, string) {
	t.Helper()
	dir := t.TempDir()

	var labelBuf bytes.Buffer
	if err := idx.WriteLabels(&labelBuf, labels); err != nil {
		t.Fatalf("WriteLabels: %v", err)
	}
	labelsPath := filepath.Join(dir, "labels-idx1-ubyte")
	if err := os.WriteFile(labelsPath, labelBuf.Bytes(), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	images := make(models.ImageSet, len(pixels))
	for i, p := range pixels {
		images[i] = models.NewGrid(2, 2, p)
	}
	var imageBuf bytes.Buffer
	if err := idx.WriteImages(&imageBuf, images, 2, 2); err != nil {
		t.Fatalf("WriteImages: %v", err)
	}
	imagesPath := filepath.Join(dir, "images-idx3-ubyte")
	if err := os.WriteFile(imagesPath, imageBuf.Bytes(), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	return labelsPath, imagesPath
}

func TestRunUsage(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"one argument", []string{missing}},
		{"three arguments", []string{missing, missing, missing}},
		{"flags only", []string{"--mode", "raw"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(tt.args, &stdout, &stderr)

			// A missing file would surface as a not-found error if I/O were attempted
			var usageErr *UsageError
			if !errors.As(err, &usageErr) {
				t.Fatalf("Expected usage error, got %v", err)
			}
			if !strings.Contains(stdout.String(), "Usage: mnistview") {
				t.Errorf("Expected usage on stdout, got %q", stdout.String())
			}
		})
	}
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"--help"}, &stdout, &stderr); err != nil {
		t.Fatalf("Expected help to succeed, got %v", err)
	}
	if !strings.Contains(stdout.String(), "--mode") {
		t.Errorf("Expected flag listing, got %q", stdout.String())
	}
}

func TestRunAverages(t *testing.T) {
	labelsPath, imagesPath := writeDataset(t,
		models.LabelSet{5, 9, 5},
		[][]uint8{{0, 100, 50, 200}, {1, 2, 3, 4}, {0, 100, 50, 200}})

	var stdout, stderr bytes.Buffer
	if err := run([]string{labelsPath, imagesPath}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	out := stdout.String()
	if !strings.HasPrefix(out, "Getting 3 labels, 3 images\n") {
		t.Errorf("Expected progress line first, got %q", out)
	}

	visible := ansi.Strip(out)
	five := strings.Index(visible, "Label: 5 ---")
	nine := strings.Index(visible, "Label: 9 ---")
	if five < 0 || nine < 0 || five > nine {
		t.Errorf("Expected label 5 before label 9, got %q", visible)
	}

	// Label 5 sums to {0, 200, 100, 400}; the maximum maps to 255
	wantRow := "\x1b[48;2;0;0;0m  \x1b[48;2;127;127;127m  \x1b[0m\n" +
		"\x1b[48;2;63;63;63m  \x1b[48;2;255;255;255m  \x1b[0m\n"
	if !strings.Contains(out, wantRow) {
		t.Errorf("Expected composite rows %q in output %q", wantRow, out)
	}
}

func TestRunRaw(t *testing.T) {
	labelsPath, imagesPath := writeDataset(t,
		models.LabelSet{5, 9},
		[][]uint8{{10, 20, 30, 40}, {50, 60, 70, 80}})

	var stdout, stderr bytes.Buffer
	err := run([]string{"--mode", "raw", "--limit", "1", "--color", "ascii", labelsPath, imagesPath}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "Image 0 (label 5)") {
		t.Errorf("Expected first image header, got %q", out)
	}
	if strings.Contains(out, "Image 1") {
		t.Errorf("Expected limit to stop after one image, got %q", out)
	}
	if strings.Contains(out, "\x1b[48;") {
		t.Errorf("Expected no color sequences in ascii mode, got %q", out)
	}
}

func TestRunSummary(t *testing.T) {
	labelsPath, imagesPath := writeDataset(t,
		models.LabelSet{1, 1},
		[][]uint8{{10, 10, 10, 10}, {30, 30, 30, 30}})

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--mode=summary", labelsPath, imagesPath}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := stdout.String()
	for _, s := range []string{"label", "mean ink", "100.00%", "20.000"} {
		if !strings.Contains(out, s) {
			t.Errorf("Expected %q in summary %q", s, out)
		}
	}
}

func TestRunExport(t *testing.T) {
	labelsPath, imagesPath := writeDataset(t,
		models.LabelSet{2, 7},
		[][]uint8{{1, 2, 3, 4}, {4, 3, 2, 1}})
	exportDir := filepath.Join(t.TempDir(), "png")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--export", exportDir, labelsPath, imagesPath}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, name := range []string{"label_2.png", "label_7.png"} {
		if _, err := os.Stat(filepath.Join(exportDir, name)); err != nil {
			t.Errorf("Expected %s to be exported: %v", name, err)
		}
	}
}

func TestRunCountMismatch(t *testing.T) {
	labelsPath, imagesPath := writeDataset(t,
		models.LabelSet{1, 2, 3},
		[][]uint8{{1, 2, 3, 4}})

	var stdout, stderr bytes.Buffer
	err := run([]string{labelsPath, imagesPath}, &stdout, &stderr)
	if !errors.Is(err, idx.ErrCountMismatch) {
		t.Fatalf("Expected count mismatch, got %v", err)
	}
	if strings.Contains(stdout.String(), "Label:") {
		t.Errorf("Expected no rendering after a mismatch, got %q", stdout.String())
	}
}

func TestRunDecodeErrors(t *testing.T) {
	labelsPath, imagesPath := writeDataset(t, models.LabelSet{1}, [][]uint8{{1, 2, 3, 4}})

	var stdout, stderr bytes.Buffer

	// Arguments swapped: the image file fails the label magic check
	err := run([]string{imagesPath, labelsPath}, &stdout, &stderr)
	if !errors.Is(err, idx.ErrMagicMismatch) {
		t.Errorf("Expected magic mismatch, got %v", err)
	}

	err = run([]string{labelsPath, filepath.Join(t.TempDir(), "absent")}, &stdout, &stderr)
	if !errors.Is(err, idx.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("Expected no output on decode failure, got %q", stdout.String())
	}
}

func TestRunInvalidFlags(t *testing.T) {
	labelsPath, imagesPath := writeDataset(t, models.LabelSet{1}, [][]uint8{{1, 2, 3, 4}})

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--mode", "mosaic", labelsPath, imagesPath}, &stdout, &stderr); err == nil {
		t.Error("Expected invalid mode to fail")
	}
	if err := run([]string{"--log-level", "loud", labelsPath, imagesPath}, &stdout, &stderr); err == nil {
		t.Error("Expected invalid log level to fail")
	}
	if err := run([]string{"--no-such-flag", labelsPath, imagesPath}, &stdout, &stderr); err == nil {
		t.Error("Expected unknown flag to fail")
	}
}

func TestRunDebugLogging(t *testing.T) {
	labelsPath, imagesPath := writeDataset(t, models.LabelSet{1}, [][]uint8{{1, 2, 3, 4}})

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--log-level", "debug", labelsPath, imagesPath}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stderr.String(), "decoded labels") || !strings.Contains(stderr.String(), "blake3") {
		t.Errorf("Expected decode logs on stderr, got %q", stderr.String())
	}
	if strings.Contains(stdout.String(), "decoded") {
		t.Errorf("Expected logs to stay off stdout")
	}
}
