// Package stats summarizes a labelled image set per label using gonum.
package stats

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/stat"

	"mnistview/internal/models"
)

// LabelStats describes the images carrying one label
type LabelStats struct {
	// Label is the digit described
	Label uint8

	// Count is the number of images with this label
	Count int

	// Frequency is Count as a fraction of all images
	Frequency float64

	// MeanInk is the mean over images of each image's mean intensity (0-255)
	MeanInk float64

	// StdDevInk is the sample standard deviation of per-image mean intensity.
	// It is zero for labels with fewer than two images.
	StdDevInk float64
}

// ByLabel computes statistics for every distinct label in ascending order.
// labels[i] labels images[i]; both must have the same length.
func ByLabel(labels models.LabelSet, images models.ImageSet) ([]LabelStats, error) {
	if len(labels) != len(images) {
		return nil, fmt.Errorf("stats: %d labels for %d images", len(labels), len(images))
	}

	var inkByLabel [256][]float64
	for i, label := range labels {
		inkByLabel[label] = append(inkByLabel[label], meanIntensity(images[i]))
	}

	var result []LabelStats
	for label, ink := range inkByLabel {
		if len(ink) == 0 {
			continue
		}
		s := LabelStats{
			Label:     uint8(label),
			Count:     len(ink),
			Frequency: float64(len(ink)) / float64(len(labels)),
		}
		if len(ink) > 1 {
			s.MeanInk, s.StdDevInk = stat.MeanStdDev(ink, nil)
		} else {
			s.MeanInk = ink[0]
		}
		result = append(result, s)
	}
	return result, nil
}

// WriteTable prints stats as a fixed-width table
func WriteTable(w io.Writer, stats []LabelStats) error {
	if _, err := fmt.Fprintf(w, "%-6s %8s %8s %10s %10s\n", "label", "count", "freq", "mean ink", "stddev"); err != nil {
		return err
	}
	for _, s := range stats {
		_, err := fmt.Fprintf(w, "%-6d %8d %7.2f%% %10.3f %10.3f\n",
			s.Label, s.Count, s.Frequency*100, s.MeanInk, s.StdDevInk)
		if err != nil {
			return err
		}
	}
	return nil
}

func meanIntensity(img *models.Image) float64 {
	if img.Len() == 0 {
		return 0
	}
	values := make([]float64, img.Len())
	for i, v := range img.Data {
		values[i] = float64(v)
	}
	return stat.Mean(values, nil)
}
