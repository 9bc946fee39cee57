// Package aggregate sums decoded images per label into composite images.
package aggregate

import (
	"errors"
	"fmt"

	"mnistview/internal/models"
)

var (
	// ErrLengthMismatch is returned when labels and images are not index-aligned
	ErrLengthMismatch = errors.New("aggregate: labels and images differ in length")

	// ErrShapeMismatch is returned when two images sharing a label differ in size
	ErrShapeMismatch = errors.New("aggregate: images sharing a label differ in size")
)

// Composite is the element-wise sum of every image carrying one label
type Composite struct {
	// Label is the digit the composite was built for
	Label uint8

	// Count is the number of images summed into Sum
	Count int

	// Sum holds the accumulated pixel values
	Sum *models.SumImage

	// Max is the largest accumulated value in Sum
	Max uint32
}

// Intensity rescales an accumulated value so that Max maps to 255.
// A composite whose sums are all zero renders black.
func (c *Composite) Intensity(v uint32) uint8 {
	if c.Max == 0 {
		return 0
	}
	return uint8(uint64(v) * 255 / uint64(c.Max))
}

// Scaled returns the composite rescaled to 8-bit intensities
func (c *Composite) Scaled() *models.Image {
	out := make([]uint8, c.Sum.Len())
	for i, v := range c.Sum.Data {
		out[i] = c.Intensity(v)
	}
	return models.NewGrid(c.Sum.Width, c.Sum.Height, out)
}

// ByLabel sums images per label and returns one composite per distinct
// label in ascending label order. labels[i] labels images[i].
func ByLabel(labels models.LabelSet, images models.ImageSet) ([]*Composite, error) {
	if len(labels) != len(images) {
		return nil, fmt.Errorf("%w: %d labels, %d images", ErrLengthMismatch, len(labels), len(images))
	}

	var byLabel [256]*Composite
	for i, label := range labels {
		img := images[i]

		c := byLabel[label]
		if c == nil {
			c = &Composite{
				Label: label,
				Sum:   models.NewEmptyGrid[uint32](img.Width, img.Height),
			}
			byLabel[label] = c
		}
		if !models.SameShape(c.Sum, img) {
			return nil, fmt.Errorf("%w: label %d, image %d is %dx%d, expected %dx%d",
				ErrShapeMismatch, label, i, img.Width, img.Height, c.Sum.Width, c.Sum.Height)
		}

		for p, v := range img.Data {
			c.Sum.Data[p] += uint32(v)
		}
		c.Count++
	}

	// Walking the table in index order yields ascending labels
	var composites []*Composite
	for _, c := range byLabel {
		if c == nil {
			continue
		}
		c.Max = c.Sum.Max()
		composites = append(composites, c)
	}
	return composites, nil
}
