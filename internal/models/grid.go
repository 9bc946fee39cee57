package models

import (
	"fmt"
)

// Sample is the set of element types a Grid can hold. Raw images store
// unsigned bytes; per-label composites accumulate into wider integers.
type Sample interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Grid represents a fixed-size 2D image stored in row-major order
type Grid[T Sample] struct {
	// Width is the number of columns
	Width int

	// Height is the number of rows
	Height int

	// Data holds Width*Height samples; the sample at (x, y) is Data[y*Width+x]
	Data []T
}

// Image is a single decoded IDX image with 8-bit intensities
type Image = Grid[uint8]

// SumImage accumulates the pixels of many images sharing a label
type SumImage = Grid[uint32]

// NewGrid wraps data as a width x height grid. It panics if the data length
// does not match the geometry: grids are only built from validated headers,
// so a mismatch is a bug in the caller.
func NewGrid[T Sample](width, height int, data []T) *Grid[T] {
	if width < 0 || height < 0 || len(data) != width*height {
		panic(fmt.Sprintf("models: grid %dx%d cannot hold %d samples", width, height, len(data)))
	}
	return &Grid[T]{
		Width:  width,
		Height: height,
		Data:   data,
	}
}

// NewEmptyGrid allocates a zeroed width x height grid
func NewEmptyGrid[T Sample](width, height int) *Grid[T] {
	return NewGrid(width, height, make([]T, width*height))
}

// At returns the sample at column x, row y
func (g *Grid[T]) At(x, y int) T {
	return g.Data[y*g.Width+x]
}

// Set stores v at column x, row y
func (g *Grid[T]) Set(x, y int, v T) {
	g.Data[y*g.Width+x] = v
}

// Len returns the number of samples in the grid
func (g *Grid[T]) Len() int {
	return len(g.Data)
}

// SameShape reports whether two grids share width and height
func SameShape[T, U Sample](a *Grid[T], b *Grid[U]) bool {
	return a.Width == b.Width && a.Height == b.Height
}

// Max returns the largest sample in the grid, or zero for an empty grid
func (g *Grid[T]) Max() T {
	var m T
	for _, v := range g.Data {
		if v > m {
			m = v
		}
	}
	return m
}

// LabelSet is the ordered list of labels decoded from an IDX label file.
// Entry i labels image i of the matching ImageSet.
type LabelSet []uint8

// ImageSet is the ordered list of images decoded from an IDX image file
type ImageSet []*Image
