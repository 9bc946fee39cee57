package idx

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"mnistview/internal/models"
)

// WriteLabels encodes labels as an IDX label file.
func WriteLabels(w io.Writer, labels models.LabelSet) error {
	if uint64(len(labels)) > math.MaxUint32 {
		return fmt.Errorf("idx: %d labels exceed the format limit", len(labels))
	}
	buf := make([]byte, 0, labelHeaderSize+len(labels))
	buf = binary.BigEndian.AppendUint32(buf, LabelMagic)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(labels)))
	buf = append(buf, labels...)
	_, err := w.Write(buf)
	return err
}

// WriteImages encodes images as an IDX image file. Every image must be
// columns wide and rows high; the geometry is passed explicitly so an empty
// set can still carry it.
func WriteImages(w io.Writer, images models.ImageSet, rows, columns int) error {
	if rows < 0 || columns < 0 || uint64(rows) > math.MaxUint32 || uint64(columns) > math.MaxUint32 {
		return fmt.Errorf("idx: invalid geometry %dx%d", rows, columns)
	}
	if uint64(len(images)) > math.MaxUint32 {
		return fmt.Errorf("idx: %d images exceed the format limit", len(images))
	}

	var header [imageHeaderSize]byte
	binary.BigEndian.PutUint32(header[0:], ImageMagic)
	binary.BigEndian.PutUint32(header[4:], uint32(len(images)))
	binary.BigEndian.PutUint32(header[8:], uint32(rows))
	binary.BigEndian.PutUint32(header[12:], uint32(columns))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	for i, img := range images {
		if img.Width != columns || img.Height != rows {
			return fmt.Errorf("idx: image %d is %dx%d, expected %dx%d", i, img.Width, img.Height, columns, rows)
		}
		if _, err := w.Write(img.Data); err != nil {
			return err
		}
	}
	return nil
}
