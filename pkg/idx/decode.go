package idx

import (
	"bufio"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"math/bits"
	"os"

	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"mnistview/internal/models"
)

// Magic numbers for the unsigned-byte label and image sub-formats.
const (
	LabelMagic uint32 = 0x00000801
	ImageMagic uint32 = 0x00000803
)

const (
	labelHeaderSize = 8
	imageHeaderSize = 16
)

// LabelFile is a decoded IDX label file
type LabelFile struct {
	// Filename is the path the labels were read from
	Filename string

	// Labels holds one value per image, in file order
	Labels models.LabelSet

	// Digest is the BLAKE3-256 hash of every byte read
	Digest [32]byte
}

// ImageFile is a decoded IDX image file
type ImageFile struct {
	// Filename is the path the images were read from
	Filename string

	// Rows and Columns are the header geometry shared by every image
	Rows    int
	Columns int

	// Images holds Columns x Rows grids, in file order
	Images models.ImageSet

	// Digest is the BLAKE3-256 hash of every byte read
	Digest [32]byte
}

// DecodeLabels reads and validates the IDX label file at path.
func DecodeLabels(path string) (*LabelFile, error) {
	file, size, err := openSized(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	Logger().Debug("decoding labels", zap.String("file", path), zap.Int64("size", size))

	hasher := blake3.New()
	labels, err := ReadLabels(path, io.TeeReader(bufio.NewReader(file), hasher), size)
	if err != nil {
		return nil, err
	}

	result := &LabelFile{Filename: path, Labels: labels}
	copy(result.Digest[:], hasher.Sum(nil))

	Logger().Debug("decoded labels",
		zap.String("file", path),
		zap.Int("count", len(labels)),
		zap.String("blake3", FormatDigest(result.Digest)))
	return result, nil
}

// DecodeImages reads and validates the IDX image file at path.
func DecodeImages(path string) (*ImageFile, error) {
	file, size, err := openSized(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	Logger().Debug("decoding images", zap.String("file", path), zap.Int64("size", size))

	hasher := blake3.New()
	images, rows, columns, err := ReadImages(path, io.TeeReader(bufio.NewReader(file), hasher), size)
	if err != nil {
		return nil, err
	}

	result := &ImageFile{
		Filename: path,
		Rows:     rows,
		Columns:  columns,
		Images:   images,
	}
	copy(result.Digest[:], hasher.Sum(nil))

	Logger().Debug("decoded images",
		zap.String("file", path),
		zap.Int("count", len(images)),
		zap.Int("rows", rows),
		zap.Int("columns", columns),
		zap.String("blake3", FormatDigest(result.Digest)))
	return result, nil
}

// ReadLabels decodes a label stream whose total length is size bytes.
// name is used in errors.
func ReadLabels(name string, src io.Reader, size int64) (models.LabelSet, error) {
	r := NewReader(name, src)

	magic, err := r.ReadU32BE()
	if err != nil {
		return nil, err
	}
	if err := checkMagic(name, magic, LabelMagic); err != nil {
		return nil, err
	}

	count, err := r.ReadU32BE()
	if err != nil {
		return nil, err
	}
	if err := checkFileSize(name, size, labelHeaderSize+uint64(count)); err != nil {
		return nil, err
	}

	labels, err := r.ReadBytes(int(count))
	if err != nil {
		return nil, err
	}
	return models.LabelSet(labels), nil
}

// ReadImages decodes an image stream whose total length is size bytes.
// It returns the images along with the header rows and columns.
func ReadImages(name string, src io.Reader, size int64) (models.ImageSet, int, int, error) {
	r := NewReader(name, src)

	magic, err := r.ReadU32BE()
	if err != nil {
		return nil, 0, 0, err
	}
	if err := checkMagic(name, magic, ImageMagic); err != nil {
		return nil, 0, 0, err
	}

	// Header order is count, rows, columns
	var header [3]uint32
	for i := range header {
		if header[i], err = r.ReadU32BE(); err != nil {
			return nil, 0, 0, err
		}
	}
	count, rows, columns := header[0], header[1], header[2]

	expected, ok := imageFileSize(count, rows, columns)
	if !ok {
		return nil, 0, 0, geometryOverflow(name, count, rows, columns, uint64(size))
	}
	if err := checkFileSize(name, size, expected); err != nil {
		return nil, 0, 0, err
	}

	width, height := int(columns), int(rows)
	imageSize := width * height
	pixels := make([]byte, int(count)*imageSize)
	images := make(models.ImageSet, 0, count)
	for i := 0; i < int(count); i++ {
		data := pixels[i*imageSize : (i+1)*imageSize : (i+1)*imageSize]
		if err := r.ReadFull(data); err != nil {
			return nil, 0, 0, err
		}
		images = append(images, models.NewGrid(width, height, data))
	}
	return images, height, width, nil
}

// CheckCounts fails with KindCountMismatch unless both files hold the same
// number of entries.
func CheckCounts(labels *LabelFile, images *ImageFile) error {
	if len(labels.Labels) != len(images.Images) {
		return CountMismatch(labels.Filename, len(labels.Labels), images.Filename, len(images.Images))
	}
	return nil
}

// FormatDigest returns the hex encoding of a content digest, as used in log output.
func FormatDigest(digest [32]byte) string {
	return hex.EncodeToString(digest[:])
}

func openSized(path string) (*os.File, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		kind := KindIO
		if errors.Is(err, fs.ErrNotExist) {
			kind = KindNotFound
		}
		return nil, 0, &Error{Kind: kind, Filename: path, Detail: "open failed", Cause: err}
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, &Error{Kind: KindIO, Filename: path, Detail: "stat failed", Cause: err}
	}
	return file, info.Size(), nil
}

func checkMagic(filename string, actual, expected uint32) error {
	if actual != expected {
		return magicMismatch(filename, actual, expected)
	}
	return nil
}

func checkFileSize(filename string, actual int64, expected uint64) error {
	if actual < 0 || uint64(actual) != expected {
		return sizeMismatch(filename, expected, uint64(actual))
	}
	return nil
}

// imageFileSize computes 16 + count*rows*columns, reporting false on overflow.
func imageFileSize(count, rows, columns uint32) (uint64, bool) {
	hi, perImage := bits.Mul64(uint64(rows), uint64(columns))
	if hi != 0 {
		return 0, false
	}
	hi, payload := bits.Mul64(uint64(count), perImage)
	if hi != 0 {
		return 0, false
	}
	total, carry := bits.Add64(payload, imageHeaderSize, 0)
	if carry != 0 {
		return 0, false
	}
	return total, true
}
