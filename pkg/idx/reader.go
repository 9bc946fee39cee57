package idx

import (
	"encoding/binary"
	"io"
)

// Reader wraps an io.Reader with position tracking and IDX read methods.
// Short reads are reported as KindTruncated errors naming the file.
type Reader struct {
	r        io.Reader
	filename string
	pos      int64
	scratch  [4]byte
}

// NewReader creates a Reader over r. filename is only used in errors.
func NewReader(filename string, r io.Reader) *Reader {
	return &Reader{r: r, filename: filename}
}

// Position returns the number of bytes consumed so far.
func (r *Reader) Position() int64 {
	return r.pos
}

// ReadFull fills buf completely.
func (r *Reader) ReadFull(buf []byte) error {
	n, err := io.ReadFull(r.r, buf)
	start := r.pos
	r.pos += int64(n)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return truncated(r.filename, start, len(buf), n, err)
		}
		return &Error{Kind: KindIO, Filename: r.filename, Offset: start, Detail: "read failed", Cause: err}
	}
	return nil
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := r.ReadFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadU32BE reads a big-endian uint32.
func (r *Reader) ReadU32BE() (uint32, error) {
	if err := r.ReadFull(r.scratch[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(r.scratch[:]), nil
}
