package idx

import (
	"fmt"
	"strings"
)

// Kind categorizes a decode failure
type Kind string

const (
	KindNotFound      Kind = "not_found"      // file does not exist
	KindIO            Kind = "io"             // open, stat or read failure
	KindMagicMismatch Kind = "magic_mismatch" // header tag wrong
	KindSizeMismatch  Kind = "size_mismatch"  // header geometry disagrees with file length
	KindTruncated     Kind = "truncated"      // fewer bytes than a read step needs
	KindCountMismatch Kind = "count_mismatch" // label and image files disagree
)

// Sentinels for errors.Is. Matching is by Kind only.
var (
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrIO            = &Error{Kind: KindIO}
	ErrMagicMismatch = &Error{Kind: KindMagicMismatch}
	ErrSizeMismatch  = &Error{Kind: KindSizeMismatch}
	ErrTruncated     = &Error{Kind: KindTruncated}
	ErrCountMismatch = &Error{Kind: KindCountMismatch}
)

// Error is the structured error returned by every decoder in this package
type Error struct {
	Cause    error
	Kind     Kind
	Filename string
	Detail   string
	Expected uint64
	Actual   uint64
	Offset   int64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Filename != "" {
		b.WriteString(e.Filename)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

func magicMismatch(filename string, actual, expected uint32) *Error {
	return &Error{
		Kind:     KindMagicMismatch,
		Filename: filename,
		Expected: uint64(expected),
		Actual:   uint64(actual),
		Detail:   fmt.Sprintf("unexpected magic number; got %#08x, expected %#08x", actual, expected),
	}
}

func sizeMismatch(filename string, expected, actual uint64) *Error {
	return &Error{
		Kind:     KindSizeMismatch,
		Filename: filename,
		Expected: expected,
		Actual:   actual,
		Detail:   fmt.Sprintf("unexpected file size; expected %d, got %d", expected, actual),
	}
}

func geometryOverflow(filename string, count, rows, columns uint32, actual uint64) *Error {
	return &Error{
		Kind:     KindSizeMismatch,
		Filename: filename,
		Actual:   actual,
		Detail: fmt.Sprintf("declared geometry %d x %d x %d overflows; file is %d bytes",
			count, rows, columns, actual),
	}
}

func truncated(filename string, offset int64, want, got int, cause error) *Error {
	return &Error{
		Kind:     KindTruncated,
		Filename: filename,
		Offset:   offset,
		Expected: uint64(want),
		Actual:   uint64(got),
		Detail:   fmt.Sprintf("needed %d bytes at offset %d, got %d", want, offset, got),
		Cause:    cause,
	}
}

// CountMismatch reports label and image files that decode to different lengths
func CountMismatch(labelsFile string, labels int, imagesFile string, images int) *Error {
	return &Error{
		Kind:     KindCountMismatch,
		Filename: imagesFile,
		Expected: uint64(labels),
		Actual:   uint64(images),
		Detail:   fmt.Sprintf("labels vs. image mismatch; %s has %d labels, %s has %d images", labelsFile, labels, imagesFile, images),
	}
}
