// Package idx decodes the IDX binary format used by the MNIST handwritten
// digit corpus.
//
// Two sub-formats are supported, both big-endian with an unsigned-byte
// payload:
//
//	label file: [u32 0x00000801][u32 count][count x u8]
//	image file: [u32 0x00000803][u32 count][u32 rows][u32 columns][count x rows x columns x u8]
//
// Decoding validates the magic number, then checks that the file size
// reported by the filesystem equals the size implied by the header before
// any payload is read. A truncated, padded or mismatched file is rejected
// with a *Error whose Kind identifies the failure:
//
//	labels, err := idx.DecodeLabels("train-labels-idx1-ubyte")
//	if errors.Is(err, idx.ErrSizeMismatch) {
//	    ...
//	}
//
// Image header rows become the grid height and columns the width.
package idx
