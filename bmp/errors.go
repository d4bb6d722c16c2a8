package bmp

import "errors"

var (
	// ErrUnsupported reports an unrecognized DIB header size or a pixel write
	// on a bit depth without a write path.
	ErrUnsupported = errors.New("bmp: unsupported")
	// ErrDoesNotExist reports that a requested structure (color table, color
	// profile, extra bit masks) is absent for this format.
	ErrDoesNotExist = errors.New("bmp: does not exist")
	// ErrWrongFileType reports a buffer that does not start with "BM".
	ErrWrongFileType = errors.New("bmp: wrong file type")
	// ErrUseExtraBitMasks is returned when a color table is requested for a
	// BI_BITFIELDS image.
	ErrUseExtraBitMasks = errors.New("bmp: use extra bit masks")
	ErrFailedToWrite    = errors.New("bmp: failed to write")
	// ErrRadiusInvalid reports a blur or filter radius outside [1,16].
	ErrRadiusInvalid = errors.New("bmp: radius invalid")
	// ErrMissing reports that a View lacks a part the operation needs.
	ErrMissing     = errors.New("bmp: missing")
	ErrOutOfBounds = errors.New("bmp: out of bounds")
	ErrTruncated   = errors.New("bmp: truncated")
)
