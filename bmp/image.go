// Package bmp reads, edits and writes uncompressed Windows BMP images held
// in memory as a single byte buffer.
//
// Every derived structure (headers, color table, pixel plane) is decoded on
// demand from the buffer and is a snapshot: it does not follow later writes.
// All writes go through the same buffer, in place.
package bmp

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
)

// Image owns the bytes of a whole BMP file.
type Image struct {
	buf      []byte
	fromFile bool
}

// Open reads the file at path.
func Open(path string) (*Image, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", path, err)
	}

	img, err := FromBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("could not decode %q: %w", path, err)
	}
	return img, nil
}

// FromBytes takes ownership of buf, which must hold a whole BMP file.
func FromBytes(buf []byte) (*Image, error) {
	img := &Image{buf: buf, fromFile: true}
	fh, err := img.FileHeader()
	if err != nil {
		return nil, err
	}
	if _, err := img.DIBHeader(); err != nil {
		return nil, err
	}
	if int(fh.OffBits) > len(buf) {
		return nil, fmt.Errorf("pixel offset %d beyond %d bytes: %w", fh.OffBits, len(buf), ErrTruncated)
	}
	return img, nil
}

// New synthesizes a height x width image with a BITMAPV5HEADER and 32 bit
// BI_BITFIELDS pixels, filled with fill or opaque white when fill is nil.
func New(height, width int, fill *Color) (*Image, error) {
	if width <= 0 {
		return nil, errors.New("width must be greater than 0")
	} else if height <= 0 {
		return nil, errors.New("height must be greater than 0")
	}

	stride := Stride(width, 32)
	sizeImage := stride * height
	offset := fileHeaderLen + v5HeaderLen

	fh := FileHeader{
		Type:    [2]byte{'B', 'M'},
		Size:    uint32(offset + sizeImage),
		OffBits: uint32(offset),
	}
	dib := DIBHeader{
		Kind:     KindV5,
		Width:    uint32(width),
		Height:   int32(height),
		Planes:   1,
		BitCount: 32,
		Info: &InfoFields{
			Compression:   CompressionBitFields,
			SizeImage:     uint32(sizeImage),
			XPelsPerMeter: 2835,
			YPelsPerMeter: 2835,
		},
		V4: &V4Fields{
			RedMask:   0x00FF0000,
			GreenMask: 0x0000FF00,
			BlueMask:  0x000000FF,
			AlphaMask: 0xFF000000,
			CSType:    LCSsRGB,
		},
		V5: &V5Fields{Intent: LCSGMImages},
	}

	buf := make([]byte, 0, offset+sizeImage)
	buf = append(buf, fh.Bytes()...)
	buf = append(buf, dib.Bytes()...)
	buf = append(buf, make([]byte, sizeImage)...)
	img := &Image{buf: buf}

	c := White
	if fill != nil {
		c = *fill
	}
	w, err := img.writer()
	if err != nil {
		return nil, err
	}
	w.fill(c)
	return img, nil
}

// Save writes the buffer to path.
func (img *Image) Save(path string) error {
	if err := os.WriteFile(path, img.buf, 0o644); err != nil {
		return fmt.Errorf("%w %q: %w", ErrFailedToWrite, path, err)
	}
	return nil
}

// Bytes returns the underlying buffer; writes to the image show through it.
func (img *Image) Bytes() []byte {
	return img.buf
}

func (img *Image) IsFromFile() bool {
	return img.fromFile
}

// Size returns the size declared in the file header when useHeader is set and
// the buffer length otherwise. Only the header lookup can fail.
func (img *Image) Size(useHeader bool) (uint32, error) {
	if useHeader {
		fh, err := img.FileHeader()
		if err != nil {
			return 0, err
		}
		return fh.Size, nil
	}
	return uint32(len(img.buf)), nil
}

func (img *Image) Clone() *Image {
	return &Image{buf: bytes.Clone(img.buf), fromFile: img.fromFile}
}

// Equal compares buffers and origin.
func (img *Image) Equal(other *Image) bool {
	return img.fromFile == other.fromFile && bytes.Equal(img.buf, other.buf)
}

func (img *Image) FileHeader() (FileHeader, error) {
	return ParseFileHeader(img.buf)
}

func (img *Image) DIBHeader() (DIBHeader, error) {
	return ParseDIBHeader(img.buf)
}

func (img *Image) headers() (FileHeader, DIBHeader, error) {
	fh, err := img.FileHeader()
	if err != nil {
		return fh, DIBHeader{}, err
	}
	dib, err := img.DIBHeader()
	return fh, dib, err
}

// Dimensions returns width and the absolute height.
func (img *Image) Dimensions() (int, int, error) {
	dib, err := img.DIBHeader()
	if err != nil {
		return 0, 0, err
	}
	return int(dib.Width), dib.AbsHeight(), nil
}

func (img *Image) ColorTable() (ColorTable, error) {
	fh, dib, err := img.headers()
	if err != nil {
		return nil, err
	}
	return ParseColorTable(img.buf, fh, dib)
}

// Plane decodes an owned snapshot of the pixel array.
func (img *Image) Plane() (*Plane, error) {
	fh, dib, err := img.headers()
	if err != nil {
		return nil, err
	}
	return DecodePlane(img.buf, fh, dib)
}

// BitMasks returns the channel masks from a V4/V5 header or from the block
// following an INFO header.
func (img *Image) BitMasks() (BitMasks, error) {
	dib, err := img.DIBHeader()
	if err != nil {
		return BitMasks{}, err
	}
	return parseBitMasks(img.buf, dib)
}

// ExtraBitMasks returns the mask block that follows a 40 byte INFO header
// under BI_BITFIELDS or BI_ALPHABITFIELDS.
func (img *Image) ExtraBitMasks() (BitMasks, error) {
	dib, err := img.DIBHeader()
	if err != nil {
		return BitMasks{}, err
	}
	return parseExtraBitMasks(img.buf, dib)
}

// Profile returns the embedded ICC profile bytes, uninterpreted.
func (img *Image) Profile() ([]byte, error) {
	dib, err := img.DIBHeader()
	if err != nil {
		return nil, err
	}
	if dib.V5 == nil || dib.V4.CSType != ProfileEmbedded || dib.V5.ProfileSize == 0 {
		return nil, fmt.Errorf("embedded profile: %w", ErrDoesNotExist)
	}

	start := fileHeaderLen + int(dib.V5.ProfileData)
	end := start + int(dib.V5.ProfileSize)
	if end > len(img.buf) {
		return nil, fmt.Errorf("profile ends at %d beyond %d bytes: %w", end, len(img.buf), ErrTruncated)
	}
	return bytes.Clone(img.buf[start:end]), nil
}

// Format names the on-disk channel order, e.g. "bgra", or "palette".
func (img *Image) Format() (string, error) {
	v, err := img.View()
	if err != nil {
		return "", err
	}
	f, err := v.format()
	if err != nil {
		return "", err
	}
	return f.name, nil
}

// ColorAt resolves the color of pixel (x, y) without decoding the whole plane.
// Headers and color table are parsed on every call; View amortizes them.
func (img *Image) ColorAt(x, y int) (Color, error) {
	fh, dib, err := img.headers()
	if err != nil {
		return Color{}, err
	}
	g, err := geometryOf(img.buf, fh, dib)
	if err != nil {
		return Color{}, err
	}
	if !g.in(x, y) {
		return Color{}, fmt.Errorf("pixel (%d,%d) outside %dx%d: %w", x, y, g.width, g.height, ErrOutOfBounds)
	}

	v := &View{File: fh, DIB: dib}
	if err := v.loadTables(img.buf); err != nil {
		return Color{}, err
	}
	f, err := v.format()
	if err != nil {
		return Color{}, err
	}
	var tmp [4]byte
	return f.resolve(g.raw(tmp[:0], img.buf, x, y), v.Table)
}

// Bounds is the image rectangle, empty when the headers cannot be read.
func (img *Image) Bounds() image.Rectangle {
	w, h, err := img.Dimensions()
	if err != nil {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, w, h)
}
