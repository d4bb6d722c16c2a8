package bmp

import (
	"encoding/binary"
	"fmt"
)

/*
typedef struct tagBITMAPFILEHEADER {
  WORD  bfType;
  DWORD bfSize;
  WORD  bfReserved1;
  WORD  bfReserved2;
  DWORD bfOffBits;
} BITMAPFILEHEADER;
*/

const (
	fileHeaderLen = 14
	coreHeaderLen = 12
	infoHeaderLen = 40
	v4HeaderLen   = 108
	v5HeaderLen   = 124
)

var le = binary.LittleEndian

// FileHeader is the 14 byte BITMAPFILEHEADER.
type FileHeader struct {
	Type      [2]byte // "BM"
	Size      uint32  // declared size of the whole file
	Reserved1 uint16
	Reserved2 uint16
	OffBits   uint32 // offset of the pixel array
}

// ParseFileHeader reads bytes [0,14) of buf.
func ParseFileHeader(buf []byte) (FileHeader, error) {
	if len(buf) < fileHeaderLen {
		return FileHeader{}, fmt.Errorf("file header needs %d bytes, have %d: %w", fileHeaderLen, len(buf), ErrTruncated)
	}

	h := FileHeader{
		Type:      [2]byte{buf[0], buf[1]},
		Size:      le.Uint32(buf[2:]),
		Reserved1: le.Uint16(buf[6:]),
		Reserved2: le.Uint16(buf[8:]),
		OffBits:   le.Uint32(buf[10:]),
	}
	if h.Type != [2]byte{'B', 'M'} {
		return h, fmt.Errorf("signature %q: %w", string(h.Type[:]), ErrWrongFileType)
	}
	return h, nil
}

// Bytes serializes the header back to its 14 byte form.
func (h FileHeader) Bytes() []byte {
	b := make([]byte, fileHeaderLen)
	b[0], b[1] = h.Type[0], h.Type[1]
	le.PutUint32(b[2:], h.Size)
	le.PutUint16(b[6:], h.Reserved1)
	le.PutUint16(b[8:], h.Reserved2)
	le.PutUint32(b[10:], h.OffBits)
	return b
}

// HeaderKind identifies one of the four DIB header layouts by its size.
type HeaderKind int

const (
	KindCore HeaderKind = iota // BITMAPCOREHEADER, 12 bytes
	KindInfo                   // BITMAPINFOHEADER, 40 bytes
	KindV4                     // BITMAPV4HEADER, 108 bytes
	KindV5                     // BITMAPV5HEADER, 124 bytes
)

var headerKinds = []struct {
	size uint32
	name string
}{
	KindCore: {coreHeaderLen, "BITMAPCOREHEADER"},
	KindInfo: {infoHeaderLen, "BITMAPINFOHEADER"},
	KindV4:   {v4HeaderLen, "BITMAPV4HEADER"},
	KindV5:   {v5HeaderLen, "BITMAPV5HEADER"},
}

// Size returns the on-disk size of the header layout.
func (k HeaderKind) Size() uint32 {
	if k < KindCore || k > KindV5 {
		return 0
	}
	return headerKinds[k].size
}

func (k HeaderKind) String() string {
	if k < KindCore || k > KindV5 {
		return fmt.Sprintf("HeaderKind(%d)", int(k))
	}
	return headerKinds[k].name
}

func headerKindOf(size uint32) (HeaderKind, error) {
	for k, v := range headerKinds {
		if v.size == size {
			return HeaderKind(k), nil
		}
	}
	return 0, fmt.Errorf("DIB header size %d: %w", size, ErrUnsupported)
}

// DIBHeader merges the four DIB header generations. The field groups are
// non-nil exactly when Kind carries them: Info for KindInfo and later, V4 for
// KindV4 and later, V5 for KindV5.
type DIBHeader struct {
	Kind     HeaderKind
	Width    uint32
	Height   int32 // negative means rows are stored top-down
	Planes   uint16
	BitCount uint16

	Info *InfoFields
	V4   *V4Fields
	V5   *V5Fields
}

type InfoFields struct {
	Compression   Compression
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// CIEXYZ holds one endpoint in FXPT2DOT30 fixed point.
type CIEXYZ struct {
	X, Y, Z int32
}

type V4Fields struct {
	RedMask    uint32
	GreenMask  uint32
	BlueMask   uint32
	AlphaMask  uint32
	CSType     ColorSpace
	Endpoints  [3]CIEXYZ // red, green, blue
	GammaRed   uint32
	GammaGreen uint32
	GammaBlue  uint32
}

type V5Fields struct {
	Intent      Intent
	ProfileData uint32 // offset from the start of the DIB header
	ProfileSize uint32
	Reserved    uint32
}

// Size is the declared header size.
func (h DIBHeader) Size() uint32 {
	return h.Kind.Size()
}

// Compression returns BI_RGB for core headers, which cannot declare one.
func (h DIBHeader) Compression() Compression {
	if h.Info == nil {
		return CompressionRGB
	}
	return h.Info.Compression
}

// AbsHeight is the number of pixel rows.
func (h DIBHeader) AbsHeight() int {
	if h.Height < 0 {
		return -int(h.Height)
	}
	return int(h.Height)
}

func (h DIBHeader) TopDown() bool {
	return h.Height < 0
}

// Stride is the 4-byte aligned length of one row of pixels.
func (h DIBHeader) Stride() int {
	return Stride(int(h.Width), int(h.BitCount))
}

// Stride returns ceil(bitCount*width/32)*4.
func Stride(width, bitCount int) int {
	return (bitCount*width + 31) / 32 * 4
}

// ParseDIBHeader dispatches on the size field at offset 14 of buf.
func ParseDIBHeader(buf []byte) (DIBHeader, error) {
	if len(buf) < fileHeaderLen+4 {
		return DIBHeader{}, fmt.Errorf("DIB header size field: %w", ErrTruncated)
	}

	size := le.Uint32(buf[fileHeaderLen:])
	kind, err := headerKindOf(size)
	if err != nil {
		return DIBHeader{}, err
	}
	if len(buf) < fileHeaderLen+int(size) {
		return DIBHeader{}, fmt.Errorf("%s needs %d bytes, have %d: %w", kind, size, len(buf)-fileHeaderLen, ErrTruncated)
	}

	b := buf[fileHeaderLen : fileHeaderLen+int(size)]
	h := DIBHeader{Kind: kind}
	if kind == KindCore {
		h.Width = uint32(le.Uint16(b[4:]))
		h.Height = int32(int16(le.Uint16(b[6:])))
		h.Planes = le.Uint16(b[8:])
		h.BitCount = le.Uint16(b[10:])
	} else {
		h.Width = le.Uint32(b[4:])
		h.Height = int32(le.Uint32(b[8:]))
		h.Planes = le.Uint16(b[12:])
		h.BitCount = le.Uint16(b[14:])

		comp := Compression(le.Uint32(b[16:]))
		if _, ok := compressionNames[comp]; !ok {
			return DIBHeader{}, fmt.Errorf("compression %d: %w", uint32(comp), ErrUnsupported)
		}
		h.Info = &InfoFields{
			Compression:   comp,
			SizeImage:     le.Uint32(b[20:]),
			XPelsPerMeter: int32(le.Uint32(b[24:])),
			YPelsPerMeter: int32(le.Uint32(b[28:])),
			ClrUsed:       le.Uint32(b[32:]),
			ClrImportant:  le.Uint32(b[36:]),
		}
	}

	if kind >= KindV4 {
		v4 := &V4Fields{
			RedMask:    le.Uint32(b[40:]),
			GreenMask:  le.Uint32(b[44:]),
			BlueMask:   le.Uint32(b[48:]),
			AlphaMask:  le.Uint32(b[52:]),
			CSType:     ColorSpace(le.Uint32(b[56:])),
			GammaRed:   le.Uint32(b[96:]),
			GammaGreen: le.Uint32(b[100:]),
			GammaBlue:  le.Uint32(b[104:]),
		}
		for i := range v4.Endpoints {
			off := 60 + i*12
			v4.Endpoints[i] = CIEXYZ{
				X: int32(le.Uint32(b[off:])),
				Y: int32(le.Uint32(b[off+4:])),
				Z: int32(le.Uint32(b[off+8:])),
			}
		}
		h.V4 = v4
	}

	if kind == KindV5 {
		h.V5 = &V5Fields{
			Intent:      Intent(le.Uint32(b[108:])),
			ProfileData: le.Uint32(b[112:]),
			ProfileSize: le.Uint32(b[116:]),
			Reserved:    le.Uint32(b[120:]),
		}
	}

	if h.Height == 0 {
		return h, fmt.Errorf("zero height: %w", ErrUnsupported)
	}
	return h, nil
}

// Bytes serializes the header to exactly Size() bytes. Field groups that are
// nil are written as zeroes.
func (h DIBHeader) Bytes() []byte {
	b := make([]byte, h.Size())
	le.PutUint32(b, h.Size())

	if h.Kind == KindCore {
		le.PutUint16(b[4:], uint16(h.Width))
		le.PutUint16(b[6:], uint16(int16(h.Height)))
		le.PutUint16(b[8:], h.Planes)
		le.PutUint16(b[10:], h.BitCount)
		return b
	}

	le.PutUint32(b[4:], h.Width)
	le.PutUint32(b[8:], uint32(h.Height))
	le.PutUint16(b[12:], h.Planes)
	le.PutUint16(b[14:], h.BitCount)
	if info := h.Info; info != nil {
		le.PutUint32(b[16:], uint32(info.Compression))
		le.PutUint32(b[20:], info.SizeImage)
		le.PutUint32(b[24:], uint32(info.XPelsPerMeter))
		le.PutUint32(b[28:], uint32(info.YPelsPerMeter))
		le.PutUint32(b[32:], info.ClrUsed)
		le.PutUint32(b[36:], info.ClrImportant)
	}

	if v4 := h.V4; v4 != nil && h.Kind >= KindV4 {
		le.PutUint32(b[40:], v4.RedMask)
		le.PutUint32(b[44:], v4.GreenMask)
		le.PutUint32(b[48:], v4.BlueMask)
		le.PutUint32(b[52:], v4.AlphaMask)
		le.PutUint32(b[56:], uint32(v4.CSType))
		for i, e := range v4.Endpoints {
			off := 60 + i*12
			le.PutUint32(b[off:], uint32(e.X))
			le.PutUint32(b[off+4:], uint32(e.Y))
			le.PutUint32(b[off+8:], uint32(e.Z))
		}
		le.PutUint32(b[96:], v4.GammaRed)
		le.PutUint32(b[100:], v4.GammaGreen)
		le.PutUint32(b[104:], v4.GammaBlue)
	}

	if v5 := h.V5; v5 != nil && h.Kind == KindV5 {
		le.PutUint32(b[108:], uint32(v5.Intent))
		le.PutUint32(b[112:], v5.ProfileData)
		le.PutUint32(b[116:], v5.ProfileSize)
		le.PutUint32(b[120:], v5.Reserved)
	}
	return b
}
