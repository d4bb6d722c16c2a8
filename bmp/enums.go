package bmp

import "fmt"

// Compression is the biCompression code of an INFO or later header.
type Compression uint32

const (
	CompressionRGB            Compression = 0
	CompressionRLE8           Compression = 1
	CompressionRLE4           Compression = 2
	CompressionBitFields      Compression = 3
	CompressionJPEG           Compression = 4
	CompressionPNG            Compression = 5
	CompressionAlphaBitFields Compression = 6
)

var compressionNames = map[Compression]string{
	CompressionRGB:            "BI_RGB",
	CompressionRLE8:           "BI_RLE8",
	CompressionRLE4:           "BI_RLE4",
	CompressionBitFields:      "BI_BITFIELDS",
	CompressionJPEG:           "BI_JPEG",
	CompressionPNG:            "BI_PNG",
	CompressionAlphaBitFields: "BI_ALPHABITFIELDS",
}

func (c Compression) String() string {
	if name, ok := compressionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Compression(%d)", uint32(c))
}

// BitFields reports whether pixels are described by channel masks.
func (c Compression) BitFields() bool {
	return c == CompressionBitFields || c == CompressionAlphaBitFields
}

// ParseCompression maps a symbolic name such as "BI_BITFIELDS" to its code.
func ParseCompression(name string) (Compression, error) {
	for c, n := range compressionNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("compression %q: %w", name, ErrUnsupported)
}

// ColorSpace is the bV4CSType tag. Values outside the known set are kept
// verbatim so headers round-trip.
type ColorSpace uint32

const (
	LCSCalibratedRGB     ColorSpace = 0
	LCSsRGB              ColorSpace = 0x73524742 // 'sRGB'
	LCSWindowsColorSpace ColorSpace = 0x57696E20 // 'Win '
	ProfileLinked        ColorSpace = 0x4C494E4B // 'LINK'
	ProfileEmbedded      ColorSpace = 0x4D424544 // 'MBED'
)

var colorSpaceNames = map[ColorSpace]string{
	LCSCalibratedRGB:     "LCS_CALIBRATED_RGB",
	LCSsRGB:              "LCS_sRGB",
	LCSWindowsColorSpace: "LCS_WINDOWS_COLOR_SPACE",
	ProfileLinked:        "PROFILE_LINKED",
	ProfileEmbedded:      "PROFILE_EMBEDDED",
}

func (c ColorSpace) String() string {
	if name, ok := colorSpaceNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ColorSpace(0x%08X)", uint32(c))
}

// Intent is the bV5Intent rendering intent.
type Intent uint32

const (
	LCSGMBusiness        Intent = 1
	LCSGMGraphics        Intent = 2
	LCSGMImages          Intent = 4
	LCSGMAbsColorimetric Intent = 8
)

var intentNames = map[Intent]string{
	LCSGMBusiness:        "LCS_GM_BUSINESS",
	LCSGMGraphics:        "LCS_GM_GRAPHICS",
	LCSGMImages:          "LCS_GM_IMAGES",
	LCSGMAbsColorimetric: "LCS_GM_ABS_COLORIMETRIC",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Intent(%d)", uint32(i))
}
