// Package palette exchanges BMP color tables with Microsoft RIFF palette
// (.pal) files.
package palette

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"

	"bmpkit/bmp"

	"golang.org/x/image/riff"
)

/*
typedef struct tagLOGPALETTE {
  WORD         palVersion;
  WORD         palNumEntries;
  PALETTEENTRY palPalEntry[1];
} LOGPALETTE;

typedef struct tagPALETTEENTRY {
  BYTE peRed;
  BYTE peGreen;
  BYTE peBlue;
  BYTE peFlags;
} PALETTEENTRY;
*/

const palVersion = 0x0300

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

var le = binary.LittleEndian

// ReadFrom decodes every palette of a RIFF PAL stream, descending into
// nested PAL lists.
func ReadFrom(r io.Reader) ([]bmp.ColorTable, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}

	return readTables(rd, string(formType[:]))
}

func readTables(r *riff.Reader, ident string) ([]bmp.ColorTable, error) {
	var res []bmp.ColorTable

	for {
		id, size, data, err := r.Next()
		if errors.Is(err, io.EOF) {
			return res, nil
		} else if err != nil {
			return res, fmt.Errorf("could not read chunk %q#%d: %w", ident, len(res), err)
		}

		switch id {
		case riff.LIST:
			listType, list, err := riff.NewListReader(size, data)
			if err != nil {
				return res, fmt.Errorf("could not read list from chunk %q#%d: %w", ident, len(res), err)
			} else if listType != palType {
				return res, fmt.Errorf("chunk %q#%d unsupported type: %s", ident, len(res), string(listType[:]))
			}

			nested, err := readTables(list, fmt.Sprintf("%s%d.%s", ident, len(res), listType[:]))
			res = append(res, nested...)
			if err != nil {
				return res, err
			}
		case dataType:
			table, err := readTable(data, fmt.Sprintf("%s%d", ident, len(res)))
			if err != nil {
				return res, err
			}
			res = append(res, table)
		default:
			return res, fmt.Errorf("unsupported chunk type in %q#%d: %s", ident, len(res), id[:])
		}
	}
}

func readTable(r io.Reader, ident string) (bmp.ColorTable, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("could not read palette header from chunk %s: %w", ident, err)
	}
	if ver := le.Uint16(head[:]); ver != palVersion {
		return nil, fmt.Errorf("unsupported palette version in chunk %s: %#04x", ident, ver)
	}

	count := int(le.Uint16(head[2:]))
	entries := make([]byte, count*4)
	if _, err := io.ReadFull(r, entries); err != nil {
		return nil, fmt.Errorf("could not read %d colors from chunk %s: %w", count, ident, err)
	}

	table := make(bmp.ColorTable, count)
	for i := range table {
		e := entries[i*4:]
		table[i] = bmp.Color{e[0], e[1], e[2], 0xFF}
	}
	return table, nil
}

// WriteTo encodes tables as one RIFF PAL stream with a data chunk per table
// and returns the number of bytes written.
func WriteTo(w io.Writer, tables ...bmp.ColorTable) (int64, error) {
	var body bytes.Buffer
	body.Write(palType[:])
	for i, t := range tables {
		if len(t) > 0xFFFF {
			return 0, fmt.Errorf("table %d has %d colors, a palette holds at most 65535", i, len(t))
		}
		body.Write(dataType[:])
		body.Write(le.AppendUint32(nil, uint32(4+len(t)*4)))
		body.Write(le.AppendUint16(nil, palVersion))
		body.Write(le.AppendUint16(nil, uint16(len(t))))
		for _, c := range t {
			body.Write([]byte{c[0], c[1], c[2], 0x00})
		}
	}

	var count int64
	for _, part := range [][]byte{riffType[:], le.AppendUint32(nil, uint32(body.Len())), body.Bytes()} {
		n, err := w.Write(part)
		count += int64(n)
		if err != nil {
			return count, fmt.Errorf("could not write palette stream: %w", err)
		}
	}
	return count, nil
}

// Table converts a standard library palette to an opaque color table.
func Table(p color.Palette) bmp.ColorTable {
	t := make(bmp.ColorTable, len(p))
	for i, c := range p {
		t[i] = bmp.ColorOf(c)
		t[i][3] = 0xFF
	}
	return t
}

// Palette converts a color table for use with image.Paletted and the draw
// package.
func Palette(t bmp.ColorTable) color.Palette {
	p := make(color.Palette, len(t))
	for i, c := range t {
		p[i] = c.NRGBA()
	}
	return p
}
