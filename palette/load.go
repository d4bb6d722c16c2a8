package palette

import (
	"bytes"
	"fmt"

	"bmpkit/bmp"
	"bmpkit/store"
)

// Load reads the first palette of a PAL file that holds any color. Files
// ending in ".zst" are decompressed first.
func Load(path string) (bmp.ColorTable, error) {
	data, err := store.Read(path)
	if err != nil {
		return nil, err
	}

	tables, err := ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not load palette %q: %w", path, err)
	}
	for _, t := range tables {
		if len(t) > 0 {
			return t, nil
		}
	}
	return nil, fmt.Errorf("palette %q holds no colors", path)
}

// Save writes tables to path as a single PAL file.
func Save(path string, tables ...bmp.ColorTable) error {
	var buf bytes.Buffer
	if _, err := WriteTo(&buf, tables...); err != nil {
		return err
	}
	return store.Write(path, buf.Bytes())
}
