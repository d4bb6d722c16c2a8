// Package store moves whole image buffers between memory and disk. Paths
// ending in ".zst" are transparently zstd framed.
package store

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"bmpkit/bmp"

	"github.com/klauspost/compress/zstd"
)

const ZstdExt = ".zst"

var encoderPool = sync.Pool{
	New: func() any {
		enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		return enc
	},
}

var decoderPool = sync.Pool{
	New: func() any {
		dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		return dec
	},
}

// Compressed reports whether path names a zstd framed file.
func Compressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ZstdExt)
}

// BaseName strips a trailing ".zst" from name.
func BaseName(name string) string {
	if Compressed(name) {
		return name[:len(name)-len(ZstdExt)]
	}
	return name
}

// Read returns the contents of path, decompressed when it is zstd framed.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", path, err)
	}
	if !Compressed(path) {
		return data, nil
	}

	dec := decoderPool.Get().(*zstd.Decoder)
	defer decoderPool.Put(dec)
	if err := dec.Reset(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("could not open zstd stream %q: %w", path, err)
	}

	var out bytes.Buffer
	if _, err := out.ReadFrom(dec); err != nil {
		return nil, fmt.Errorf("could not decompress %q: %w", path, err)
	}
	return out.Bytes(), nil
}

// Write stores data at path through a temporary file in the same directory,
// renamed into place once complete. Existing files are replaced.
func Write(path string, data []byte) (err error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, name+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary destination for %q: %w", path, err)
	}
	canRename := false
	defer func() {
		if defErr := tmp.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", tmp.Name(), defErr)
		}
		if canRename && err == nil {
			if defErr := os.Rename(tmp.Name(), path); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", path, defErr)
			}
		}
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = writeTo(tmp, data, Compressed(path)); err != nil {
		return fmt.Errorf("could not write %q: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("could not flush temporary destination %q: %w", tmp.Name(), err)
	}

	canRename = true
	return nil
}

func writeTo(w io.Writer, data []byte, compress bool) error {
	if !compress {
		_, err := w.Write(data)
		return err
	}

	enc := encoderPool.Get().(*zstd.Encoder)
	defer encoderPool.Put(enc)
	enc.Reset(w)
	if _, err := enc.Write(data); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// Open loads a BMP file, compressed or not.
func Open(path string) (*bmp.Image, error) {
	data, err := Read(path)
	if err != nil {
		return nil, err
	}

	img, err := bmp.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("could not decode %q: %w", path, err)
	}
	return img, nil
}

// Save writes the buffer of img to path, compressing it when path ends in
// ".zst".
func Save(img *bmp.Image, path string) error {
	if err := Write(path, img.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", bmp.ErrFailedToWrite, err)
	}
	return nil
}
