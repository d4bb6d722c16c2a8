// Package inspect reports on bitmaps without modifying them.
package inspect

import (
	"errors"
	"fmt"
	"log/slog"

	"bmpkit/bmp"
	"bmpkit/palette"
	"bmpkit/store"
)

type CLICmd struct {
	Header struct {
		Files []string `arg:"" help:"Bitmaps to describe" type:"existingfile"`
	} `cmd:"" help:"Log the headers and pixel format of bitmaps"`
	Diff struct {
		A     string `arg:"" help:"First bitmap" type:"existingfile"`
		B     string `arg:"" help:"Second bitmap" type:"existingfile"`
		Limit int    `help:"Number of differing pixels to list" default:"10"`
	} `cmd:"" help:"Compare two bitmaps pixel by pixel"`
	Palette struct {
		File string `arg:"" help:"Palette bitmap" type:"existingfile"`
		Out  string `arg:"" help:"Destination PAL file"`
	} `cmd:"" help:"Export the color table of a bitmap as a RIFF PAL file"`
}

func (c *CLICmd) Run(subCmd string) error {
	switch subCmd {
	case "header":
		var errCount int
		for _, file := range c.Header.Files {
			logger := slog.Default().With("file", file)
			attrs, err := describe(file)
			if err != nil {
				errCount++
				logger.Error("could not describe bitmap", "error", err)
				continue
			}
			logger.Info("header", attrs...)
		}
		if errCount > 0 {
			return fmt.Errorf("error processing %d files", errCount)
		}
		return nil
	case "diff":
		return compare(c.Diff.A, c.Diff.B, c.Diff.Limit)
	case "palette":
		n, err := exportPalette(c.Palette.File, c.Palette.Out)
		if err != nil {
			return err
		}
		slog.Info("palette exported", "file", c.Palette.File, "to", c.Palette.Out, "colors", n)
		return nil
	}
	return fmt.Errorf("unsupported operation: %s", subCmd)
}

// describe returns the header fields of a bitmap as slog key/value pairs.
func describe(path string) ([]any, error) {
	img, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	fh, err := img.FileHeader()
	if err != nil {
		return nil, err
	}
	dib, err := img.DIBHeader()
	if err != nil {
		return nil, err
	}

	size, _ := img.Size(false)
	declared, err := img.Size(true)
	if err != nil {
		return nil, err
	}

	attrs := []any{
		"kind", dib.Kind.String(),
		"width", dib.Width,
		"height", dib.AbsHeight(),
		"top_down", dib.TopDown(),
		"bits", dib.BitCount,
		"compression", dib.Compression().String(),
		"offset", fh.OffBits,
		"size", size,
		"declared_size", declared,
		"kb", bmp.BytesToKilobytes(size),
	}

	if format, err := img.Format(); err == nil {
		attrs = append(attrs, "format", format)
	} else {
		attrs = append(attrs, "format", "unknown")
	}
	if masks, err := img.BitMasks(); err == nil {
		attrs = append(attrs, "masks", fmt.Sprintf("%08X/%08X/%08X/%08X", masks.Red, masks.Green, masks.Blue, masks.Alpha))
	}
	if table, err := img.ColorTable(); err == nil {
		attrs = append(attrs, "colors", len(table))
	}
	if profile, err := img.Profile(); err == nil {
		attrs = append(attrs, "profile", len(profile))
	}
	return attrs, nil
}

func compare(a, b string, limit int) error {
	imgA, err := store.Open(a)
	if err != nil {
		return err
	}
	imgB, err := store.Open(b)
	if err != nil {
		return err
	}

	d, err := bmp.Diff(imgA, imgB)
	if err != nil {
		return fmt.Errorf("could not compare %q and %q: %w", a, b, err)
	}

	logger := slog.Default().With("a", a, "b", b)
	logger.Info("diff", "size1", d.Size1, "size2", d.Size2, "same_size", d.IsSameSize(), "pixels", len(d.Diff))
	for _, p := range d.Diff[:min(max(limit, 0), len(d.Diff))] {
		logger.Info("pixel", "x", p.Point.X, "y", p.Point.Y, "color1", hexOrNone(p.Color1), "color2", hexOrNone(p.Color2))
	}
	return nil
}

func hexOrNone(c *bmp.Color) string {
	if c == nil {
		return "none"
	}
	return bmp.RGBAToHex(*c)
}

func exportPalette(path, out string) (int, error) {
	img, err := store.Open(path)
	if err != nil {
		return 0, err
	}
	table, err := img.ColorTable()
	if errors.Is(err, bmp.ErrUseExtraBitMasks) || errors.Is(err, bmp.ErrDoesNotExist) {
		return 0, fmt.Errorf("%q has no color table: %w", path, err)
	} else if err != nil {
		return 0, err
	}

	if err := palette.Save(out, table); err != nil {
		return 0, fmt.Errorf("could not export palette of %q: %w", path, err)
	}
	return len(table), nil
}
