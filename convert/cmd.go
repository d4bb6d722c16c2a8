// Package convert moves pictures between BMP and the other common formats.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"bmpkit/bmp"
	"bmpkit/palette"
	"bmpkit/parallel"
	"bmpkit/store"

	"github.com/alecthomas/kong"
	sbmp "github.com/sergeymakinen/go-bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

type CLICmd struct {
	Scan     string `help:"Source folder to scan" default:"."`
	Dest     string `help:"Destination folder for converted pictures. Relative to scan dir if not absolute." default:"converted"`
	Format   string `help:"Output format" enum:"bmp,png,tiff,gif,jpeg" default:"bmp"`
	Width    int    `help:"Max width, 0 keeps the source width" default:"0" group:"resize"`
	Height   int    `help:"Max height, 0 keeps the source height" default:"0" group:"resize"`
	Crop     bool   `help:"Crop image to maintain requested aspect ratio" default:"false" group:"resize"`
	Fill     string `help:"If given and not cropping, will fill background with this color (#RGB, #RGBA, #RRGGBB or #RRGGBBAA) to maintain destination aspect ratio" group:"resize"`
	Resample string `help:"Resampling filter" enum:"catmullrom,bilinear,lanczos,cubic,linear,box,nearest" default:"catmullrom" group:"resize"`
	Palette  string `help:"PAL file in RIFF format to apply" type:"existingfile" group:"palette"`
	Dither   bool   `help:"Apply Floyd-Steinberg dithering with --palette" default:"false" group:"palette"`
	Compress bool   `help:"Write zstd compressed files" default:"false"`

	fillColor color.Color   `kong:"-"`
	palette   color.Palette `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	switch {
	case c.Width < 0:
		return fmt.Errorf("invalid resize width: %d", c.Width)
	case c.Height < 0:
		return fmt.Errorf("invalid resize height: %d", c.Height)
	}
	if c.Resample == "" {
		c.Resample = "catmullrom"
	}
	if _, ok := scalers[c.Resample]; !ok {
		return fmt.Errorf("unsupported resampling filter: %s", c.Resample)
	}

	if !c.Crop && c.Fill != "" {
		if c.fillColor, err = parseFill(c.Fill); err != nil {
			return err
		}
	}

	if c.Palette != "" {
		table, err := palette.Load(c.Palette)
		if err != nil {
			return err
		}
		c.palette = palette.Palette(table)
	}

	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	var tally parallel.Tally
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		worker(func(fileName string) func() {
			return func() {
				src := filepath.Join(c.Scan, fileName)
				logger := slog.Default().With("file", src)

				if err := c.convert(logger, src, c.destName(fileName)); err != nil {
					tally.Fail(logger, "could not convert image", err)
					return
				}
				tally.Done()
			}
		}(file.Name()))
	}

	wait(true)

	return tally.Report()
}

// destName swaps the extension of a source file name for the output format.
func (c *CLICmd) destName(fileName string) string {
	name := store.BaseName(fileName)
	name = fmt.Sprintf("%s.%s", name[:len(name)-len(filepath.Ext(name))], c.Format)
	if c.Compress {
		name += store.ZstdExt
	}
	return filepath.Join(c.Dest, name)
}

func (c *CLICmd) convert(logger *slog.Logger, src, dest string) error {
	img, imgType, err := decode(logger, src)
	if err != nil {
		return err
	}
	logger.Debug("decoded", "type", imgType, "bounds", img.Bounds())

	if c.Width > 0 || c.Height > 0 {
		img = fit(logger, img, c.Width, c.Height, c.Crop, c.fillColor, scalers[c.Resample])
	}

	if len(c.palette) > 0 {
		logger.Info("applying palette", "palette", c.Palette, "colors", len(c.palette))
		img = repalette(img, c.palette, c.Dither)
	}

	var buf bytes.Buffer
	if err := encode(&buf, img, c.Format); err != nil {
		return fmt.Errorf("could not encode %s destination %q: %w", strings.ToUpper(c.Format), dest, err)
	}

	logger.Info("converting", "to", dest)
	return store.Write(dest, buf.Bytes())
}

// decode reads any registered format. Bitmaps go through the bmp package
// first and fall back to a decoder that understands RLE and 1 bit pixels.
func decode(logger *slog.Logger, path string) (image.Image, string, error) {
	data, err := store.Read(path)
	if err != nil {
		return nil, "", err
	}

	if strings.EqualFold(filepath.Ext(store.BaseName(path)), ".bmp") {
		img, err := decodeBitmap(logger, data)
		if err != nil {
			return nil, "", fmt.Errorf("could not decode bitmap %q: %w", path, err)
		}
		return img, "bmp", nil
	}

	img, imgType, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image %q: %w", path, err)
	}
	return img, imgType, nil
}

func decodeBitmap(logger *slog.Logger, data []byte) (image.Image, error) {
	img, err := bmp.FromBytes(data)
	if err == nil {
		var nrgba *image.NRGBA
		if nrgba, err = img.NRGBA(); err == nil {
			return nrgba, nil
		}
	}
	if !errors.Is(err, bmp.ErrUnsupported) {
		return nil, err
	}

	logger.Debug("falling back to generic bitmap decoder", "reason", err)
	return sbmp.Decode(bytes.NewReader(data))
}

func repalette(img image.Image, pal color.Palette, dither bool) image.Image {
	sr := img.Bounds()
	dr := image.Rect(0, 0, sr.Dx(), sr.Dy())
	dest := image.NewPaletted(dr, pal)

	if dither {
		draw.FloydSteinberg.Draw(dest, dr, img, sr.Min)
	} else {
		draw.Draw(dest, dr, img, sr.Min, draw.Src)
	}
	return dest
}

func encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "bmp":
		out, err := bmp.FromImage(img)
		if err != nil {
			return err
		}
		_, err = w.Write(out.Bytes())
		return err
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		return enc.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case "gif":
		return gif.Encode(w, img, nil)
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

// parseFill accepts #RGB, #RGBA, #RRGGBB and #RRGGBBAA, the hash being
// optional.
func parseFill(s string) (color.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3, 4:
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6, 8:
	default:
		return nil, fmt.Errorf("invalid fill color %q, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA", s)
	}
	if len(hex) == 6 {
		hex += "FF"
	}

	c, err := bmp.HexToRGBA(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid fill color: %w", err)
	}
	return c.NRGBA(), nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
