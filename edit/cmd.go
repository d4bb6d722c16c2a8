// Package edit applies in-place BMP edits to every bitmap of a folder.
package edit

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"bmpkit/bmp"
	"bmpkit/palette"
	"bmpkit/parallel"
	"bmpkit/store"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Scan        string  `help:"Source folder to scan for .bmp and .bmp.zst files" default:"."`
	Dest        string  `help:"Destination folder for edited bitmaps. Relative to scan dir if not absolute. If same as scan dir, will overwrite source files." default:"edited"`
	Translate   []int   `help:"Move the picture by DX,DY pixels" placeholder:"DX,DY" group:"geometry"`
	Rotate      float64 `help:"Rotate the picture by this many degrees" default:"0" group:"geometry"`
	Center      []int   `help:"Rotation center, defaults to the middle of the picture" placeholder:"X,Y" group:"geometry"`
	Opacity     int     `help:"Set the alpha of every pixel (0-255)" default:"-1" group:"color"`
	Invert      bool    `help:"Invert red, green and blue" default:"false" group:"color"`
	InvertAlpha bool    `help:"Invert alpha as well, implies --invert" default:"false" group:"color"`
	Grayscale   bool    `help:"Convert to Rec. 709 grayscale" default:"false" group:"color"`
	Channel     string  `help:"Copy one channel into red, green and blue" enum:"none,red,green,blue,alpha" default:"none" group:"color"`
	Palette     string  `help:"PAL file in RIFF format; every pixel is mapped to its perceptually closest entry" type:"existingfile" group:"color"`
	BoxBlur     int     `help:"Box blur radius (1-16)" default:"0" group:"filter"`
	GaussBlur   int     `name:"gaussian-blur" help:"Gaussian blur radius (1-16)" default:"0" group:"filter"`
	Median      int     `help:"Median filter radius (1-16)" default:"0" group:"filter"`
	Mean        int     `help:"Mean filter radius (1-16)" default:"0" group:"filter"`
	Compress    bool    `help:"Write zstd compressed .bmp.zst files" default:"false"`

	steps []step `kong:"-"`
}

// step is one named edit, applied in place.
type step struct {
	name  string
	apply func(*bmp.Image) error
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
	case len(c.Translate) != 0 && len(c.Translate) != 2:
		return fmt.Errorf("invalid translation, want DX,DY: %v", c.Translate)
	case len(c.Center) != 0 && len(c.Center) != 2:
		return fmt.Errorf("invalid rotation center, want X,Y: %v", c.Center)
	case c.Opacity < -1 || c.Opacity > 255:
		return fmt.Errorf("invalid opacity: %d", c.Opacity)
	}
	for name, r := range map[string]int{"box blur": c.BoxBlur, "gaussian blur": c.GaussBlur, "median": c.Median, "mean": c.Mean} {
		if r < 0 || r > 16 {
			return fmt.Errorf("invalid %s radius: %d", name, r)
		}
	}

	c.steps, err = c.plan()
	return err
}

// plan lists the requested edits in their fixed order.
func (c *CLICmd) plan() ([]step, error) {
	var steps []step

	if len(c.Translate) == 2 {
		dx, dy := c.Translate[0], c.Translate[1]
		steps = append(steps, step{"translate", func(img *bmp.Image) error {
			return img.Translate(dx, dy)
		}})
	}
	if c.Rotate != 0 {
		degrees := c.Rotate
		var center *image.Point
		if len(c.Center) == 2 {
			center = &image.Point{X: c.Center[0], Y: c.Center[1]}
		}
		steps = append(steps, step{"rotate", func(img *bmp.Image) error {
			pivot := center
			if pivot == nil {
				w, h, err := img.Dimensions()
				if err != nil {
					return err
				}
				pivot = &image.Point{X: w / 2, Y: h / 2}
			}
			return img.Rotate(degrees, pivot)
		}})
	}
	if c.Opacity >= 0 {
		alpha := uint8(c.Opacity)
		steps = append(steps, step{"opacity", func(img *bmp.Image) error {
			return img.ChangeOpacity(alpha)
		}})
	}
	if c.Invert || c.InvertAlpha {
		invertAlpha := c.InvertAlpha
		steps = append(steps, step{"invert", func(img *bmp.Image) error {
			return img.Invert(invertAlpha)
		}})
	}
	if c.Grayscale {
		steps = append(steps, step{"grayscale", (*bmp.Image).Grayscale})
	}
	if c.Channel != "" && c.Channel != "none" {
		ch, err := bmp.ParseChannel(c.Channel)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step{"channel", func(img *bmp.Image) error {
			return img.ChannelGrayscale(ch)
		}})
	}

	filters := []struct {
		name   string
		radius int
		apply  func(*bmp.Image, int) error
	}{
		{"box blur", c.BoxBlur, (*bmp.Image).BoxBlur},
		{"gaussian blur", c.GaussBlur, (*bmp.Image).GaussianBlur},
		{"median", c.Median, (*bmp.Image).MedianFilter},
		{"mean", c.Mean, (*bmp.Image).MeanFilter},
	}
	for _, f := range filters {
		if f.radius == 0 {
			continue
		}
		radius, apply := f.radius, f.apply
		steps = append(steps, step{f.name, func(img *bmp.Image) error {
			return apply(img, radius)
		}})
	}

	if c.Palette != "" {
		table, err := palette.Load(c.Palette)
		if err != nil {
			return nil, err
		}
		m := palette.NewMatcher(table)
		steps = append(steps, step{"palette", func(img *bmp.Image) error {
			return img.MapColors(m.Nearest)
		}})
	}

	return steps, nil
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
		if file.IsDir() || !IsBitmap(file.Name()) {
			continue
		}

		worker(func(fileName string) func() {
			return func() {
				src := filepath.Join(c.Scan, fileName)
				dest := filepath.Join(c.Dest, store.BaseName(fileName))
				if c.Compress {
					dest += store.ZstdExt
				}
				logger := slog.Default().With("file", src)

				if err := c.process(logger, src, dest); err != nil {
					tally.Fail(logger, "could not edit bitmap", err)
					return
				}
				tally.Done()
			}
		}(file.Name()))
	}

	wait(true)

	return tally.Report()
}

func (c *CLICmd) process(logger *slog.Logger, src, dest string) error {
	img, err := store.Open(src)
	if err != nil {
		return err
	}

	for _, s := range c.steps {
		logger.Debug("applying", "op", s.name)
		if err := s.apply(img); err != nil {
			return fmt.Errorf("could not apply %s: %w", s.name, err)
		}
	}

	logger.Info("saving", "to", dest, "ops", len(c.steps))
	return store.Save(img, dest)
}

// IsBitmap reports whether name looks like a BMP file, zstd framed or not.
func IsBitmap(name string) bool {
	return strings.EqualFold(filepath.Ext(store.BaseName(name)), ".bmp")
}
