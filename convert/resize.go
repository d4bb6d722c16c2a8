package convert

import (
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/disintegration/gift"
	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// scaler draws the sr part of src scaled into the dr part of dst.
type scaler func(dst draw.Image, dr image.Rectangle, src image.Image, sr image.Rectangle)

var scalers = map[string]scaler{
	"catmullrom": kernelScaler(draw.CatmullRom),
	"bilinear":   kernelScaler(draw.BiLinear),
	"lanczos":    giftScaler(gift.LanczosResampling),
	"cubic":      giftScaler(gift.CubicResampling),
	"linear":     giftScaler(gift.LinearResampling),
	"box":        giftScaler(gift.BoxResampling),
	"nearest":    nearestScaler,
}

func kernelScaler(s draw.Scaler) scaler {
	return func(dst draw.Image, dr image.Rectangle, src image.Image, sr image.Rectangle) {
		s.Scale(dst, dr, src, sr, draw.Over, nil)
	}
}

func giftScaler(r gift.Resampling) scaler {
	return func(dst draw.Image, dr image.Rectangle, src image.Image, sr image.Rectangle) {
		g := gift.New(gift.Resize(dr.Dx(), dr.Dy(), r))
		scaled := image.NewNRGBA(g.Bounds(sr.Sub(sr.Min)))
		g.Draw(scaled, crop(src, sr))
		draw.Draw(dst, dr, scaled, scaled.Bounds().Min, draw.Over)
	}
}

func nearestScaler(dst draw.Image, dr image.Rectangle, src image.Image, sr image.Rectangle) {
	scaled := resize.Resize(uint(dr.Dx()), uint(dr.Dy()), crop(src, sr), resize.NearestNeighbor)
	draw.Draw(dst, dr, scaled, scaled.Bounds().Min, draw.Over)
}

// crop returns the sr part of src with its origin at (0, 0).
func crop(src image.Image, sr image.Rectangle) image.Image {
	if src.Bounds() == sr && sr.Min == (image.Point{}) {
		return src
	}
	dst := image.NewNRGBA(sr.Sub(sr.Min))
	draw.Draw(dst, dst.Bounds(), src, sr.Min, draw.Src)
	return dst
}

// fit scales img to fit width x height. A zero dimension keeps the source
// one. With trim the source is trimmed to the destination aspect ratio;
// otherwise the result shrinks to keep the ratio, unless fillColor is set,
// in which case the margins are painted with it.
func fit(logger *slog.Logger, img image.Image, width, height int, trim bool, fillColor color.Color, scale scaler) image.Image {
	srcBounds := img.Bounds()
	srcWidth := float64(srcBounds.Dx())
	srcHeight := float64(srcBounds.Dy())

	destWidth := float64(width)
	if destWidth == 0 {
		destWidth = srcWidth
	}

	destHeight := float64(height)
	if destHeight == 0 {
		destHeight = srcHeight
	}

	if (srcWidth == destWidth) && (srcHeight == destHeight) {
		return img
	}

	destSize := image.Rect(0, 0, int(destWidth), int(destHeight))
	destBounds := destSize

	srcAR := srcWidth / srcHeight
	destAR := destWidth / destHeight
	var fill bool
	if trim {
		if srcAR < destAR {
			dh := int(math.Round((srcHeight - srcWidth/destAR) / 2))
			srcBounds.Min.Y += dh
			srcBounds.Max.Y -= dh
		} else if srcAR > destAR {
			dw := int(math.Round((srcWidth - srcHeight*destAR) / 2))
			srcBounds.Min.X += dw
			srcBounds.Max.X -= dw
		}
	} else if srcAR < destAR {
		dw := destHeight * srcAR
		if fillColor == nil {
			destSize.Max.X = max(1, int(math.Round(dw)))
			destBounds.Max.X = destSize.Max.X
		} else if fill = destWidth > dw; fill {
			idw := int(math.Round((destWidth - dw) / 2))
			destBounds.Min.X += idw
			destBounds.Max.X -= idw
		}
	} else if srcAR > destAR {
		dh := destWidth / srcAR
		if fillColor == nil {
			destSize.Max.Y = max(1, int(math.Round(dh)))
			destBounds.Max.Y = destSize.Max.Y
		} else if fill = destHeight > dh; fill {
			idh := int(math.Round((destHeight - dh) / 2))
			destBounds.Min.Y += idh
			destBounds.Max.Y -= idh
		}
	}

	logger.Info("resizing", "width", destBounds.Dx(), "height", destBounds.Dy())
	dest := image.NewNRGBA(destSize)
	if fill {
		draw.Draw(dest, destSize, image.NewUniform(fillColor), image.Point{}, draw.Src)
	}
	scale(dest, destBounds, img, srcBounds)

	return dest
}
