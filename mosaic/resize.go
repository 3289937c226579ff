package mosaic

import (
	"image"
	"log/slog"
	"math"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

var interpolators = map[string]draw.Interpolator{
	"nearest":    draw.NearestNeighbor,
	"bilinear":   draw.ApproxBiLinear,
	"catmullrom": draw.CatmullRom,
}

// fit scales img down to maxHeight rows, keeping its aspect ratio. Images
// that already fit, or a maxHeight of 0, are returned as is.
func fit(logger *slog.Logger, img image.Image, maxHeight int, scaler string) image.Image {
	srcBounds := img.Bounds()
	if maxHeight <= 0 || srcBounds.Dy() <= maxHeight {
		return img
	}

	width := max(1, int(math.Round(float64(srcBounds.Dx())*float64(maxHeight)/float64(srcBounds.Dy()))))
	logger.Info("resizing", "width", width, "height", maxHeight, "scaler", scaler)

	interp, ok := interpolators[scaler]
	if !ok {
		return resize.Resize(uint(width), uint(maxHeight), img, resize.Lanczos3)
	}

	dest := image.NewNRGBA(image.Rect(0, 0, width, maxHeight))
	interp.Scale(dest, dest.Bounds(), img, srcBounds, draw.Src, nil)
	return dest
}
