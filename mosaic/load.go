package mosaic

import (
	"fmt"
	"image"
	"os"

	"golang.org/x/image/draw"
)

func decode(name string) (image.Image, string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, "", fmt.Errorf("could not open image: %w", err)
	}
	defer f.Close()

	img, imgType, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image: %w", err)
	}
	return img, imgType, nil
}

// toNRGBA returns img as a non-premultiplied RGBA image anchored at the
// origin, so that its Pix is a plain width*4 stride buffer.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
