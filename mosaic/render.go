package mosaic

import (
	"image"
	"image/color"

	"beadify/bead"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// kappa places cubic Bézier control points to approximate a quarter circle.
const kappa = 0.5522847498

// Render draws every bead as a filled circle of diameter size pixels. The
// canvas is transparent unless bg is given.
func Render(g *bead.Grid, size int, bg color.Color) *image.RGBA {
	dest := image.NewRGBA(image.Rect(0, 0, g.Width*size, g.Height*size))
	if bg != nil {
		draw.Draw(dest, dest.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	mask := circleMask(size)
	for y := range g.Height {
		for x := range g.Width {
			cell := image.Rect(x*size, y*size, (x+1)*size, (y+1)*size)
			draw.DrawMask(dest, cell, image.NewUniform(g.RGBAt(x, y)), image.Point{}, mask, image.Point{}, draw.Over)
		}
	}

	return dest
}

func circleMask(size int) *image.Alpha {
	r := float32(size) / 2
	k := r * kappa

	z := vector.NewRasterizer(size, size)
	z.MoveTo(2*r, r)
	z.CubeTo(2*r, r+k, r+k, 2*r, r, 2*r)
	z.CubeTo(r-k, 2*r, 0, r+k, 0, r)
	z.CubeTo(0, r-k, r-k, 0, r, 0)
	z.CubeTo(r+k, 0, 2*r, r-k, 2*r, r)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, size, size))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}
