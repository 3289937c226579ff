// Package bead turns RGBA pixel buffers into bead grids: coarse RGB grids
// of block-averaged colors, optionally snapped to a palette.
package bead

import (
	"image"
	"image/color"
)

type RGB struct {
	R, G, B uint8
}

func (c RGB) RGBA() (uint32, uint32, uint32, uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}.RGBA()
}

// Grid is a row-major RGB bead grid, 3 bytes per cell.
type Grid struct {
	Width  int
	Height int
	Pix    []uint8
}

var _ image.Image = &Grid{}

func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

func (g *Grid) offset(x, y int) int {
	return (y*g.Width + x) * 3
}

func (g *Grid) RGBAt(x, y int) RGB {
	i := g.offset(x, y)
	return RGB{R: g.Pix[i], G: g.Pix[i+1], B: g.Pix[i+2]}
}

func (g *Grid) SetRGB(x, y int, c RGB) {
	i := g.offset(x, y)
	g.Pix[i], g.Pix[i+1], g.Pix[i+2] = c.R, c.G, c.B
}

func (g *Grid) Clone() *Grid {
	return &Grid{
		Width:  g.Width,
		Height: g.Height,
		Pix:    append([]uint8(nil), g.Pix...),
	}
}

func (g *Grid) ColorModel() color.Model {
	return color.RGBAModel
}

func (g *Grid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.Width, g.Height)
}

// At returns the opaque color of the bead at (x, y), or transparent black
// outside the grid.
func (g *Grid) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(g.Bounds())) {
		return color.RGBA{}
	}
	c := g.RGBAt(x, y)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// Quantize snaps every bead of the grid to its nearest palette color.
func (g *Grid) Quantize(p Palette) error {
	return Quantize(g.Pix, g.Width, g.Height, p)
}
