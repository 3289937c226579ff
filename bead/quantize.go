package bead

import (
	"fmt"
	"math"
)

// Palette is an ordered set of bead colors. When two entries are equally
// close to a color, the one with the lower index wins.
type Palette []RGB

// Index returns the index of the palette entry closest to c in squared
// Euclidean RGB distance, or -1 for an empty palette.
func (p Palette) Index(c RGB) int {
	ret, bestSum := -1, math.MaxInt
	for i, v := range p {
		dr := int(c.R) - int(v.R)
		dg := int(c.G) - int(v.G)
		db := int(c.B) - int(v.B)
		sum := dr*dr + dg*dg + db*db
		if sum < bestSum {
			if sum == 0 {
				return i
			}
			ret, bestSum = i, sum
		}
	}
	return ret
}

// Convert returns the palette entry closest to c, or c itself for an empty
// palette.
func (p Palette) Convert(c RGB) RGB {
	if len(p) == 0 {
		return c
	}
	return p[p.Index(c)]
}

// Quantize replaces, in place, every RGB triple of a width x height grid
// buffer with its nearest palette color. An empty palette is rejected with
// ErrEmptyPalette and leaves pix untouched.
func Quantize(pix []uint8, width, height int, p Palette) error {
	switch {
	case width < 0 || height < 0:
		return fmt.Errorf("%w: grid size %dx%d", ErrInvalidDimension, width, height)
	case width > 0 && height > math.MaxInt/3/width:
		return fmt.Errorf("%w: grid size %dx%d overflows an RGB buffer", ErrInvalidDimension, width, height)
	case len(pix) != width*height*3:
		return fmt.Errorf("%w: got %d bytes, want %d for %dx%d RGB", ErrBufferSizeMismatch,
			len(pix), width*height*3, width, height)
	case len(p) == 0:
		return ErrEmptyPalette
	}

	for i := 0; i < len(pix); i += 3 {
		c := p[p.Index(RGB{R: pix[i], G: pix[i+1], B: pix[i+2]})]
		pix[i], pix[i+1], pix[i+2] = c.R, c.G, c.B
	}

	return nil
}
