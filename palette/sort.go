package palette

import (
	"cmp"
	"slices"

	"beadify/bead"

	"github.com/lucasb-eyer/go-colorful"
)

// SortByLightness orders colors from darkest to brightest by CIE L*. Equal
// lightness keeps the original order.
func SortByLightness(pal bead.Palette) {
	slices.SortStableFunc(pal, func(a, b bead.RGB) int {
		return cmp.Compare(lightness(a), lightness(b))
	})
}

func lightness(c bead.RGB) float64 {
	col, _ := colorful.MakeColor(c)
	l, _, _ := col.Lab()
	return l
}
