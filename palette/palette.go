// Package palette resolves the bead palettes a mosaic is quantized against:
// built-in tables, RIFF PAL files, explicit color lists and palettes
// extracted from an image.
package palette

import (
	"fmt"
	"image/color"
	stdpalette "image/color/palette"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"beadify/bead"
)

var builtins = map[string]color.Palette{
	"bw": {
		color.Black,
		color.White,
	},
	"spectra6": {
		color.RGBA{0x00, 0x00, 0x00, 0xFF},
		color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		color.RGBA{0xFF, 0x00, 0x00, 0xFF},
		color.RGBA{0xFF, 0xFF, 0x00, 0xFF},
		color.RGBA{0x00, 0x00, 0xFF, 0xFF},
		color.RGBA{0x00, 0xFF, 0x00, 0xFF},
	},
	"gray16":  gray(16),
	"vga16":   vga16,
	"websafe": stdpalette.WebSafe,
	"plan9":   stdpalette.Plan9,
}

var vga16 = color.Palette{
	color.RGBA{0x00, 0x00, 0x00, 0xFF},
	color.RGBA{0x00, 0x00, 0xAA, 0xFF},
	color.RGBA{0x00, 0xAA, 0x00, 0xFF},
	color.RGBA{0x00, 0xAA, 0xAA, 0xFF},
	color.RGBA{0xAA, 0x00, 0x00, 0xFF},
	color.RGBA{0xAA, 0x00, 0xAA, 0xFF},
	color.RGBA{0xAA, 0x55, 0x00, 0xFF},
	color.RGBA{0xAA, 0xAA, 0xAA, 0xFF},
	color.RGBA{0x55, 0x55, 0x55, 0xFF},
	color.RGBA{0x55, 0x55, 0xFF, 0xFF},
	color.RGBA{0x55, 0xFF, 0x55, 0xFF},
	color.RGBA{0x55, 0xFF, 0xFF, 0xFF},
	color.RGBA{0xFF, 0x55, 0x55, 0xFF},
	color.RGBA{0xFF, 0x55, 0xFF, 0xFF},
	color.RGBA{0xFF, 0xFF, 0x55, 0xFF},
	color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
}

func gray(n int) color.Palette {
	pal := make(color.Palette, n)
	for i := range n {
		pal[i] = color.Gray{Y: uint8(i * 0xFF / (n - 1))}
	}
	return pal
}

// Names lists the built-in palettes in alphabetical order.
func Names() []string {
	return slices.Sorted(maps.Keys(builtins))
}

func Builtin(name string) (bead.Palette, bool) {
	pal, ok := builtins[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return FromColors(pal), true
}

// FromColors converts a standard library palette, dropping alpha.
func FromColors(pal color.Palette) bead.Palette {
	res := make(bead.Palette, len(pal))
	for i, c := range pal {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		res[i] = bead.RGB{R: nc.R, G: nc.G, B: nc.B}
	}
	return res
}

// Dedupe removes repeated colors, keeping the first occurrence so the
// tie-breaking order of the palette is preserved.
func Dedupe(pal bead.Palette) bead.Palette {
	seen := make(map[bead.RGB]struct{}, len(pal))
	res := make(bead.Palette, 0, len(pal))
	for _, c := range pal {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		res = append(res, c)
	}
	return res
}

// Load resolves a palette source: a built-in name, a path to a RIFF .pal
// file, or a ';' separated color list.
func Load(src string) (bead.Palette, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("no palette given")
	}

	if pal, ok := Builtin(src); ok {
		return pal, nil
	}

	if strings.EqualFold(filepath.Ext(src), ".pal") {
		return LoadFile(src)
	}

	pal, err := ParseList(strings.Split(src, ";"))
	if err != nil {
		return nil, fmt.Errorf("unknown palette %q: %w", src, err)
	}
	return pal, nil
}

func LoadFile(name string) (bead.Palette, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open palette file %q: %w", name, err)
	}
	defer f.Close()

	pal, err := ReadRIFF(f)
	if err != nil {
		return nil, fmt.Errorf("could not load palette file %q: %w", name, err)
	}
	if len(pal) == 0 {
		return nil, fmt.Errorf("palette file %q has no colors", name)
	}
	return Dedupe(pal), nil
}
