package palette

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	stdpalette "image/color/palette"
	"math"
	"slices"

	"beadify/bead"

	"github.com/cenkalti/dominantcolor"
	"github.com/esimov/colorquant"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/soniakeys/quant/median"
)

type Method string

const (
	MethodDominant   Method = "dominant"
	MethodKMeans     Method = "kmeans"
	MethodMedian     Method = "median"
	MethodColorQuant Method = "colorquant"
)

// Methods lists the supported extraction methods, in flag enum order.
var Methods = []Method{MethodDominant, MethodKMeans, MethodMedian, MethodColorQuant}

const maxSamples = 12000

// Extract derives a palette of at most k colors from an image. Colors are
// ordered by how much of the image they represent, most common first.
func Extract(img image.Image, k int, method Method) (bead.Palette, error) {
	if k < 1 {
		return nil, fmt.Errorf("invalid number of colors: %d", k)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("cannot extract palette from an empty image")
	}

	var pal bead.Palette
	var err error
	switch method {
	case MethodDominant:
		pal = extractDominant(img, k)
	case MethodKMeans:
		pal, err = extractKMeans(img, k)
	case MethodMedian:
		pal = extractMedian(img, k)
	case MethodColorQuant:
		pal = extractColorQuant(img, k)
	default:
		return nil, fmt.Errorf("unsupported extraction method: %q", method)
	}
	if err != nil {
		return nil, fmt.Errorf("could not extract %s palette: %w", method, err)
	}

	pal = Dedupe(pal)
	if len(pal) == 0 {
		return nil, fmt.Errorf("%s extraction found no colors", method)
	}
	if len(pal) > k {
		pal = pal[:k]
	}
	return pal, nil
}

func extractDominant(img image.Image, k int) bead.Palette {
	found := dominantcolor.FindWeight(img, k)
	slices.SortStableFunc(found, func(a, b dominantcolor.Color) int {
		return cmp.Compare(b.Weight, a.Weight)
	})

	pal := make(bead.Palette, 0, len(found))
	for _, c := range found {
		pal = append(pal, bead.RGB{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B})
	}
	return pal
}

func extractKMeans(img image.Image, k int) (bead.Palette, error) {
	b := img.Bounds()
	step := 1
	if n := b.Dx() * b.Dy(); n > maxSamples {
		step = int(math.Sqrt(float64(n)/maxSamples)) + 1
	}

	var dataset clusters.Observations
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{float64(c.R), float64(c.G), float64(c.B)})
		}
	}
	if len(dataset) == 0 {
		return nil, fmt.Errorf("image is fully transparent")
	}

	cc, err := kmeans.New().Partition(dataset, min(k, len(dataset)))
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(cc, func(a, b clusters.Cluster) int {
		return cmp.Compare(len(b.Observations), len(a.Observations))
	})

	pal := make(bead.Palette, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		pal = append(pal, bead.RGB{
			R: channel(c.Center[0]),
			G: channel(c.Center[1]),
			B: channel(c.Center[2]),
		})
	}
	return pal, nil
}

func extractMedian(img image.Image, k int) bead.Palette {
	return byUsage(img, median.Quantizer(k).Paletted(img).Palette)
}

func extractColorQuant(img image.Image, k int) bead.Palette {
	dst := image.NewPaletted(img.Bounds(), stdpalette.WebSafe)
	out := colorquant.NoDither.Quantize(img, dst, k, false, true)

	b := out.Bounds()
	var used color.Palette
	seen := map[color.NRGBA]struct{}{}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(out.At(x, y)).(color.NRGBA)
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				used = append(used, c)
			}
		}
	}
	return byUsage(out, used)
}

// byUsage orders pal by the number of pixels of img that map to each entry.
// Entries no pixel maps to are dropped.
func byUsage(img image.Image, pal color.Palette) bead.Palette {
	if len(pal) == 0 {
		return nil
	}

	counts := make([]int, len(pal))
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			counts[pal.Index(img.At(x, y))]++
		}
	}

	order := make([]int, len(pal))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(counts[b], counts[a])
	})

	colors := FromColors(pal)
	res := make(bead.Palette, 0, len(pal))
	for _, i := range order {
		if counts[i] == 0 {
			break
		}
		res = append(res, colors[i])
	}
	return res
}

func channel(v float64) uint8 {
	return uint8(max(0, min(255, math.Round(v))))
}
