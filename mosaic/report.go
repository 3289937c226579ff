package mosaic

import (
	"cmp"
	"log/slog"
	"math"
	"slices"

	"beadify/bead"
	"beadify/palette"

	"gonum.org/v1/gonum/stat"
)

// Count is the number of beads of one color.
type Count struct {
	Color bead.RGB
	Beads int
}

// Counts lists the bead colors of g, most used first. Colors used equally
// often keep the order in which they first appear in the grid.
func Counts(g *bead.Grid) []Count {
	index := map[bead.RGB]int{}
	var counts []Count
	for y := range g.Height {
		for x := range g.Width {
			c := g.RGBAt(x, y)
			i, ok := index[c]
			if !ok {
				i = len(counts)
				index[c] = i
				counts = append(counts, Count{Color: c})
			}
			counts[i].Beads++
		}
	}

	slices.SortStableFunc(counts, func(a, b Count) int {
		return cmp.Compare(b.Beads, a.Beads)
	})
	return counts
}

// quantizationError returns the mean and standard deviation of the RGB
// distance between the averaged and the quantized color of every bead.
func quantizationError(averaged, quantized *bead.Grid) (mean, std float64) {
	n := min(len(averaged.Pix), len(quantized.Pix)) / 3
	if n == 0 {
		return 0, 0
	}

	dist := make([]float64, n)
	for i := range dist {
		var sum float64
		for ch := range 3 {
			d := float64(averaged.Pix[i*3+ch]) - float64(quantized.Pix[i*3+ch])
			sum += d * d
		}
		dist[i] = math.Sqrt(sum)
	}

	if n == 1 {
		return dist[0], 0
	}
	return stat.MeanStdDev(dist, nil)
}

func report(logger *slog.Logger, averaged, beads *bead.Grid) {
	counts := Counts(beads)
	logger.Info("beads", "width", beads.Width, "height", beads.Height,
		"total", beads.Width*beads.Height, "colors", len(counts))

	if averaged != beads {
		mean, std := quantizationError(averaged, beads)
		logger.Info("quantization error", "mean", mean, "stddev", std)
	}

	for _, c := range counts {
		logger.Debug("bead count", "color", palette.Hex(c.Color), "beads", c.Beads)
	}
}
