package bead

import (
	"fmt"
	"math"
)

// BeadHeight returns the number of bead rows that keeps the aspect ratio of a
// width x height image split into beadWidth columns. It may be zero.
func BeadHeight(width, height, beadWidth int) int {
	if width <= 0 {
		return 0
	}
	return beadWidth * height / width
}

// Downsample averages non-overlapping blocks of an RGBA buffer into a grid of
// beadWidth columns. pix is row-major RGBA with a stride of width*4 bytes.
//
// Every bead covers width/beadWidth by height/beadHeight source pixels.
// Leftover columns on the right and rows at the bottom are ignored. Alpha is
// ignored. A grid with zero rows is returned when beadWidth*height < width.
func Downsample(pix []uint8, width, height, beadWidth int) (*Grid, error) {
	switch {
	case width < 1 || height < 1:
		return nil, fmt.Errorf("%w: image size %dx%d", ErrInvalidDimension, width, height)
	case beadWidth < 1:
		return nil, fmt.Errorf("%w: bead width %d", ErrInvalidDimension, beadWidth)
	case beadWidth > width:
		return nil, fmt.Errorf("%w: bead width %d exceeds image width %d", ErrInvalidDimension, beadWidth, width)
	case width > math.MaxInt/4 || height > math.MaxInt/4/width:
		return nil, fmt.Errorf("%w: image size %dx%d overflows an RGBA buffer", ErrInvalidDimension, width, height)
	case len(pix) != width*height*4:
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%d RGBA", ErrBufferSizeMismatch,
			len(pix), width*height*4, width, height)
	}

	beadHeight := BeadHeight(width, height, beadWidth)
	grid := NewGrid(beadWidth, beadHeight)
	if beadHeight == 0 {
		return grid, nil
	}

	stride := width * 4
	footW := width / beadWidth
	footH := height / beadHeight
	count := uint64(footW * footH)

	acc := make([]uint64, beadWidth*3)
	for by := range beadHeight {
		rowStart := by * footH * stride
		for y := range footH {
			line := rowStart + y*stride
			for bx := range beadWidth {
				sum := acc[bx*3 : bx*3+3]
				p := line + bx*footW*4
				for range footW {
					sum[0] += uint64(pix[p])
					sum[1] += uint64(pix[p+1])
					sum[2] += uint64(pix[p+2])
					p += 4
				}
			}
		}

		out := grid.Pix[by*beadWidth*3 : (by+1)*beadWidth*3]
		for i, sum := range acc {
			out[i] = average(sum, count)
			acc[i] = 0
		}
	}

	return grid, nil
}

// average rounds sum/count to the nearest integer, halves up.
func average(sum, count uint64) uint8 {
	return uint8(min((sum+count/2)/count, 0xFF))
}
