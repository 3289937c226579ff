package mosaic

import (
	"slices"

	"beadify/bead"
)

// Session holds the state of one source image across bead computations. It
// only reruns the pipeline steps whose inputs changed: a new bead width
// downsamples again, a new palette only quantizes again.
type Session struct {
	pix           []uint8
	width, height int

	beadWidth int
	palette   bead.Palette

	averaged      *bead.Grid
	averagedWidth int
	beads         *bead.Grid

	downsamples, quantizes int
}

// NewSession starts a session over a row-major RGBA buffer. The buffer must
// not change while the session is in use.
func NewSession(pix []uint8, width, height int) *Session {
	return &Session{
		pix:       pix,
		width:     width,
		height:    height,
		beadWidth: width,
	}
}

func (s *Session) Width() int  { return s.width }
func (s *Session) Height() int { return s.height }

func (s *Session) BeadWidth() int { return s.beadWidth }

func (s *Session) SetBeadWidth(n int) {
	if n == s.beadWidth {
		return
	}
	s.beadWidth = n
	s.beads = nil
}

// SetPalette changes the palette beads are snapped to. An empty palette keeps
// the averaged colors.
func (s *Session) SetPalette(p bead.Palette) {
	if slices.Equal(p, s.palette) {
		return
	}
	s.palette = slices.Clone(p)
	s.beads = nil
}

// Averaged returns the downsampled grid for the current bead width. The grid
// is shared with the session and must not be modified.
func (s *Session) Averaged() (*bead.Grid, error) {
	if s.averaged != nil && s.averagedWidth == s.beadWidth {
		return s.averaged, nil
	}

	g, err := bead.Downsample(s.pix, s.width, s.height, s.beadWidth)
	if err != nil {
		return nil, err
	}
	s.downsamples++
	s.averaged, s.averagedWidth = g, s.beadWidth
	return g, nil
}

// Beads returns the averaged grid snapped to the palette. The grid is shared
// with the session and must not be modified.
func (s *Session) Beads() (*bead.Grid, error) {
	if s.beads != nil {
		return s.beads, nil
	}

	avg, err := s.Averaged()
	if err != nil {
		return nil, err
	}
	if len(s.palette) == 0 {
		s.beads = avg
		return avg, nil
	}

	g := avg.Clone()
	if err = g.Quantize(s.palette); err != nil {
		return nil, err
	}
	s.quantizes++
	s.beads = g
	return g, nil
}
