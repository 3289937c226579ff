package bead

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

var blackWhite = Palette{{0, 0, 0}, {255, 255, 255}}

func TestQuantizeNearest(t *testing.T) {
	pix := []uint8{10, 10, 10}
	if err := Quantize(pix, 1, 1, blackWhite); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pix, []uint8{0, 0, 0}) {
		t.Errorf("got %v, want [0 0 0]", pix)
	}
}

func TestQuantizeGrid(t *testing.T) {
	pal := Palette{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}}
	g := NewGrid(3, 1)
	g.SetRGB(0, 0, RGB{200, 30, 30})
	g.SetRGB(1, 0, RGB{20, 180, 90})
	g.SetRGB(2, 0, RGB{10, 90, 100})
	if err := g.Quantize(pal); err != nil {
		t.Fatal(err)
	}
	for x, want := range pal {
		if got := g.RGBAt(x, 0); got != want {
			t.Errorf("bead %d: got %v, want %v", x, got, want)
		}
	}
}

func TestQuantizeIdempotent(t *testing.T) {
	pal := Palette{{0, 0, 0}, {128, 64, 32}, {255, 255, 255}, {0, 128, 255}}

	onlyPalette := []uint8{128, 64, 32, 0, 0, 0, 0, 128, 255, 255, 255, 255}
	want := append([]uint8(nil), onlyPalette...)
	if err := Quantize(onlyPalette, 2, 2, pal); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(onlyPalette, want) {
		t.Errorf("palette-only grid changed: got %v, want %v", onlyPalette, want)
	}

	pix := make([]uint8, 5*4*3)
	for i := range pix {
		pix[i] = uint8(i * 37)
	}
	if err := Quantize(pix, 5, 4, pal); err != nil {
		t.Fatal(err)
	}
	once := append([]uint8(nil), pix...)
	if err := Quantize(pix, 5, 4, pal); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pix, once) {
		t.Errorf("second pass changed the grid: got %v, want %v", pix, once)
	}
}

func TestQuantizeTieGoesToFirst(t *testing.T) {
	// (100,0,0) is 100 away from both entries.
	pix := []uint8{100, 0, 0}
	pal := Palette{{200, 0, 0}, {0, 0, 0}}
	if err := Quantize(pix, 1, 1, pal); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pix, []uint8{200, 0, 0}) {
		t.Errorf("got %v, want [200 0 0]", pix)
	}

	pix = []uint8{100, 0, 0}
	pal[0], pal[1] = pal[1], pal[0]
	if err := Quantize(pix, 1, 1, pal); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pix, []uint8{0, 0, 0}) {
		t.Errorf("got %v, want [0 0 0]", pix)
	}
}

func TestQuantizeEmptyGrid(t *testing.T) {
	if err := Quantize(nil, 5, 0, blackWhite); err != nil {
		t.Errorf("got error %v for a grid without rows", err)
	}
}

func TestQuantizeErrors(t *testing.T) {
	tests := []struct {
		name          string
		pixLen        int
		width, height int
		pal           Palette
		want          error
	}{
		{"empty palette", 12, 2, 2, nil, ErrEmptyPalette},
		{"negative width", 0, -1, 2, blackWhite, ErrInvalidDimension},
		{"short buffer", 11, 2, 2, blackWhite, ErrBufferSizeMismatch},
		{"rgba sized buffer", 16, 2, 2, blackWhite, ErrBufferSizeMismatch},
		{"overflowing size", 0, math.MaxInt / 2, 4, blackWhite, ErrInvalidDimension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pix := make([]uint8, tt.pixLen)
			for i := range pix {
				pix[i] = 77
			}
			if err := Quantize(pix, tt.width, tt.height, tt.pal); !errors.Is(err, tt.want) {
				t.Errorf("got error %v, want %v", err, tt.want)
			}
			for _, v := range pix {
				if v != 77 {
					t.Fatalf("buffer modified on error: %v", pix)
				}
			}
		})
	}
}

func TestPaletteIndex(t *testing.T) {
	pal := Palette{{0, 0, 0}, {255, 0, 0}, {255, 255, 255}, {255, 0, 0}}
	tests := []struct {
		c    RGB
		want int
	}{
		{RGB{1, 1, 1}, 0},
		{RGB{250, 10, 10}, 1},
		{RGB{255, 0, 0}, 1},
		{RGB{200, 200, 200}, 2},
	}
	for _, tt := range tests {
		if got := pal.Index(tt.c); got != tt.want {
			t.Errorf("Index(%v) = %d, want %d", tt.c, got, tt.want)
		}
	}

	if got := Palette(nil).Index(RGB{1, 2, 3}); got != -1 {
		t.Errorf("empty palette Index = %d, want -1", got)
	}
	if got := Palette(nil).Convert(RGB{1, 2, 3}); got != (RGB{1, 2, 3}) {
		t.Errorf("empty palette Convert = %v, want input", got)
	}
}
