package mosaic

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"beadify/bead"
	"beadify/parallel"
)

func writePNG(t *testing.T, name string, img image.Image) {
	t.Helper()
	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err = png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func readPNG(t *testing.T, name string) image.Image {
	t.Helper()
	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func halves(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			c := color.NRGBA{230, 20, 20, 255}
			if x >= width/2 {
				c = color.NRGBA{20, 20, 230, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "halves.png"), halves(40, 20))

	cmd := &CLICmd{
		Scan:          dir,
		Dest:          "out",
		Beads:         []int{4, 80},
		BeadSize:      6,
		Scaler:        "catmullrom",
		Palette:       "#ff0000;#0000ff",
		ExtractMethod: "median",
		Raw:           true,
		Format:        "png",
	}
	if err := cmd.Validate(nil); err != nil {
		t.Fatal(err)
	}
	if len(cmd.BeadPalette) != 2 {
		t.Fatalf("got palette %v", cmd.BeadPalette)
	}
	if err := cmd.Run(parallel.Start(1)); err != nil {
		t.Fatal(err)
	}

	raw := readPNG(t, filepath.Join(dir, "out", "halves.png-4beads-raw.png"))
	if raw.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Fatalf("got raw bounds %v", raw.Bounds())
	}
	red := color.NRGBAModel.Convert(raw.At(0, 1)).(color.NRGBA)
	blue := color.NRGBAModel.Convert(raw.At(3, 0)).(color.NRGBA)
	if red != (color.NRGBA{255, 0, 0, 255}) || blue != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("got %v and %v, want red and blue beads", red, blue)
	}

	rendered := readPNG(t, filepath.Join(dir, "out", "halves.png-4beads.png"))
	if rendered.Bounds() != image.Rect(0, 0, 24, 12) {
		t.Errorf("got rendered bounds %v", rendered.Bounds())
	}

	// 80 columns are clamped to the 40 pixel wide source.
	if _, err := os.Stat(filepath.Join(dir, "out", "halves.png-40beads.png")); err != nil {
		t.Errorf("clamped mosaic missing: %v", err)
	}
}

func TestRunCountsFailures(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "ok.png"), halves(8, 8))
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := &CLICmd{
		Scan:     dir,
		Dest:     filepath.Join(dir, "out"),
		Beads:    []int{2},
		BeadSize: 2,
		Scaler:   "catmullrom",
		Format:   "png",
	}
	if err := cmd.Validate(nil); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(parallel.Start(2)); err == nil {
		t.Error("expected an error for the broken image")
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "ok.png-2beads.png")); err != nil {
		t.Errorf("valid image not processed: %v", err)
	}
}

func TestRunSameBaseName(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), halves(8, 8))
	f, err := os.Create(filepath.Join(dir, "a.gif"))
	if err != nil {
		t.Fatal(err)
	}
	if err = gif.Encode(f, halves(8, 8), nil); err != nil {
		t.Fatal(err)
	}
	if err = f.Close(); err != nil {
		t.Fatal(err)
	}

	cmd := &CLICmd{
		Scan:     dir,
		Dest:     "out",
		Beads:    []int{2},
		BeadSize: 4,
		Scaler:   "catmullrom",
		Palette:  "#ff0000;#0000ff",
		Raw:      true,
		Format:   "gif",
	}
	if err = cmd.Validate(nil); err != nil {
		t.Fatal(err)
	}
	if err = cmd.Run(parallel.Start(2)); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"a.png-2beads.gif", "a.gif-2beads.gif", "a.png-2beads-raw.gif", "a.gif-2beads-raw.gif"} {
		if _, err := os.Stat(filepath.Join(dir, "out", name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}

	f, err = os.Open(filepath.Join(dir, "out", "a.png-2beads-raw.gif"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	raw, err := gif.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	red := color.NRGBAModel.Convert(raw.At(0, 0)).(color.NRGBA)
	blue := color.NRGBAModel.Convert(raw.At(1, 1)).(color.NRGBA)
	if red != (color.NRGBA{255, 0, 0, 255}) || blue != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("got %v and %v, want red and blue beads", red, blue)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	base := func() *CLICmd {
		return &CLICmd{Scan: dir, Dest: "out", Beads: []int{10}, BeadSize: 10}
	}

	tests := []struct {
		name   string
		modify func(*CLICmd)
	}{
		{"missing scan dir", func(c *CLICmd) { c.Scan = filepath.Join(dir, "nope") }},
		{"no bead widths", func(c *CLICmd) { c.Beads = nil }},
		{"zero bead width", func(c *CLICmd) { c.Beads = []int{10, 0} }},
		{"zero bead size", func(c *CLICmd) { c.BeadSize = 0 }},
		{"negative max height", func(c *CLICmd) { c.MaxHeight = -1 }},
		{"negative extract", func(c *CLICmd) { c.Extract = -2 }},
		{"unknown palette", func(c *CLICmd) { c.Palette = "no-such-palette" }},
		{"bad color", func(c *CLICmd) { c.Colors = []string{"#zzz"} }},
		{"bad background", func(c *CLICmd) { c.Background = "1,2" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.modify(c)
			if err := c.Validate(nil); err == nil {
				t.Error("expected a validation error")
			}
		})
	}

	c := base()
	c.Palette = "bw"
	c.Colors = []string{"255,255,255", "#f00"}
	c.Background = "#102030"
	if err := c.Validate(nil); err != nil {
		t.Fatal(err)
	}
	if len(c.BeadPalette) != 3 || c.BeadPalette[2] != (bead.RGB{R: 255}) {
		t.Errorf("got palette %v", c.BeadPalette)
	}
	if c.BgColor != (bead.RGB{R: 0x10, G: 0x20, B: 0x30}) {
		t.Errorf("got background %v", c.BgColor)
	}
	if c.Dest != filepath.Join(c.Scan, "out") {
		t.Errorf("got dest %q", c.Dest)
	}
}
