package palette

import (
	"fmt"
	"image"
	"log/slog"
	"os"

	"beadify/bead"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	List    ListCmd    `cmd:"" help:"List built-in palettes"`
	Show    ShowCmd    `cmd:"" help:"Show the colors of a palette"`
	Export  ExportCmd  `cmd:"" help:"Write a palette to a RIFF PAL file"`
	Extract ExtractCmd `cmd:"" help:"Extract a palette from an image"`
}

type ListCmd struct{}

func (c *ListCmd) Run() error {
	for _, name := range Names() {
		pal, _ := Builtin(name)
		slog.Info("palette", "name", name, "colors", len(pal))
	}
	return nil
}

type ShowCmd struct {
	Source  string       `arg:"" help:"Built-in palette name, PAL file or ';' separated color list"`
	Sort    bool         `help:"Sort colors from darkest to brightest" default:"false"`
	Palette bead.Palette `kong:"-"`
}

func (c *ShowCmd) Validate(kctx *kong.Context) error {
	var err error
	c.Palette, err = Load(c.Source)
	return err
}

func (c *ShowCmd) Run() error {
	pal := append(bead.Palette(nil), c.Palette...)
	if c.Sort {
		SortByLightness(pal)
	}
	logPalette(slog.Default().With("palette", c.Source), pal)
	return nil
}

type ExportCmd struct {
	Source  string       `arg:"" help:"Built-in palette name, PAL file or ';' separated color list"`
	Out     string       `help:"Destination PAL file" required:"" type:"path"`
	Sort    bool         `help:"Sort colors from darkest to brightest" default:"false"`
	Palette bead.Palette `kong:"-"`
}

func (c *ExportCmd) Validate(kctx *kong.Context) error {
	var err error
	c.Palette, err = Load(c.Source)
	return err
}

func (c *ExportCmd) Run() error {
	pal := append(bead.Palette(nil), c.Palette...)
	if c.Sort {
		SortByLightness(pal)
	}
	return Save(c.Out, pal)
}

type ExtractCmd struct {
	Image  string `arg:"" help:"Source image" type:"existingfile"`
	Colors int    `help:"Number of colors to extract" default:"8"`
	Method string `help:"Extraction method" enum:"dominant,kmeans,median,colorquant" default:"median"`
	Out    string `help:"Destination PAL file; colors are only logged when empty" type:"path"`
}

func (c *ExtractCmd) Validate(kctx *kong.Context) error {
	if c.Colors < 1 || c.Colors > 0xFFFF {
		return fmt.Errorf("invalid number of colors: %d", c.Colors)
	}
	return nil
}

func (c *ExtractCmd) Run() error {
	logger := slog.Default().With("file", c.Image, "method", c.Method)

	f, err := os.Open(c.Image)
	if err != nil {
		return fmt.Errorf("could not open image %q: %w", c.Image, err)
	}
	img, _, err := image.Decode(f)
	if cerr := f.Close(); cerr != nil {
		logger.Error("could not close image", "error", cerr)
	}
	if err != nil {
		return fmt.Errorf("could not decode image %q: %w", c.Image, err)
	}

	pal, err := Extract(img, c.Colors, Method(c.Method))
	if err != nil {
		return err
	}
	logPalette(logger, pal)

	if c.Out == "" {
		return nil
	}
	return Save(c.Out, pal)
}

// Save writes pal to a RIFF PAL file, replacing any existing file.
func Save(name string, pal bead.Palette) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("could not create palette file %q: %w", name, err)
	}
	defer func() {
		if defErr := f.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close palette file %q: %w", name, defErr)
		}
	}()

	n, err := WriteRIFF(f, pal)
	if err != nil {
		return fmt.Errorf("could not write palette file %q: %w", name, err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("could not flush palette file %q: %w", name, err)
	}

	slog.Info("saved palette", "file", name, "colors", n)
	return nil
}

func logPalette(logger *slog.Logger, pal bead.Palette) {
	logger.Info("palette", "colors", len(pal))
	for i, c := range pal {
		logger.Info("color", "index", i, "hex", Hex(c),
			"rgb", fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B))
	}
}
