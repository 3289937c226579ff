package mosaic

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"beadify/bead"
	"beadify/palette"
	"beadify/parallel"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Scan          string       `help:"Source folder to scan" default:"."`
	Dest          string       `help:"Destination folder for bead mosaics. Relative to scan dir if not absolute." default:"beads"`
	Beads         []int        `help:"Number of bead columns; one mosaic is written per value" default:"40" group:"beads"`
	BeadSize      int          `help:"Rendered bead diameter in pixels" default:"10" group:"beads"`
	MaxHeight     int          `help:"Scale down images taller than this before downsampling, 0 keeps the full resolution" default:"0" group:"beads"`
	Scaler        string       `help:"Scaler used by --max-height" enum:"nearest,bilinear,catmullrom,lanczos" default:"catmullrom" group:"beads"`
	Palette       string       `help:"Palette name (bw, spectra6, gray16, vga16, websafe, plan9), PAL file in RIFF format, or ';' separated colors" group:"palette"`
	Colors        []string     `help:"Additional palette colors as #RGB, #RRGGBB or R,G,B" sep:";" group:"palette"`
	Extract       int          `help:"Extract a palette of this many colors from each image when no palette is given" default:"0" group:"palette"`
	ExtractMethod string       `help:"Palette extraction method" enum:"dominant,kmeans,median,colorquant" default:"median" group:"palette"`
	Background    string       `help:"Canvas color behind the beads, transparent if not given" group:"output"`
	Raw           bool         `help:"Also save the bead grid with one pixel per bead" default:"false" group:"output"`
	Format        string       `help:"Output format" enum:"png,gif,bmp,tiff,jpeg" default:"png" group:"output"`
	BeadPalette   bead.Palette `kong:"-"`
	BgColor       color.Color  `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	if len(c.Beads) == 0 {
		return fmt.Errorf("no bead widths given")
	}
	for _, n := range c.Beads {
		if n < 1 {
			return fmt.Errorf("invalid bead width: %d", n)
		}
	}

	switch {
	case c.BeadSize < 1:
		return fmt.Errorf("invalid bead size: %d", c.BeadSize)
	case c.MaxHeight < 0:
		return fmt.Errorf("invalid max height: %d", c.MaxHeight)
	case c.Extract < 0:
		return fmt.Errorf("invalid number of colors to extract: %d", c.Extract)
	}

	c.BeadPalette = nil
	if c.Palette != "" {
		if c.BeadPalette, err = palette.Load(c.Palette); err != nil {
			return err
		}
	}
	if len(c.Colors) > 0 {
		extra, err := palette.ParseList(c.Colors)
		if err != nil {
			return err
		}
		c.BeadPalette = palette.Dedupe(append(c.BeadPalette, extra...))
	}

	if c.Background != "" {
		bg, err := palette.ParseColor(c.Background)
		if err != nil {
			return fmt.Errorf("invalid background: %w", err)
		}
		c.BgColor = bg
	}

	return nil
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	switch {
	case len(c.BeadPalette) > 0:
		slog.Info("using palette", "colors", len(c.BeadPalette))
	case c.Extract > 0:
		slog.Info("extracting palettes", "colors", c.Extract, "method", c.ExtractMethod)
	default:
		slog.Warn("no palette given, beads keep their averaged colors")
	}

	for _, file := range files {
		if file.IsDir() || strings.HasPrefix(file.Name(), ".") {
			continue
		}

		filePath := filepath.Join(c.Scan, file.Name())
		fileName := file.Name()
		pool.Go(filePath, func() error {
			return c.process(filePath, fileName)
		})
	}

	processed, errors := pool.Wait()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func (c *CLICmd) process(filePath, fileName string) error {
	logger := slog.Default().With("file", filePath)

	img, imgType, err := decode(filePath)
	if err != nil {
		return err
	}
	logger.Debug("decoded", "type", imgType, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	src := toNRGBA(fit(logger, img, c.MaxHeight, c.Scaler))
	session := NewSession(src.Pix, src.Rect.Dx(), src.Rect.Dy())

	pal := c.BeadPalette
	if len(pal) == 0 && c.Extract > 0 {
		if pal, err = palette.Extract(src, c.Extract, palette.Method(c.ExtractMethod)); err != nil {
			return err
		}
		logger.Info("extracted palette", "method", c.ExtractMethod, "colors", len(pal))
	}
	session.SetPalette(pal)

	// The full file name keeps a.png and a.jpg from writing the same mosaic.
	base := fileName
	for _, beadWidth := range c.Beads {
		if beadWidth > session.Width() {
			logger.Warn("bead width larger than image, clamping", "beads", beadWidth, "width", session.Width())
			beadWidth = session.Width()
		}
		beadLog := logger.With("beads", beadWidth)

		session.SetBeadWidth(beadWidth)
		beads, err := session.Beads()
		if err != nil {
			return fmt.Errorf("could not compute %d beads: %w", beadWidth, err)
		}
		if beads.Height == 0 {
			beadLog.Warn("image too wide for a single bead row, skipping")
			continue
		}

		averaged, err := session.Averaged()
		if err != nil {
			return fmt.Errorf("could not compute %d beads: %w", beadWidth, err)
		}
		report(beadLog, averaged, beads)

		name := fmt.Sprintf("%s-%dbeads", base, beadWidth)
		bg := c.BgColor
		if bg == nil {
			bg = color.Transparent
		}
		if err = save(Render(beads, c.BeadSize, c.BgColor), gifPalette(beads, bg), c.Format, c.Dest, name); err != nil {
			return err
		}
		if c.Raw {
			if err = save(beads, gifPalette(beads), c.Format, c.Dest, name+"-raw"); err != nil {
				return err
			}
		}
		beadLog.Info("saved", "dir", c.Dest, "name", name)
	}

	return nil
}
