package mosaic

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"beadify/bead"

	"github.com/soniakeys/quant/median"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// maxGIFColors is the largest palette a GIF frame can carry.
const maxGIFColors = 256

// gifPalette lists the bead colors of g followed by extra, typically the
// background of a rendered mosaic.
func gifPalette(g *bead.Grid, extra ...color.Color) color.Palette {
	counts := Counts(g)
	pal := make(color.Palette, 0, len(counts)+len(extra))
	for _, c := range counts {
		pal = append(pal, c.Color)
	}
	return append(pal, extra...)
}

// save encodes img into destDir/name.format, going through a temporary file
// so a failed encode never leaves a partial mosaic behind. pal is only used
// for GIF: img is mapped onto it so the bead colors survive encoding.
func save(img image.Image, pal color.Palette, format, destDir, name string) (err error) {
	destName := fmt.Sprintf("%s.%s", name, format)

	outFile, err := os.CreateTemp(destDir, destName)
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), filepath.Join(destDir, destName)); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", destName, defErr)
			}
		}
		if err != nil {
			_ = os.Remove(outFile.Name())
		}
	}()

	switch format {
	case "gif":
		var opts *gif.Options
		if len(pal) > 0 && len(pal) <= maxGIFColors {
			paletted := image.NewPaletted(img.Bounds(), pal)
			draw.Draw(paletted, paletted.Rect, img, paletted.Rect.Min, draw.Src)
			img = paletted
		} else {
			if len(pal) > maxGIFColors {
				slog.Warn("too many colors for GIF, quantizing", "name", destName, "colors", len(pal))
			}
			opts = &gif.Options{
				NumColors: maxGIFColors,
				Quantizer: median.Quantizer(maxGIFColors),
				Drawer:    draw.Src,
			}
		}
		if err = gif.Encode(outFile, img, opts); err != nil {
			return fmt.Errorf("could not encode GIF destination %q: %w", destName, err)
		}
	case "jpeg":
		if err = jpeg.Encode(outFile, img, &jpeg.Options{Quality: 100}); err != nil {
			return fmt.Errorf("could not encode JPEG destination %q: %w", destName, err)
		}
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		if err = enc.Encode(outFile, img); err != nil {
			return fmt.Errorf("could not encode PNG destination %q: %w", destName, err)
		}
	case "bmp":
		if err = bmp.Encode(outFile, img); err != nil {
			return fmt.Errorf("could not encode BMP destination %q: %w", destName, err)
		}
	case "tiff":
		if err = tiff.Encode(outFile, img, nil); err != nil {
			return fmt.Errorf("could not encode TIFF destination %q: %w", destName, err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}

	canRename = true
	return nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
