package palette

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"beadify/bead"

	"golang.org/x/image/riff"
)

/*
typedef struct tagLOGPALETTE {
  WORD         palVersion;
  WORD         palNumEntries;
  PALETTEENTRY palPalEntry[1];
} LOGPALETTE;

typedef struct tagPALETTEENTRY {
  BYTE peRed;
  BYTE peGreen;
  BYTE peBlue;
  BYTE peFlags;
} PALETTEENTRY;
*/

const palVersion = 0x0300

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

// ReadRIFF reads every palette of a RIFF PAL stream, flattened in file order.
func ReadRIFF(r io.Reader) (bead.Palette, error) {
	pals, err := ReadFrom(r)
	if err != nil {
		return nil, err
	}

	var res bead.Palette
	for _, pal := range pals {
		res = append(res, pal...)
	}
	return res, nil
}

func ReadFrom(r io.Reader) ([]bead.Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %q", string(formType[:]))
	}

	return readPalettes(rd, string(formType[:]))
}

func readPalettes(r *riff.Reader, ident string) ([]bead.Palette, error) {
	var res []bead.Palette

	for {
		id, size, data, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return res, fmt.Errorf("could not read chunk %q#%d: %w", ident, len(res), err)
		}

		switch id {
		case riff.LIST:
			listType, list, lerr := riff.NewListReader(size, data)
			if lerr != nil {
				return res, fmt.Errorf("could not read list from chunk %q#%d: %w", ident, len(res), lerr)
			} else if listType != palType {
				return res, fmt.Errorf("chunk %q#%d unsupported list type: %q", ident, len(res), string(listType[:]))
			}

			listRes, lerr := readPalettes(list, fmt.Sprintf("%s%d.%s", ident, len(res), listType[:]))
			res = append(res, listRes...)
			if lerr != nil {
				return res, lerr
			}
		case dataType:
			pal, err := readPalette(data, fmt.Sprintf("%s%d", ident, len(res)))
			if err != nil {
				return res, err
			}
			res = append(res, pal)
		default:
			return res, fmt.Errorf("unsupported chunk type in %q#%d: %q", ident, len(res), string(id[:]))
		}
	}

	return res, nil
}

func readPalette(r io.Reader, ident string) (bead.Palette, error) {
	var header struct {
		Version uint16
		Count   uint16
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("could not read header from chunk %s: %w", ident, err)
	}
	if header.Version != palVersion {
		return nil, fmt.Errorf("unsupported palette version in chunk %s: %#04x", ident, header.Version)
	}

	buf := make([]byte, int(header.Count)*4)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("could not read %d colors from chunk %s: %w", header.Count, ident, err)
	}

	res := make(bead.Palette, header.Count)
	for i := range res {
		res[i] = bead.RGB{R: buf[i*4], G: buf[i*4+1], B: buf[i*4+2]}
	}
	return res, nil
}

// WriteRIFF writes the palettes as data chunks of a single RIFF PAL stream and
// returns the number of colors written.
func WriteRIFF(w io.Writer, pals ...bead.Palette) (int64, error) {
	n := 4
	for _, pal := range pals {
		if len(pal) > 0xFFFF {
			return 0, fmt.Errorf("palette too large for PAL format: %d colors", len(pal))
		}
		n += 4 + 4 + 4 + len(pal)*4 // chunk id + chunk size + palVersion + palNumEntries + 4 bytes/color
	}

	if err := writeBytes(w, riffType[:]); err != nil {
		return 0, fmt.Errorf("could not write RIFF magic: %w", err)
	}

	if err := writeBytes(w, binary.LittleEndian.AppendUint32(nil, uint32(n))); err != nil {
		return 0, fmt.Errorf("could not write document size: %w", err)
	}

	if err := writeBytes(w, palType[:]); err != nil {
		return 0, fmt.Errorf("could not write content type: %w", err)
	}

	var count int64
	for i, pal := range pals {
		n, err := writePalette(w, pal)
		count += n
		if err != nil {
			return count, fmt.Errorf("could not write chunk %d: %w", i, err)
		}
	}

	return count, nil
}

func writePalette(w io.Writer, pal bead.Palette) (int64, error) {
	if err := writeBytes(w, dataType[:]); err != nil {
		return 0, fmt.Errorf("could not write type: %w", err)
	}

	n := 4 + len(pal)*4
	if err := writeBytes(w, binary.LittleEndian.AppendUint32(nil, uint32(n))); err != nil {
		return 0, fmt.Errorf("could not write chunk size: %w", err)
	}

	header := binary.LittleEndian.AppendUint16(nil, palVersion)
	header = binary.LittleEndian.AppendUint16(header, uint16(len(pal)))
	if err := writeBytes(w, header); err != nil {
		return 0, fmt.Errorf("could not write palette header: %w", err)
	}

	for i, c := range pal {
		if err := writeBytes(w, []byte{c.R, c.G, c.B, 0x00}); err != nil {
			return int64(i), fmt.Errorf("could not write color %d/%d: %w", i, len(pal), err)
		}
	}

	return int64(len(pal)), nil
}

func writeBytes(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return err
	} else if n != len(b) {
		return fmt.Errorf("wrote only %d/%d bytes", n, len(b))
	}

	return nil
}
