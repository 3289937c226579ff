package palette

import (
	"fmt"
	"strconv"
	"strings"

	"beadify/bead"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor reads a single color written as #RGB, #RRGGBB, "R,G,B" or
// "rgb(R, G, B)".
func ParseColor(s string) (bead.RGB, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		if len(s) != 4 && len(s) != 7 {
			return bead.RGB{}, fmt.Errorf("invalid hex color %q, should be #RGB or #RRGGBB", s)
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return bead.RGB{}, fmt.Errorf("invalid hex color %q, should be #RGB or #RRGGBB: %w", s, err)
		}
		r, g, b := c.RGB255()
		return bead.RGB{R: r, G: g, B: b}, nil
	}

	if inner, ok := strings.CutPrefix(strings.ToLower(s), "rgb("); ok {
		s, ok = strings.CutSuffix(inner, ")")
		if !ok {
			return bead.RGB{}, fmt.Errorf("unterminated rgb() color %q", s)
		}
	}

	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return bead.RGB{}, fmt.Errorf("invalid color %q, should be #RGB, #RRGGBB or R,G,B", s)
	}

	var ch [3]uint8
	for i, f := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 8)
		if err != nil {
			return bead.RGB{}, fmt.Errorf("invalid channel %d of color %q: %w", i, s, err)
		}
		ch[i] = uint8(v)
	}
	return bead.RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// ParseList parses every non-blank item and returns the deduplicated palette.
func ParseList(items []string) (bead.Palette, error) {
	var pal bead.Palette
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		c, err := ParseColor(item)
		if err != nil {
			return nil, err
		}
		pal = append(pal, c)
	}
	if len(pal) == 0 {
		return nil, fmt.Errorf("no colors given")
	}
	return Dedupe(pal), nil
}

// Hex formats a color as #rrggbb.
func Hex(c bead.RGB) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}
