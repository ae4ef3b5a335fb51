package protocol

import "fmt"

// Color is one RGB color value. The wire form is 4 bytes: R, G, B and
// a padding byte that is always written as zero and ignored on read.
type Color struct {
	R, G, B uint8
}

func (c Color) Size(version uint32) int { return 4 }

func (c Color) Encode(w *Writer) error {
	w.WriteU8(c.R)
	w.WriteU8(c.G)
	w.WriteU8(c.B)
	w.WriteU8(0)
	return nil
}

func (c *Color) Decode(r *Reader) error {
	b, err := r.ReadRaw(4)
	if err != nil {
		return err
	}
	c.R, c.G, c.B = b[0], b[1], b[2]
	return nil
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// ParseColor parses "#rrggbb" or "rrggbb" into a Color.
func ParseColor(s string) (Color, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want rrggbb hex", s)
	}
	var c Color
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}
