package colors

import "image/color"

// FromStandardColor converts an image color to display-encoded [0,1] channels.
func FromStandardColor(c color.Color) Color {
	r16, g16, b16, a16 := c.RGBA()
	if a16 == 0 {
		return Color{}
	}

	// De-premultiply and normalize to [0,1]
	invA := float64(0xFFFF) / float64(a16)
	return Color{
		R: float64(r16) * invA / 65535.0,
		G: float64(g16) * invA / 65535.0,
		B: float64(b16) * invA / 65535.0,
	}
}

func From8BitRgb(r, g, b byte) Color {
	return Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
}

// Linearize inverts the gamma-2 encoding so display colors (for example
// texture pixels) can be used as radiance.
func (c Color) Linearize() Color {
	return Color{c.R * c.R, c.G * c.G, c.B * c.B}
}

// RGBA implements color.Color by gamma encoding and quantizing c.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA returns the opaque 8-bit display color for c.
func (c Color) NRGBA() color.NRGBA {
	r, g, b := c.Bytes()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
