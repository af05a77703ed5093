package colors

import (
	"math"

	"github.com/echoflaresat/raycam/vectors"
)

// Color is a linear RGB radiance triple. Components may exceed 1 while
// samples are accumulated; they are clamped only when quantized.
type Color struct {
	R, G, B float64
}

func New(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

func White() Color {
	return Color{R: 1, G: 1, B: 1}
}

func Black() Color {
	return Color{}
}

// FromVec3 reinterprets a vector's components as a color.
func FromVec3(v vectors.Vec3) Color {
	return Color{R: v.X, G: v.Y, B: v.Z}
}

// Add returns c + o (component-wise).
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Mul returns c * o (component-wise).
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B}
}

// Scale returns c * s (scalar).
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// Mix returns lerp(c, o, t) = c*(1-t) + o*t.
func (c Color) Mix(o Color, t float64) Color {
	return Color{
		R: c.R*(1-t) + o.R*t,
		G: c.G*(1-t) + o.G*t,
		B: c.B*(1-t) + o.B*t,
	}
}

// Gamma applies LinearToGamma to each channel.
func (c Color) Gamma() Color {
	return Color{LinearToGamma(c.R), LinearToGamma(c.G), LinearToGamma(c.B)}
}

// LinearToGamma encodes a linear channel with gamma 2 (square root).
// Non-positive input maps to 0.
func LinearToGamma(x float64) float64 {
	if x > 0 {
		return math.Sqrt(x)
	}
	return 0
}

var intensity = vectors.NewInterval(0.000, 0.999)

// ToByte quantizes an already gamma-encoded channel into 0..255.
// The channel is clamped to [0, 0.999] and scaled by 256, so 1.0 maps to 255.
func ToByte(x float64) uint8 {
	return uint8(256 * intensity.Clamp(x))
}

// Bytes gamma-encodes and quantizes the color.
func (c Color) Bytes() (r, g, b uint8) {
	g2 := c.Gamma()
	return ToByte(g2.R), ToByte(g2.G), ToByte(g2.B)
}
