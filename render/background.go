package render

import (
	"github.com/echoflaresat/raycam/colors"
	"github.com/echoflaresat/raycam/texture"
	"github.com/echoflaresat/raycam/vectors"
)

// Background gives the radiance of a ray that escapes the scene.
// Implementations must be safe for concurrent use.
type Background interface {
	Color(r vectors.Ray) colors.Color
}

// SkyGradient blends Bottom into Top by the ray's vertical direction.
type SkyGradient struct {
	Bottom colors.Color
	Top    colors.Color
}

// DefaultSky fades from white at the nadir to light blue at the zenith.
func DefaultSky() SkyGradient {
	return SkyGradient{Bottom: colors.White(), Top: colors.New(0.5, 0.7, 1.0)}
}

func (s SkyGradient) Color(r vectors.Ray) colors.Color {
	unit := r.Direction.Unit()
	a := 0.5 * (unit.Y + 1.0)
	return s.Bottom.Mix(s.Top, a)
}

// EnvironmentMap looks escaping rays up in an equirectangular texture.
type EnvironmentMap struct {
	Texture   *texture.Texture
	Intensity float64
}

func NewEnvironmentMap(tex *texture.Texture) *EnvironmentMap {
	return &EnvironmentMap{Texture: tex, Intensity: 1}
}

func (e *EnvironmentMap) Color(r vectors.Ray) colors.Color {
	return e.Texture.Sample(r.Direction).Linearize().Scale(e.Intensity)
}
