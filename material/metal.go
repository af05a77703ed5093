package material

import (
	"math"

	"github.com/echoflaresat/raycam/colors"
	"github.com/echoflaresat/raycam/geom"
	"github.com/echoflaresat/raycam/random"
	"github.com/echoflaresat/raycam/vectors"
)

// Metal reflects like a mirror, blurred by Fuzz in [0,1].
type Metal struct {
	Albedo colors.Color
	Fuzz   float64
}

// NewMetal clamps fuzz into [0,1].
func NewMetal(albedo colors.Color, fuzz float64) *Metal {
	return &Metal{Albedo: albedo, Fuzz: math.Max(0, math.Min(fuzz, 1))}
}

func (m *Metal) Scatter(in vectors.Ray, rec *geom.HitRecord, rng *random.PCG32) (colors.Color, vectors.Ray, bool) {
	reflected := vectors.Reflect(in.Direction, rec.Normal).Unit()
	direction, ok := fuzzed(reflected, vectors.RandomUnit(rng), m.Fuzz, rec.Normal)
	scattered := vectors.NewRay(rec.Point, direction)
	if !ok {
		return colors.Black(), scattered, false
	}
	return m.Albedo, scattered, true
}

// fuzzed perturbs the unit mirror direction by fuzz*perturb. It reports false
// when the result points into the surface or the perturbation cancels the
// reflection, leaving no direction to normalize.
func fuzzed(reflected, perturb vectors.Vec3, fuzz float64, normal vectors.Vec3) (vectors.Vec3, bool) {
	d := reflected.Add(perturb.Scale(fuzz))
	if d.NearZero() {
		return reflected, false
	}
	d = d.Unit()
	return d, d.Dot(normal) > 0
}
