// Package material implements the surface scattering models.
package material

import (
	"github.com/echoflaresat/raycam/colors"
	"github.com/echoflaresat/raycam/geom"
	"github.com/echoflaresat/raycam/random"
	"github.com/echoflaresat/raycam/vectors"
)

// Lambertian is an ideal diffuse reflector.
type Lambertian struct {
	Albedo colors.Color
}

func NewLambertian(albedo colors.Color) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter always succeeds. The direction is the normal plus a random unit
// vector, falling back to the normal when the two nearly cancel.
func (l *Lambertian) Scatter(in vectors.Ray, rec *geom.HitRecord, rng *random.PCG32) (colors.Color, vectors.Ray, bool) {
	direction := rec.Normal.Add(vectors.RandomUnit(rng))
	if direction.NearZero() {
		direction = rec.Normal
	}
	return l.Albedo, vectors.NewRay(rec.Point, direction), true
}
