// Package geom holds the intersectable scene geometry.
package geom

import (
	"github.com/echoflaresat/raycam/colors"
	"github.com/echoflaresat/raycam/random"
	"github.com/echoflaresat/raycam/vectors"
)

// Material decides what happens to a ray that reaches a surface. It returns
// the attenuation and the outgoing ray, or false when the ray is absorbed.
// Implementations must be safe for concurrent use.
type Material interface {
	Scatter(in vectors.Ray, rec *HitRecord, rng *random.PCG32) (colors.Color, vectors.Ray, bool)
}

// HitRecord describes a ray-surface intersection.
type HitRecord struct {
	Point     vectors.Point3
	Normal    vectors.Vec3 // unit length, facing against the incident ray
	Material  Material
	T         float64
	FrontFace bool
}

// SetFaceNormal orients the stored normal against the ray.
// outwardNormal must have unit length.
func (rec *HitRecord) SetFaceNormal(r vectors.Ray, outwardNormal vectors.Vec3) {
	rec.FrontFace = r.Direction.Dot(outwardNormal) < 0
	if rec.FrontFace {
		rec.Normal = outwardNormal
	} else {
		rec.Normal = outwardNormal.Neg()
	}
}

// Hittable is anything a ray can intersect. Hit reports the nearest
// intersection whose parameter lies strictly inside rayT.
type Hittable interface {
	Hit(r vectors.Ray, rayT vectors.Interval) (HitRecord, bool)
}
