package geom

import (
	"math"

	"github.com/echoflaresat/raycam/vectors"
)

type Sphere struct {
	Center   vectors.Point3
	Radius   float64
	Material Material
}

// NewSphere clamps a negative radius to zero.
func NewSphere(center vectors.Point3, radius float64, mat Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   math.Max(0, radius),
		Material: mat,
	}
}

// Hit solves |O + tD - C|² = R² using the half-b form h = D·(C-O).
func (s *Sphere) Hit(r vectors.Ray, rayT vectors.Interval) (HitRecord, bool) {
	oc := s.Center.Sub(r.Origin)
	a := r.Direction.NormSquared()
	h := r.Direction.Dot(oc)
	c := oc.NormSquared() - s.Radius*s.Radius

	discriminant := h*h - a*c
	if discriminant < 0 {
		return HitRecord{}, false
	}
	sqrtd := math.Sqrt(discriminant)

	// nearest root strictly inside the interval
	root := (h - sqrtd) / a
	if !rayT.Surrounds(root) {
		root = (h + sqrtd) / a
		if !rayT.Surrounds(root) {
			return HitRecord{}, false
		}
	}

	rec := HitRecord{
		T:        root,
		Point:    r.At(root),
		Material: s.Material,
	}
	outwardNormal := rec.Point.Sub(s.Center).Div(s.Radius)
	rec.SetFaceNormal(r, outwardNormal)
	return rec, true
}
