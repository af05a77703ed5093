package material

import (
	"math"

	"github.com/echoflaresat/raycam/colors"
	"github.com/echoflaresat/raycam/geom"
	"github.com/echoflaresat/raycam/random"
	"github.com/echoflaresat/raycam/vectors"
)

// Dielectric is a clear refractive material such as glass (index 1.5) or
// water (1.33). An index below 1 models an air bubble inside a denser medium.
type Dielectric struct {
	RefractiveIndex float64
}

func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

func (d *Dielectric) Scatter(in vectors.Ray, rec *geom.HitRecord, rng *random.PCG32) (colors.Color, vectors.Ray, bool) {
	ri := d.RefractiveIndex
	if rec.FrontFace {
		ri = 1.0 / d.RefractiveIndex
	}

	unitDirection := in.Direction.Unit()
	cosTheta := math.Min(unitDirection.Neg().Dot(rec.Normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	var direction vectors.Vec3
	if CannotRefract(ri, sinTheta) || Reflectance(cosTheta, ri) > rng.Float64() {
		direction = vectors.Reflect(unitDirection, rec.Normal)
	} else {
		direction = vectors.Refract(unitDirection, rec.Normal, ri)
	}

	return colors.White(), vectors.NewRay(rec.Point, direction), true
}

// CannotRefract reports total internal reflection for the relative index ri.
func CannotRefract(ri, sinTheta float64) bool {
	return ri*sinTheta > 1.0
}

// Reflectance is Schlick's approximation of the Fresnel factor.
func Reflectance(cosine, ri float64) float64 {
	r0 := (1 - ri) / (1 + ri)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
