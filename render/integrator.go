package render

import (
	"math"

	"github.com/echoflaresat/raycam/colors"
	"github.com/echoflaresat/raycam/geom"
	"github.com/echoflaresat/raycam/random"
	"github.com/echoflaresat/raycam/vectors"
)

// shadowAcneEpsilon is the lower bound of every world query, so a scattered
// ray does not re-hit the surface it starts on.
const shadowAcneEpsilon = 0.001

// traceColor estimates the radiance along r with at most depth surface
// interactions. It is the loop form of the recursion
//
//	color(r, d) = black                              if d <= 0
//	            = background(r)                     on a miss
//	            = black                             if the material absorbs
//	            = attenuation ⊙ color(scattered, d-1) otherwise
func traceColor(r vectors.Ray, depth int, world geom.Hittable, bg Background, rng *random.PCG32) colors.Color {
	throughput := colors.White()
	for ; depth > 0; depth-- {
		rec, ok := world.Hit(r, vectors.NewInterval(shadowAcneEpsilon, math.Inf(1)))
		if !ok {
			return throughput.Mul(bg.Color(r))
		}

		attenuation, scattered, ok := rec.Material.Scatter(r, &rec, rng)
		if !ok {
			return colors.Black()
		}
		throughput = throughput.Mul(attenuation)
		r = scattered
	}
	return colors.Black()
}

// normalColor maps the unit normal of the first hit into [0,1]³.
func normalColor(r vectors.Ray, world geom.Hittable, bg Background) colors.Color {
	rec, ok := world.Hit(r, vectors.NewInterval(0, math.Inf(1)))
	if !ok {
		return bg.Color(r)
	}
	return colors.FromVec3(rec.Normal.Add(vectors.New(1, 1, 1)).Scale(0.5))
}
