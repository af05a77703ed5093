package scenes

import (
	"fmt"
	"slices"

	"github.com/echoflaresat/raycam/colors"
	"github.com/echoflaresat/raycam/geom"
	"github.com/echoflaresat/raycam/material"
	"github.com/echoflaresat/raycam/random"
	"github.com/echoflaresat/raycam/vectors"
)

var builtins = map[string]func(rng *random.PCG32) *Scene{
	"final":  Final,
	"three":  Three,
	"single": Single,
}

// Names lists the built-in scenes in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Build composes the named built-in scene. Random placement draws from rng.
func Build(name string, rng *random.PCG32) (*Scene, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownScene, name, Names())
	}
	return build(rng), nil
}

// Final is the cover scene: a grey ground, a 22x22 grid of small random
// spheres and three large ones.
func Final(rng *random.PCG32) *Scene {
	world := geom.NewList()
	world.Add(geom.NewSphere(vectors.New(0, -1000, 0), 1000, material.NewLambertian(colors.New(0.5, 0.5, 0.5))))

	clearing := vectors.New(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := rng.Float64()
			center := vectors.New(float64(a)+0.9*rng.Float64(), 0.2, float64(b)+0.9*rng.Float64())
			if vectors.Distance(center, clearing) <= 0.9 {
				continue
			}

			var mat geom.Material
			switch {
			case chooseMat < 0.8:
				albedo := colors.FromVec3(vectors.Random(rng)).Mul(colors.FromVec3(vectors.Random(rng)))
				mat = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				albedo := colors.FromVec3(vectors.RandomRange(rng, 0.5, 1))
				mat = material.NewMetal(albedo, rng.Range(0, 0.5))
			default:
				mat = material.NewDielectric(1.5)
			}
			world.Add(geom.NewSphere(center, 0.2, mat))
		}
	}

	world.Add(geom.NewSphere(vectors.New(0, 1, 0), 1, material.NewDielectric(1.5)))
	world.Add(geom.NewSphere(vectors.New(-4, 1, 0), 1, material.NewLambertian(colors.New(0.4, 0.2, 0.1))))
	world.Add(geom.NewSphere(vectors.New(4, 1, 0), 1, material.NewMetal(colors.New(0.7, 0.6, 0.5), 0)))

	return &Scene{
		Name:  "final",
		World: world,
		Camera: View{
			AspectRatio:     16.0 / 10.0,
			ImageWidth:      1200,
			SamplesPerPixel: 10,
			MaxDepth:        depth(50),
			VFov:            20,
			LookFrom:        vec(13, 2, 3),
			LookAt:          vec(0, 0, 0),
			VUp:             vec(0, 1, 0),
			DefocusAngle:    0.6,
			FocusDist:       10,
		},
	}
}

// Three places a diffuse sphere between a hollow glass sphere and a brushed
// metal one.
func Three(*random.PCG32) *Scene {
	glass := material.NewDielectric(1.5)
	world := geom.NewList(
		geom.NewSphere(vectors.New(0, -100.5, -1), 100, material.NewLambertian(colors.New(0.8, 0.8, 0))),
		geom.NewSphere(vectors.New(0, 0, -1.2), 0.5, material.NewLambertian(colors.New(0.1, 0.2, 0.5))),
		geom.NewSphere(vectors.New(-1, 0, -1), 0.5, glass),
		geom.NewSphere(vectors.New(-1, 0, -1), 0.4, material.NewDielectric(1/1.5)),
		geom.NewSphere(vectors.New(1, 0, -1), 0.5, material.NewMetal(colors.New(0.8, 0.6, 0.2), 1)),
	)
	return &Scene{
		Name:  "three",
		World: world,
		Camera: View{
			AspectRatio:     16.0 / 9.0,
			ImageWidth:      400,
			SamplesPerPixel: 100,
			MaxDepth:        depth(50),
			VFov:            20,
			LookFrom:        vec(-2, 2, 1),
			LookAt:          vec(0, 0, -1),
			VUp:             vec(0, 1, 0),
			DefocusAngle:    10,
			FocusDist:       3.4,
		},
	}
}

// Single is one diffuse sphere resting on a large ground sphere.
func Single(*random.PCG32) *Scene {
	grey := material.NewLambertian(colors.New(0.5, 0.5, 0.5))
	world := geom.NewList(
		geom.NewSphere(vectors.New(0, 0, -1), 0.5, grey),
		geom.NewSphere(vectors.New(0, -100.5, -1), 100, grey),
	)
	return &Scene{
		Name:  "single",
		World: world,
		Camera: View{
			AspectRatio:     16.0 / 9.0,
			ImageWidth:      400,
			SamplesPerPixel: 100,
			MaxDepth:        depth(50),
			VFov:            90,
			LookFrom:        vec(0, 0, 0),
			LookAt:          vec(0, 0, -1),
			VUp:             vec(0, 1, 0),
			FocusDist:       1,
		},
	}
}
