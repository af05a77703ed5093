// Package scenes builds worlds for the renderer, either from the built-in
// catalogue or from JSON scene files.
package scenes

import (
	"errors"

	"github.com/echoflaresat/raycam/geom"
	"github.com/echoflaresat/raycam/render"
	"github.com/echoflaresat/raycam/vectors"
)

var (
	ErrUnknownScene    = errors.New("unknown scene")
	ErrUnknownMaterial = errors.New("unknown material")
)

// Scene is a world together with the camera settings it was composed for.
type Scene struct {
	Name   string
	World  *geom.List
	Camera View
}

// Vec is a point or direction written as a JSON array [x, y, z].
type Vec [3]float64

func FromVec3(v vectors.Vec3) Vec {
	return Vec{v.X, v.Y, v.Z}
}

func (v Vec) Vec3() vectors.Vec3 {
	return vectors.New(v[0], v[1], v[2])
}

// View holds suggested camera settings. Zero (or nil) fields leave the
// camera's current value alone; MaxDepth is a pointer because zero is a
// meaningful depth.
type View struct {
	AspectRatio     float64 `json:"aspect_ratio,omitempty"`
	ImageWidth      int     `json:"image_width,omitempty"`
	SamplesPerPixel int     `json:"samples_per_pixel,omitempty"`
	MaxDepth        *int    `json:"max_depth,omitempty"`
	VFov            float64 `json:"vfov,omitempty"`
	LookFrom        *Vec    `json:"look_from,omitempty"`
	LookAt          *Vec    `json:"look_at,omitempty"`
	VUp             *Vec    `json:"vup,omitempty"`
	DefocusAngle    float64 `json:"defocus_angle,omitempty"`
	FocusDist       float64 `json:"focus_dist,omitempty"`
}

// Apply copies the set fields of v onto c.
func (v View) Apply(c *render.Camera) {
	if v.AspectRatio != 0 {
		c.AspectRatio = v.AspectRatio
	}
	if v.ImageWidth != 0 {
		c.ImageWidth = v.ImageWidth
	}
	if v.SamplesPerPixel != 0 {
		c.SamplesPerPixel = v.SamplesPerPixel
	}
	if v.MaxDepth != nil {
		c.MaxDepth = *v.MaxDepth
	}
	if v.VFov != 0 {
		c.VFov = v.VFov
	}
	if v.LookFrom != nil {
		c.LookFrom = v.LookFrom.Vec3()
	}
	if v.LookAt != nil {
		c.LookAt = v.LookAt.Vec3()
	}
	if v.VUp != nil {
		c.VUp = v.VUp.Vec3()
	}
	if v.DefocusAngle != 0 {
		c.DefocusAngle = v.DefocusAngle
	}
	if v.FocusDist != 0 {
		c.FocusDist = v.FocusDist
	}
}

func vec(x, y, z float64) *Vec {
	return &Vec{x, y, z}
}

func depth(d int) *int {
	return &d
}
