package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/echoflaresat/raycam/random"
	"github.com/echoflaresat/raycam/vectors"
)

var ErrInvalidConfig = errors.New("invalid camera configuration")

// Camera models a thin-lens camera. The exported fields are its
// configuration; Init derives the viewport from them, and the camera must
// not be modified while a render is running.
type Camera struct {
	AspectRatio     float64 // width over height
	ImageWidth      int     // in pixels
	SamplesPerPixel int
	MaxDepth        int // bounces per primary ray

	VFov     float64 // vertical field of view in degrees
	LookFrom vectors.Point3
	LookAt   vectors.Point3
	VUp      vectors.Vec3

	DefocusAngle float64 // aperture cone angle in degrees; 0 is a pinhole
	FocusDist    float64 // distance from LookFrom to the plane of perfect focus

	Seed         uint64     // selects the per-row generator streams
	Workers      int        // concurrent scanlines; <= 0 uses GOMAXPROCS
	Background   Background // nil uses DefaultSky
	ShadeNormals bool       // debug: color hits by surface normal
	Progress     io.Writer  // scanline countdown; nil disables it

	imageHeight       int
	pixelSamplesScale float64
	center            vectors.Point3
	pixel00           vectors.Point3
	pixelDeltaU       vectors.Vec3
	pixelDeltaV       vectors.Vec3
	u, v, w           vectors.Vec3
	defocusDiskU      vectors.Vec3
	defocusDiskV      vectors.Vec3
}

// NewCamera returns a camera with the default configuration.
func NewCamera() *Camera {
	return &Camera{
		AspectRatio:     16.0 / 10.0,
		ImageWidth:      100,
		SamplesPerPixel: 10,
		MaxDepth:        10,
		VFov:            90,
		LookFrom:        vectors.New(0, 0, 0),
		LookAt:          vectors.New(0, 0, -1),
		VUp:             vectors.New(0, 1, 0),
		DefocusAngle:    0,
		FocusDist:       10,
	}
}

// ImageHeight is ImageWidth / AspectRatio, floored, and at least 1.
// It is valid after Init.
func (c *Camera) ImageHeight() int {
	return c.imageHeight
}

// Init validates the configuration and derives the viewport geometry.
func (c *Camera) Init() error {
	switch {
	case c.ImageWidth <= 0:
		return fmt.Errorf("%w: image width %d", ErrInvalidConfig, c.ImageWidth)
	case !(c.AspectRatio > 0):
		return fmt.Errorf("%w: aspect ratio %v", ErrInvalidConfig, c.AspectRatio)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel %d", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth %d", ErrInvalidConfig, c.MaxDepth)
	case !(c.VFov > 0 && c.VFov < 180):
		return fmt.Errorf("%w: vertical fov %v", ErrInvalidConfig, c.VFov)
	case !(c.FocusDist > 0):
		return fmt.Errorf("%w: focus distance %v", ErrInvalidConfig, c.FocusDist)
	case c.DefocusAngle < 0:
		return fmt.Errorf("%w: defocus angle %v", ErrInvalidConfig, c.DefocusAngle)
	}

	c.imageHeight = max(1, int(float64(c.ImageWidth)/c.AspectRatio))
	c.pixelSamplesScale = 1.0 / float64(c.SamplesPerPixel)
	c.center = c.LookFrom

	back := c.LookFrom.Sub(c.LookAt)
	if back.NearZero() {
		return fmt.Errorf("%w: look-from and look-at coincide", ErrInvalidConfig)
	}
	c.w = back.Unit()
	side := c.VUp.Cross(c.w)
	if side.NearZero() {
		return fmt.Errorf("%w: up vector %v parallel to view direction", ErrInvalidConfig, c.VUp)
	}
	c.u = side.Unit()
	c.v = c.w.Cross(c.u)

	h := math.Tan(degreesToRadians(c.VFov) / 2)
	viewportHeight := 2 * h * c.FocusDist
	viewportWidth := viewportHeight * (float64(c.ImageWidth) / float64(c.imageHeight))

	// viewport edges; V runs down the image
	viewportU := c.u.Scale(viewportWidth)
	viewportV := c.v.Scale(-viewportHeight)

	c.pixelDeltaU = viewportU.Div(float64(c.ImageWidth))
	c.pixelDeltaV = viewportV.Div(float64(c.imageHeight))

	upperLeft := c.center.
		Sub(c.w.Scale(c.FocusDist)).
		Sub(viewportU.Scale(0.5)).
		Sub(viewportV.Scale(0.5))
	c.pixel00 = upperLeft.Add(c.pixelDeltaU.Add(c.pixelDeltaV).Scale(0.5))

	defocusRadius := c.FocusDist * math.Tan(degreesToRadians(c.DefocusAngle/2))
	c.defocusDiskU = c.u.Scale(defocusRadius)
	c.defocusDiskV = c.v.Scale(defocusRadius)

	if c.Background == nil {
		c.Background = DefaultSky()
	}
	return nil
}

// getRay returns a sample ray for pixel (i, j), jittered within the pixel
// square and starting on the defocus disk when the aperture is open.
func (c *Camera) getRay(i, j int, rng *random.PCG32) vectors.Ray {
	offset := sampleSquare(rng)
	pixelSample := c.pixel00.
		Add(c.pixelDeltaU.Scale(float64(i) + offset.X)).
		Add(c.pixelDeltaV.Scale(float64(j) + offset.Y))

	origin := c.center
	if c.DefocusAngle > 0 {
		origin = c.defocusDiskSample(rng)
	}
	return vectors.NewRay(origin, pixelSample.Sub(origin))
}

// sampleSquare returns a random offset in [-0.5,0.5)² on the z=0 plane.
func sampleSquare(rng *random.PCG32) vectors.Vec3 {
	return vectors.New(rng.Float64()-0.5, rng.Float64()-0.5, 0)
}

func (c *Camera) defocusDiskSample(rng *random.PCG32) vectors.Point3 {
	p := vectors.RandomInUnitDisk(rng)
	return c.center.Add(c.defocusDiskU.Scale(p.X)).Add(c.defocusDiskV.Scale(p.Y))
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
