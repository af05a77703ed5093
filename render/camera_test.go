package render

import (
	"errors"
	"math"
	"testing"

	"github.com/echoflaresat/raycam/random"
	"github.com/echoflaresat/raycam/vectors"
)

func TestImageHeight(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		aspect float64
		want   int
	}{
		{"16:10", 100, 16.0 / 10.0, 62},
		{"2:1", 160, 2, 80},
		{"square", 7, 1, 7},
		{"tall", 10, 0.5, 20},
		{"clamped to one", 3, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera()
			c.ImageWidth = tt.width
			c.AspectRatio = tt.aspect
			if err := c.Init(); err != nil {
				t.Fatalf("Init: %v", err)
			}
			if got := c.ImageHeight(); got != tt.want {
				t.Errorf("ImageHeight = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInitRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Camera)
	}{
		{"zero width", func(c *Camera) { c.ImageWidth = 0 }},
		{"zero aspect", func(c *Camera) { c.AspectRatio = 0 }},
		{"NaN aspect", func(c *Camera) { c.AspectRatio = math.NaN() }},
		{"zero samples", func(c *Camera) { c.SamplesPerPixel = 0 }},
		{"negative depth", func(c *Camera) { c.MaxDepth = -1 }},
		{"zero fov", func(c *Camera) { c.VFov = 0 }},
		{"straight fov", func(c *Camera) { c.VFov = 180 }},
		{"zero focus distance", func(c *Camera) { c.FocusDist = 0 }},
		{"negative aperture", func(c *Camera) { c.DefocusAngle = -1 }},
		{"look at self", func(c *Camera) { c.LookAt = c.LookFrom }},
		{"up along view", func(c *Camera) { c.VUp = vectors.New(0, 0, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera()
			tt.modify(c)
			if err := c.Init(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Init error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestZeroDepthIsValid(t *testing.T) {
	c := NewCamera()
	c.MaxDepth = 0
	if err := c.Init(); err != nil {
		t.Errorf("Init: %v", err)
	}
}

func TestViewportBasis(t *testing.T) {
	c := NewCamera()
	c.LookFrom = vectors.New(13, 2, 3)
	c.LookAt = vectors.New(0, 0, 0)
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	for _, v := range []vectors.Vec3{c.u, c.v, c.w} {
		if math.Abs(v.Norm()-1) > 1e-12 {
			t.Errorf("basis vector %v is not unit", v)
		}
	}
	if math.Abs(c.u.Dot(c.v)) > 1e-12 || math.Abs(c.u.Dot(c.w)) > 1e-12 || math.Abs(c.v.Dot(c.w)) > 1e-12 {
		t.Error("basis is not orthogonal")
	}
	// w points away from the target
	if c.w.Dot(c.LookAt.Sub(c.LookFrom)) >= 0 {
		t.Error("w should point backwards")
	}
}

func TestPinholeRays(t *testing.T) {
	c := NewCamera()
	c.ImageWidth = 40
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	rng := random.Default()

	for i := 0; i < 1000; i++ {
		px, py := i%c.ImageWidth, i%c.ImageHeight()
		r := c.getRay(px, py, rng)
		if r.Origin != c.LookFrom {
			t.Fatalf("pinhole ray origin %v, want %v", r.Origin, c.LookFrom)
		}

		// the ray meets the focus plane inside its pixel
		target := r.Origin.Add(r.Direction)
		local := target.Sub(c.pixel00)
		fx := local.Dot(c.pixelDeltaU) / c.pixelDeltaU.NormSquared()
		fy := local.Dot(c.pixelDeltaV) / c.pixelDeltaV.NormSquared()
		if math.Abs(fx-float64(px)) > 0.5 || math.Abs(fy-float64(py)) > 0.5 {
			t.Fatalf("pixel (%d,%d) sampled at (%v,%v)", px, py, fx, fy)
		}
	}
}

func TestDefocusRays(t *testing.T) {
	c := NewCamera()
	c.DefocusAngle = 10
	c.FocusDist = 3.4
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	radius := c.FocusDist * math.Tan(degreesToRadians(5))
	rng := random.New(8, 8)

	moved := false
	for i := 0; i < 2000; i++ {
		r := c.getRay(3, 4, rng)
		offset := r.Origin.Sub(c.LookFrom)
		if offset.Norm() >= radius+1e-12 {
			t.Fatalf("origin offset %v beyond lens radius %v", offset.Norm(), radius)
		}
		if math.Abs(offset.Dot(c.w)) > 1e-12 {
			t.Fatalf("origin %v is off the lens plane", r.Origin)
		}
		if offset.Norm() > 0 {
			moved = true
		}
	}
	if !moved {
		t.Error("defocus never moved the ray origin")
	}
}

func TestSampleSquare(t *testing.T) {
	rng := random.Default()
	for i := 0; i < 10000; i++ {
		p := sampleSquare(rng)
		if p.X < -0.5 || p.X >= 0.5 || p.Y < -0.5 || p.Y >= 0.5 || p.Z != 0 {
			t.Fatalf("sampleSquare = %v", p)
		}
	}
}
