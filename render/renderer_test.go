package render

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/echoflaresat/raycam/colors"
	"github.com/echoflaresat/raycam/geom"
	"github.com/echoflaresat/raycam/material"
	"github.com/echoflaresat/raycam/random"
	"github.com/echoflaresat/raycam/texture"
	"github.com/echoflaresat/raycam/vectors"
)

type absorber struct{}

func (absorber) Scatter(vectors.Ray, *geom.HitRecord, *random.PCG32) (colors.Color, vectors.Ray, bool) {
	return colors.Color{}, vectors.Ray{}, false
}

// tint lets the ray continue straight on from the hit point.
type tint struct {
	c colors.Color
}

func (m tint) Scatter(in vectors.Ray, rec *geom.HitRecord, _ *random.PCG32) (colors.Color, vectors.Ray, bool) {
	return m.c, vectors.NewRay(rec.Point, in.Direction), true
}

type flat struct {
	c colors.Color
}

func (f flat) Color(vectors.Ray) colors.Color {
	return f.c
}

func closeColor(a, b colors.Color) bool {
	const eps = 1e-12
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps && math.Abs(a.B-b.B) < eps
}

func TestTraceColor(t *testing.T) {
	bg := flat{colors.New(0.2, 0.4, 0.6)}
	c := colors.New(0.5, 0.8, 0.25)
	through := geom.NewList(geom.NewSphere(vectors.New(0, 0, -1), 0.5, tint{c}))
	dark := geom.NewList(geom.NewSphere(vectors.New(0, 0, -1), 0.5, absorber{}))
	forward := vectors.NewRay(vectors.Zero(), vectors.New(0, 0, -1))
	up := vectors.NewRay(vectors.Zero(), vectors.New(0, 1, 0))

	tests := []struct {
		name  string
		world geom.Hittable
		r     vectors.Ray
		depth int
		want  colors.Color
	}{
		{"miss", through, up, 1, bg.c},
		{"miss with no budget", through, up, 0, colors.Black()},
		{"both walls then sky", through, forward, 3, c.Mul(c).Mul(bg.c)},
		{"budget spent inside", through, forward, 2, colors.Black()},
		{"single hit", through, forward, 1, colors.Black()},
		{"absorbed", dark, forward, 50, colors.Black()},
		{"empty world", geom.NewList(), forward, 5, bg.c},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := traceColor(tt.r, tt.depth, tt.world, bg, random.Default())
			if !closeColor(got, tt.want) {
				t.Errorf("traceColor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalColor(t *testing.T) {
	world := geom.NewList(geom.NewSphere(vectors.New(0, 0, -1), 0.5, absorber{}))
	got := normalColor(vectors.NewRay(vectors.Zero(), vectors.New(0, 0, -1)), world, flat{})
	if !closeColor(got, colors.New(0.5, 0.5, 1)) {
		t.Errorf("normalColor = %v, want (0.5 0.5 1)", got)
	}
}

func singleSphere() *geom.List {
	return geom.NewList(geom.NewSphere(vectors.New(0, 0, -1), 0.5, material.NewLambertian(colors.New(0.5, 0.5, 0.5))))
}

func testCamera() *Camera {
	c := NewCamera()
	c.ImageWidth = 32
	c.SamplesPerPixel = 4
	c.MaxDepth = 1
	c.Seed = 1
	return c
}

func TestSingleBounceBudget(t *testing.T) {
	c := testCamera()
	img, err := c.Render(singleSphere())
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 32 || img.Height != 20 {
		t.Fatalf("image %dx%d, want 32x20", img.Width, img.Height)
	}

	// the sphere covers the middle, so every sample there spends its only
	// bounce on the surface
	if got := img.At(16, 10).(color.NRGBA); got != (color.NRGBA{A: 255}) {
		t.Errorf("center pixel = %v, want black", got)
	}
	for _, p := range []image.Point{{0, 0}, {31, 0}, {0, 19}, {31, 19}} {
		got := img.At(p.X, p.Y).(color.NRGBA)
		if got.B != 255 || got.R == 0 {
			t.Errorf("corner %v = %v, want sky", p, got)
		}
	}
}

func TestZeroDepthIsBlack(t *testing.T) {
	c := testCamera()
	c.MaxDepth = 0
	img, err := c.Render(singleSphere())
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range img.Pix {
		if p != colors.Black() {
			t.Fatalf("pixel %d = %v, want black", i, p)
		}
	}
}

func TestRenderRejectsInvalidCamera(t *testing.T) {
	c := testCamera()
	c.SamplesPerPixel = 0
	if _, err := c.Render(singleSphere()); err == nil {
		t.Error("Render accepted zero samples per pixel")
	}
	if _, err := c.RenderSequential(singleSphere(), random.Default()); err == nil {
		t.Error("RenderSequential accepted zero samples per pixel")
	}
}

func mixedWorld() *geom.List {
	return geom.NewList(
		geom.NewSphere(vectors.New(0, -100.5, -1), 100, material.NewLambertian(colors.New(0.8, 0.8, 0))),
		geom.NewSphere(vectors.New(0, 0, -1.2), 0.5, material.NewLambertian(colors.New(0.1, 0.2, 0.5))),
		geom.NewSphere(vectors.New(-1, 0, -1), 0.5, material.NewDielectric(1.5)),
		geom.NewSphere(vectors.New(1, 0, -1), 0.5, material.NewMetal(colors.New(0.8, 0.6, 0.2), 0.3)),
	)
}

func ppmBytes(t *testing.T, img *Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := img.WritePPM(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRenderDeterministic(t *testing.T) {
	render := func(workers int) []byte {
		c := testCamera()
		c.MaxDepth = 10
		c.Workers = workers
		img, err := c.Render(mixedWorld())
		if err != nil {
			t.Fatal(err)
		}
		return ppmBytes(t, img)
	}

	first := render(1)
	if !bytes.Equal(first, render(1)) {
		t.Error("repeated renders differ")
	}
	if !bytes.Equal(first, render(4)) {
		t.Error("output depends on the worker count")
	}

	c := testCamera()
	c.MaxDepth = 10
	c.Seed = 2
	img, err := c.Render(mixedWorld())
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(first, ppmBytes(t, img)) {
		t.Error("different seeds gave identical images")
	}
}

func TestRenderSequentialDeterministic(t *testing.T) {
	render := func() []byte {
		c := testCamera()
		c.MaxDepth = 10
		img, err := c.RenderSequential(mixedWorld(), random.New(7, 0))
		if err != nil {
			t.Fatal(err)
		}
		return ppmBytes(t, img)
	}
	if !bytes.Equal(render(), render()) {
		t.Error("sequential renders with equal generator state differ")
	}
}

func TestWritePPM(t *testing.T) {
	c := testCamera()
	c.ImageWidth = 8
	c.AspectRatio = 2
	img, err := c.Render(mixedWorld())
	if err != nil {
		t.Fatal(err)
	}

	sc := bufio.NewScanner(bytes.NewReader(ppmBytes(t, img)))
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if len(lines) != 3+8*4 {
		t.Fatalf("got %d lines, want %d", len(lines), 3+8*4)
	}
	if lines[0] != "P3" || lines[1] != "8 4" || lines[2] != "255" {
		t.Fatalf("header = %q", lines[:3])
	}
	for i, line := range lines[3:] {
		var r, g, b int
		if n, err := fmt.Sscanf(line, "%d %d %d", &r, &g, &b); n != 3 || err != nil {
			t.Fatalf("pixel line %d %q: %v", i, line, err)
		}
		for _, v := range []int{r, g, b} {
			if v < 0 || v > 255 {
				t.Fatalf("pixel line %d out of range: %q", i, line)
			}
		}
	}
}

func TestWritePPMValues(t *testing.T) {
	img := NewImage(2, 1)
	img.Pix[0] = colors.New(1, 0.25, 0)
	img.Pix[1] = colors.New(-1, 4, 0.0625)

	want := "P3\n2 1\n255\n255 128 0\n0 255 64\n"
	if got := string(ppmBytes(t, img)); got != want {
		t.Errorf("WritePPM =\n%q\nwant\n%q", got, want)
	}
}

func TestImageEncodesAsPNG(t *testing.T) {
	img := NewImage(3, 2)
	img.Pix[4] = colors.New(0.25, 1, 0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("bounds %v", decoded.Bounds())
	}
	r, g, b, _ := decoded.At(1, 1).RGBA()
	if r>>8 != 128 || g>>8 != 255 || b>>8 != 0 {
		t.Errorf("pixel (1,1) = %d %d %d", r>>8, g>>8, b>>8)
	}
	if got := img.At(5, 5); got != (color.NRGBA{}) {
		t.Errorf("out of bounds At = %v", got)
	}
}

func TestShadeNormals(t *testing.T) {
	c := testCamera()
	c.ShadeNormals = true
	c.Background = flat{}
	img, err := c.Render(singleSphere())
	if err != nil {
		t.Fatal(err)
	}
	// the sphere faces the camera, so the center is mostly +Z
	if got := img.At(16, 10).(color.NRGBA); got.B < 250 {
		t.Errorf("center pixel = %v, want a +Z normal", got)
	}
	if got := img.At(0, 0).(color.NRGBA); got != (color.NRGBA{A: 255}) {
		t.Errorf("corner pixel = %v, want the black background", got)
	}
}

func TestEnvironmentBackground(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for i := 0; i < len(m.Pix); i += 4 {
		copy(m.Pix[i:], []byte{255, 0, 0, 255})
	}
	env := NewEnvironmentMap(texture.New(m))
	env.Intensity = 0.5

	got := env.Color(vectors.NewRay(vectors.Zero(), vectors.New(0.3, 0.2, -1)))
	if !closeColor(got, colors.New(0.5, 0, 0)) {
		t.Errorf("environment color = %v, want (0.5 0 0)", got)
	}

	c := testCamera()
	c.Background = env
	img, err := c.Render(geom.NewList())
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range img.Pix {
		if !closeColor(p, colors.New(0.5, 0, 0)) {
			t.Fatalf("pixel %d = %v", i, p)
		}
	}
}

func TestDefaultSky(t *testing.T) {
	sky := DefaultSky()
	tests := []struct {
		name string
		dir  vectors.Vec3
		want colors.Color
	}{
		{"zenith", vectors.New(0, 1, 0), colors.New(0.5, 0.7, 1)},
		{"nadir", vectors.New(0, -1, 0), colors.White()},
		{"horizon", vectors.New(1, 0, 0), colors.New(0.75, 0.85, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sky.Color(vectors.NewRay(vectors.Zero(), tt.dir)); !closeColor(got, tt.want) {
				t.Errorf("sky = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	c := testCamera()
	c.Progress = &buf
	if _, err := c.Render(singleSphere()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Scanlines remaining: 0 ") || !strings.HasSuffix(out, "Done.                        \n") {
		t.Errorf("progress output = %q", out)
	}

	buf.Reset()
	if _, err := c.RenderSequential(singleSphere(), random.Default()); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "\rScanlines remaining: 20 ") {
		t.Errorf("sequential progress output = %q", buf.String())
	}
}
