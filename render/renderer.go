package render

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/echoflaresat/raycam/colors"
	"github.com/echoflaresat/raycam/geom"
	"github.com/echoflaresat/raycam/random"
	"golang.org/x/sync/errgroup"
)

// Render traces the world into a new image. Scanlines are spread over
// Workers goroutines. Row j always draws from the stream random.New(Seed, j),
// so the result does not depend on the worker count or on scheduling.
func (c *Camera) Render(world geom.Hittable) (*Image, error) {
	if err := c.Init(); err != nil {
		return nil, err
	}

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	slog.Debug("render started",
		"width", c.ImageWidth, "height", c.imageHeight,
		"spp", c.SamplesPerPixel, "depth", c.MaxDepth, "workers", workers)
	start := time.Now()

	img := NewImage(c.ImageWidth, c.imageHeight)
	progress := newProgress(c.Progress, c.imageHeight)

	var g errgroup.Group
	g.SetLimit(workers)
	for j := 0; j < c.imageHeight; j++ {
		g.Go(func() error {
			c.renderRow(world, j, random.New(c.Seed, uint64(j)), img.Row(j))
			progress.rowDone()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	progress.finish()

	slog.Debug("render finished", "elapsed", time.Since(start))
	return img, nil
}

// RenderSequential traces scanlines in order on the calling goroutine,
// drawing every sample from rng. The output is a pure function of the
// world, the configuration and rng's state.
func (c *Camera) RenderSequential(world geom.Hittable, rng *random.PCG32) (*Image, error) {
	if err := c.Init(); err != nil {
		return nil, err
	}

	img := NewImage(c.ImageWidth, c.imageHeight)
	progress := newProgress(c.Progress, c.imageHeight)
	for j := 0; j < c.imageHeight; j++ {
		progress.rowStart()
		c.renderRow(world, j, rng, img.Row(j))
	}
	progress.finish()
	return img, nil
}

func (c *Camera) renderRow(world geom.Hittable, j int, rng *random.PCG32, row []colors.Color) {
	for i := range row {
		var pixel colors.Color
		for s := 0; s < c.SamplesPerPixel; s++ {
			r := c.getRay(i, j, rng)
			if c.ShadeNormals {
				pixel = pixel.Add(normalColor(r, world, c.Background))
			} else {
				pixel = pixel.Add(traceColor(r, c.MaxDepth, world, c.Background, rng))
			}
		}
		row[i] = pixel.Scale(c.pixelSamplesScale)
	}
}

// progress prints how many scanlines are left, overwriting the line in place.
type progress struct {
	mu        sync.Mutex
	w         io.Writer
	remaining int
}

func newProgress(w io.Writer, rows int) *progress {
	return &progress{w: w, remaining: rows}
}

func (p *progress) rowStart() {
	if p.w == nil {
		return
	}
	fmt.Fprintf(p.w, "\rScanlines remaining: %d ", p.remaining)
	p.remaining--
}

func (p *progress) rowDone() {
	if p.w == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.remaining--
	fmt.Fprintf(p.w, "\rScanlines remaining: %d ", p.remaining)
}

func (p *progress) finish() {
	if p.w == nil {
		return
	}
	fmt.Fprint(p.w, "\rDone.                        \n")
}
