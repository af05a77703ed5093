package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/echoflaresat/raycam/random"
	"github.com/echoflaresat/raycam/render"
	"github.com/echoflaresat/raycam/scenes"
	"github.com/echoflaresat/raycam/texture"
	"github.com/echoflaresat/raycam/vectors"
)

// sceneStream is the generator stream used to lay out random scenes when
// rendering in parallel. Scanline streams count up from zero.
const sceneStream = 1 << 62

type config struct {
	scene, sceneFile, saveScene *string
	width, spp, depth           *int
	aspect, vfov                *float64
	from, at, up                *vecFlag
	aperture, focus             *float64
	seed                        *uint64
	workers                     *int
	sharedRNG                   *bool
	env                         *string
	envIntensity                *float64
	normals                     *bool
	out, format                 *string
	quiet, verbose              *bool
	showHelp                    *bool
}

func defineFlags(fs *flag.FlagSet) config {
	defaults := render.NewCamera()
	cfg := config{
		scene:     fs.String("scene", "final", "Built-in scene: "+strings.Join(scenes.Names(), ", ")),
		sceneFile: fs.String("scene-file", "", "JSON scene file; overrides -scene"),
		saveScene: fs.String("save-scene", "", "Write the composed scene as JSON to this path"),

		width:  fs.Int("width", defaults.ImageWidth, "Image width in pixels"),
		aspect: fs.Float64("aspect", defaults.AspectRatio, "Aspect ratio (width / height)"),
		spp:    fs.Int("spp", defaults.SamplesPerPixel, "Samples per pixel"),
		depth:  fs.Int("depth", defaults.MaxDepth, "Maximum bounces per ray"),

		vfov:     fs.Float64("vfov", defaults.VFov, "Vertical field of view in degrees"),
		from:     &vecFlag{defaults.LookFrom},
		at:       &vecFlag{defaults.LookAt},
		up:       &vecFlag{defaults.VUp},
		aperture: fs.Float64("aperture", defaults.DefocusAngle, "Defocus angle in degrees; 0 is a pinhole"),
		focus:    fs.Float64("focus", defaults.FocusDist, "Focus distance"),

		seed:      fs.Uint64("seed", 0, "Random seed; 0 reproduces the reference generator"),
		workers:   fs.Int("workers", 0, "Concurrent scanlines; 0 uses all CPUs"),
		sharedRNG: fs.Bool("shared-rng", false, "Render sequentially from the generator that built the scene"),
		normals:   fs.Bool("normals", false, "Shade by surface normal instead of tracing"),

		env:          fs.String("env", "", "Equirectangular environment map (TIFF, PNG or JPEG)"),
		envIntensity: fs.Float64("env-intensity", 1, "Environment map brightness"),

		out:    fs.String("out", "", "Output file; empty writes to stdout"),
		format: fs.String("format", "", "Output format: ppm, png or tiff (default from -out extension)"),

		quiet:    fs.Bool("quiet", false, "Hide the scanline progress"),
		verbose:  fs.Bool("v", false, "Log debug details"),
		showHelp: fs.Bool("h", false, "Show this help message"),
	}
	fs.Var(cfg.from, "from", "Camera position as x,y,z")
	fs.Var(cfg.at, "at", "Point the camera looks at, as x,y,z")
	fs.Var(cfg.up, "up", "Camera up direction as x,y,z")
	return cfg
}

func printHelp(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintf(w, `Raycam - Monte Carlo sphere ray tracer

Usage:
  %[1]s [options] > image.ppm

`, fs.Name())

	printGroup(fs, "Scene", []string{"scene", "scene-file", "save-scene", "env", "env-intensity"})
	printGroup(fs, "Camera", []string{"from", "at", "up", "vfov", "aperture", "focus"})
	printGroup(fs, "Rendering", []string{"width", "aspect", "spp", "depth", "seed", "workers", "shared-rng", "normals"})
	printGroup(fs, "Output", []string{"out", "format"})
	printGroup(fs, "Misc", []string{"quiet", "v", "h"})
}

func printGroup(fs *flag.FlagSet, title string, keys []string) {
	w := fs.Output()
	fmt.Fprintf(w, "%s:\n", title)
	for _, name := range keys {
		if f := fs.Lookup(name); f != nil {
			fmt.Fprintf(w, "  -%-14s %s (default %q)\n", f.Name, f.Usage, f.DefValue)
		}
	}
	fmt.Fprintln(w)
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("raycam", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg := defineFlags(fs)
	fs.Usage = func() { printHelp(fs) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if *cfg.showHelp {
		printHelp(fs)
		return nil
	}

	level := slog.LevelInfo
	if *cfg.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	format, err := outputFormat(*cfg.format, *cfg.out)
	if err != nil {
		return err
	}

	rng := random.Default()
	if *cfg.seed != 0 {
		rng = random.New(*cfg.seed, sceneStream)
	}
	sc, err := loadScene(cfg, rng)
	if err != nil {
		return err
	}
	slog.Info("scene ready", "scene", sc.Name, "objects", sc.World.Len())

	if *cfg.saveScene != "" {
		sf, err := scenes.Export(sc)
		if err != nil {
			return err
		}
		if err := scenes.Save(*cfg.saveScene, sf); err != nil {
			return err
		}
	}

	cam := render.NewCamera()
	sc.Camera.Apply(cam)
	applyFlags(fs, cfg, cam)
	if !*cfg.quiet {
		cam.Progress = stderr
	}

	if *cfg.env != "" {
		tex, err := texture.Load(*cfg.env)
		if err != nil {
			return fmt.Errorf("load environment map: %w", err)
		}
		defer tex.Close()
		env := render.NewEnvironmentMap(tex)
		env.Intensity = *cfg.envIntensity
		cam.Background = env
	}

	var img *render.Image
	if *cfg.sharedRNG {
		img, err = cam.RenderSequential(sc.World, rng)
	} else {
		img, err = cam.Render(sc.World)
	}
	if err != nil {
		return err
	}
	return writeOutput(*cfg.out, stdout, img, format)
}

func loadScene(cfg config, rng *random.PCG32) (*scenes.Scene, error) {
	if *cfg.sceneFile == "" {
		return scenes.Build(*cfg.scene, rng)
	}
	sf, err := scenes.Load(*cfg.sceneFile)
	if err != nil {
		return nil, err
	}
	sc, err := sf.Build()
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", *cfg.sceneFile, err)
	}
	if sc.Name == "" {
		sc.Name = *cfg.sceneFile
	}
	return sc, nil
}

// applyFlags overrides the scene's camera with the flags given explicitly on
// the command line.
func applyFlags(fs *flag.FlagSet, cfg config, cam *render.Camera) {
	cam.Seed = *cfg.seed
	cam.Workers = *cfg.workers
	cam.ShadeNormals = *cfg.normals
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cam.ImageWidth = *cfg.width
		case "aspect":
			cam.AspectRatio = *cfg.aspect
		case "spp":
			cam.SamplesPerPixel = *cfg.spp
		case "depth":
			cam.MaxDepth = *cfg.depth
		case "vfov":
			cam.VFov = *cfg.vfov
		case "from":
			cam.LookFrom = cfg.from.v
		case "at":
			cam.LookAt = cfg.at.v
		case "up":
			cam.VUp = cfg.up.v
		case "aperture":
			cam.DefocusAngle = *cfg.aperture
		case "focus":
			cam.FocusDist = *cfg.focus
		}
	})
}

// vecFlag parses a vector written as "x,y,z".
type vecFlag struct {
	v vectors.Vec3
}

func (f *vecFlag) String() string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%g,%g,%g", f.v.X, f.v.Y, f.v.Z)
}

func (f *vecFlag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("invalid vector %q (expected x,y,z)", s)
	}
	var xyz [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("invalid vector %q: %w", s, err)
		}
		xyz[i] = v
	}
	f.v = vectors.New(xyz[0], xyz[1], xyz[2])
	return nil
}
