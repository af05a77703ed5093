package scenes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/echoflaresat/raycam/colors"
	"github.com/echoflaresat/raycam/geom"
	"github.com/echoflaresat/raycam/material"
)

// Material kinds accepted in MaterialCfg.Type.
const (
	Lambertian = "lambertian"
	Metal      = "metal"
	Dielectric = "dielectric"
)

var ErrUnsupported = errors.New("cannot be written to a scene file")

// File is the JSON form of a scene.
type File struct {
	Name    string      `json:"name,omitempty"`
	Camera  View        `json:"camera"`
	Spheres []SphereCfg `json:"spheres"`
}

type SphereCfg struct {
	Center   Vec         `json:"center"`
	Radius   float64     `json:"radius"`
	Material MaterialCfg `json:"material"`
}

// MaterialCfg describes one material. Albedo applies to lambertian and
// metal, Fuzz to metal and IOR to dielectric.
type MaterialCfg struct {
	Type   string  `json:"type"`
	Albedo Vec     `json:"albedo"`
	Fuzz   float64 `json:"fuzz,omitempty"`
	IOR    float64 `json:"ior,omitempty"`
}

// Load reads a scene file.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (*File, error) {
	var sf File
	if err := json.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &sf, nil
}

// Save writes a scene file, indented.
func Save(path string, sf *File) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	if err := Encode(f, sf); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close scene: %w", err)
	}
	return nil
}

func Encode(w io.Writer, sf *File) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sf); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}

// Build turns the file into a renderable scene. Spheres with identical
// material definitions share one material value.
func (sf *File) Build() (*Scene, error) {
	shared := make(map[MaterialCfg]geom.Material)
	world := geom.NewList()
	for i, s := range sf.Spheres {
		mat, ok := shared[s.Material]
		if !ok {
			var err error
			mat, err = s.Material.build()
			if err != nil {
				return nil, fmt.Errorf("sphere %d: %w", i, err)
			}
			shared[s.Material] = mat
		}
		world.Add(geom.NewSphere(s.Center.Vec3(), s.Radius, mat))
	}
	return &Scene{Name: sf.Name, World: world, Camera: sf.Camera}, nil
}

func (m MaterialCfg) build() (geom.Material, error) {
	albedo := colors.FromVec3(m.Albedo.Vec3())
	switch m.Type {
	case Lambertian:
		return material.NewLambertian(albedo), nil
	case Metal:
		return material.NewMetal(albedo, m.Fuzz), nil
	case Dielectric:
		if !(m.IOR > 0) {
			return nil, fmt.Errorf("dielectric refractive index %v must be positive", m.IOR)
		}
		return material.NewDielectric(m.IOR), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, m.Type)
}

// Export converts a scene back into its file form. Only spheres with the
// materials of package material can be represented.
func Export(sc *Scene) (*File, error) {
	sf := &File{Name: sc.Name, Camera: sc.Camera}
	for i, obj := range sc.World.Objects {
		s, ok := obj.(*geom.Sphere)
		if !ok {
			return nil, fmt.Errorf("object %d (%T): %w", i, obj, ErrUnsupported)
		}
		mc, err := exportMaterial(s.Material)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		sf.Spheres = append(sf.Spheres, SphereCfg{
			Center:   FromVec3(s.Center),
			Radius:   s.Radius,
			Material: mc,
		})
	}
	return sf, nil
}

func exportMaterial(m geom.Material) (MaterialCfg, error) {
	switch m := m.(type) {
	case *material.Lambertian:
		return MaterialCfg{Type: Lambertian, Albedo: colorVec(m.Albedo)}, nil
	case *material.Metal:
		return MaterialCfg{Type: Metal, Albedo: colorVec(m.Albedo), Fuzz: m.Fuzz}, nil
	case *material.Dielectric:
		return MaterialCfg{Type: Dielectric, IOR: m.RefractiveIndex}, nil
	}
	return MaterialCfg{}, fmt.Errorf("material %T: %w", m, ErrUnsupported)
}

func colorVec(c colors.Color) Vec {
	return Vec{c.R, c.G, c.B}
}
