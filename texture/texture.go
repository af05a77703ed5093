package texture

import (
	"errors"
	"image"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/echoflaresat/raycam/colors"
	"github.com/echoflaresat/raycam/texture/tiff"
	"github.com/echoflaresat/raycam/vectors"
	xtiff "github.com/echoflaresat/tiff"

	_ "image/jpeg" // register JPEG format with image.Decode
	_ "image/png"  // register PNG format with image.Decode
)

// Texture is an equirectangular (longitude/latitude) image sampled by
// direction, with +Y as the north pole.
type Texture struct {
	Width  int
	Height int
	img    image.Image
	closer io.Closer
}

// New wraps an already decoded image.
func New(img image.Image) *Texture {
	b := img.Bounds()
	return &Texture{Width: b.Dx(), Height: b.Dy(), img: img}
}

// Load opens a texture from disk. Baseline 8-bit TIFFs stay memory mapped;
// everything else is decoded into memory.
func Load(path string) (*Texture, error) {
	img, closer, err := loadImage(path)
	if err != nil {
		return nil, err
	}
	t := New(img)
	t.closer = closer
	return t, nil
}

func loadImage(path string) (image.Image, io.Closer, error) {
	striped, err := tiff.LoadStripedTiff(path)
	if err == nil {
		return striped, striped, nil
	}
	if !errors.Is(err, tiff.ErrInvalidTiffHeader) && !errors.Is(err, tiff.ErrLayout) {
		slog.Warn("failed to load striped TIFF", "path", path, "error", err)
	}

	tiled, err := tiff.LoadTiledTiff(path)
	if err == nil {
		return tiled, tiled, nil
	}
	if !errors.Is(err, tiff.ErrInvalidTiffHeader) && !errors.Is(err, tiff.ErrLayout) {
		slog.Warn("failed to load tiled TIFF", "path", path, "error", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	// full TIFF decoder for compressed strips and wider samples
	img, err := xtiff.Decode(f)
	if err == nil {
		return img, nil, nil
	}

	// fallback to image codecs
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}
	img, _, err = image.Decode(f)
	return img, nil, err
}

// Image returns the underlying image. For mapped TIFFs it stays valid
// until Close.
func (t *Texture) Image() image.Image {
	return t.img
}

// Close releases the memory map behind the texture, if any.
func (t *Texture) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

// Sample returns the display-encoded texel seen along direction d.
// No interpolation.
func (t *Texture) Sample(d vectors.Vec3) colors.Color {
	x, y := t.texel(d)
	b := t.img.Bounds()
	return colors.FromStandardColor(t.img.At(b.Min.X+x, b.Min.Y+y))
}

func (t *Texture) texel(d vectors.Vec3) (int, int) {
	lat := math.Atan2(d.Y, math.Sqrt(d.X*d.X+d.Z*d.Z))
	lon := math.Atan2(d.Z, d.X)
	if lon < 0 {
		lon += 2 * math.Pi
	}

	u := lon / (2 * math.Pi) * float64(t.Width)
	v := (0.5 - lat/math.Pi) * float64(t.Height)

	x := int(u)
	y := int(v)

	if x < 0 {
		x = 0
	} else if x >= t.Width {
		x = t.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.Height {
		y = t.Height - 1
	}
	return x, y
}
