// Command montage arranges equally sized renders into one grid image, for
// example the tiles of a large frame rendered on several machines.
package main

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/echoflaresat/raycam/render" // register the PPM decoder
	"github.com/echoflaresat/raycam/texture"
	"golang.org/x/image/tiff"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Fprintf(os.Stderr, "Usage: %s <cols>x<rows> <output.png|.jpg|.tif> <tile1> <tile2> ...\n", os.Args[0])
		os.Exit(1)
	}

	cols, rows, err := parseLayout(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	output := os.Args[2]
	canvas, err := merge(cols, rows, os.Args[3:], os.Stdout)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("-> creating %s\n", output)
	if err := save(output, canvas); err != nil {
		log.Fatal(err)
	}
}

func parseLayout(s string) (cols, rows int, err error) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid tile layout %q (expected NxM)", s)
	}
	if cols, err = strconv.Atoi(parts[0]); err != nil || cols <= 0 {
		return 0, 0, fmt.Errorf("invalid cols in %q", s)
	}
	if rows, err = strconv.Atoi(parts[1]); err != nil || rows <= 0 {
		return 0, 0, fmt.Errorf("invalid rows in %q", s)
	}
	return cols, rows, nil
}

// merge draws the tiles left to right, top to bottom. All tiles must share
// the size of the first.
func merge(cols, rows int, paths []string, progress io.Writer) (*image.NRGBA, error) {
	if len(paths) != cols*rows {
		return nil, fmt.Errorf("expected %d input files, got %d", cols*rows, len(paths))
	}

	var canvas *image.NRGBA
	var tileW, tileH int
	for idx, path := range paths {
		fmt.Fprintf(progress, "Processing %s\n", path)
		tex, err := texture.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load tile %q: %w", path, err)
		}

		tile := tex.Image()
		b := tile.Bounds()
		if canvas == nil {
			tileW, tileH = b.Dx(), b.Dy()
			canvas = image.NewNRGBA(image.Rect(0, 0, cols*tileW, rows*tileH))
		} else if tileW != b.Dx() || tileH != b.Dy() {
			tex.Close()
			return nil, fmt.Errorf("tile size mismatch for %q: expected %dx%d, got %dx%d",
				path, tileW, tileH, b.Dx(), b.Dy())
		}

		x := (idx % cols) * tileW
		y := (idx / cols) * tileH
		draw.Draw(canvas, image.Rect(x, y, x+tileW, y+tileH), tile, b.Min, draw.Over)
		if err := tex.Close(); err != nil {
			return nil, err
		}
	}
	return canvas, nil
}

func save(output string, canvas image.Image) error {
	var encode func(w io.Writer) error
	switch ext := strings.ToLower(filepath.Ext(output)); ext {
	case ".png":
		encode = func(w io.Writer) error { return png.Encode(w, canvas) }
	case ".jpg", ".jpeg":
		encode = func(w io.Writer) error { return jpeg.Encode(w, canvas, &jpeg.Options{Quality: 95}) }
	case ".tif", ".tiff":
		encode = func(w io.Writer) error {
			return tiff.Encode(w, canvas, &tiff.Options{Compression: tiff.Deflate})
		}
	default:
		return fmt.Errorf("unsupported output format: %s", ext)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", output, err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", output, err)
	}
	return f.Close()
}
