package main

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/echoflaresat/raycam/render"
	"golang.org/x/image/tiff"
)

const (
	formatPPM  = "ppm"
	formatPNG  = "png"
	formatTIFF = "tiff"
)

// outputFormat resolves the -format flag, falling back to the extension of
// the output path and then to PPM.
func outputFormat(format, out string) (string, error) {
	switch strings.ToLower(format) {
	case formatPPM:
		return formatPPM, nil
	case formatPNG:
		return formatPNG, nil
	case formatTIFF, "tif":
		return formatTIFF, nil
	case "":
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}

	switch strings.ToLower(filepath.Ext(out)) {
	case ".png":
		return formatPNG, nil
	case ".tif", ".tiff":
		return formatTIFF, nil
	}
	return formatPPM, nil
}

func writeImage(w io.Writer, img *render.Image, format string) error {
	switch format {
	case formatPNG:
		return (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(w, img)
	case formatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return img.WritePPM(w)
}

// writeOutput writes img to path, or to stdout when path is empty.
func writeOutput(path string, stdout io.Writer, img *render.Image, format string) error {
	if path == "" {
		return writeImage(stdout, img, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeImage(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
