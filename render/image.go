package render

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/echoflaresat/raycam/colors"
)

// Image is a row-major buffer of averaged linear pixel colors. It implements
// image.Image, gamma encoding each pixel on access.
type Image struct {
	Width, Height int
	Pix           []colors.Color
}

func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]colors.Color, width*height),
	}
}

// Row returns the pixels of scanline y. Each row is a disjoint slice, so
// concurrent writers to different rows never share a cell.
func (m *Image) Row(y int) []colors.Color {
	return m.Pix[y*m.Width : (y+1)*m.Width]
}

func (m *Image) ColorModel() color.Model {
	return color.NRGBAModel
}

func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

func (m *Image) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return color.NRGBA{}
	}
	return m.Pix[y*m.Width+x].NRGBA()
}

// WritePPM writes the plain-text P3 stream: a "P3" line, "<width> <height>",
// "255", then one "r g b" line per pixel, top-left first.
func (m *Image) WritePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", m.Width, m.Height); err != nil {
		return fmt.Errorf("write ppm header: %w", err)
	}
	for _, c := range m.Pix {
		if err := writeColor(bw, c); err != nil {
			return fmt.Errorf("write ppm pixel: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write ppm: %w", err)
	}
	return nil
}

func writeColor(w io.Writer, c colors.Color) error {
	r, g, b := c.Bytes()
	_, err := fmt.Fprintf(w, "%d %d %d\n", r, g, b)
	return err
}
