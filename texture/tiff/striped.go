package tiff

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/exp/mmap"
)

// Striped is an uncompressed strip-organized TIFF read on demand from a
// memory map. At is safe for concurrent use.
type Striped struct {
	header TiffHeader
	reader *mmap.ReaderAt
}

func LoadStripedTiff(path string) (*Striped, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	header, err := parseTiffHeader(reader)
	if err != nil {
		reader.Close()
		return nil, err
	}
	if err := validateStriped(header, reader.Len()); err != nil {
		reader.Close()
		return nil, err
	}
	return &Striped{header: header, reader: reader}, nil
}

// validateStriped checks that the strips cover every row and lie inside a
// file of size bytes, so At never reads out of range.
func validateStriped(h TiffHeader, size int) error {
	if len(h.StripOffsets) == 0 {
		return ErrLayout
	}
	if len(h.StripOffsets) != len(h.StripByteCounts) {
		return fmt.Errorf("invalid strip offset/length")
	}
	if h.Compression != CompressionNone {
		return fmt.Errorf("unsupported strip compression: %d", h.Compression)
	}
	if err := h.checkPixelFormat(); err != nil {
		return err
	}

	strips := (h.Height + h.RowsPerStrip - 1) / h.RowsPerStrip
	if len(h.StripOffsets) < strips {
		return fmt.Errorf("%d strips for %d rows of %d, want %d",
			len(h.StripOffsets), h.Height, h.RowsPerStrip, strips)
	}
	rowBytes := h.Width * h.SamplesPerPixel
	for i := 0; i < strips; i++ {
		rows := min(h.RowsPerStrip, h.Height-i*h.RowsPerStrip)
		if rowBytes > size || rows > size/rowBytes {
			return fmt.Errorf("strip %d: %d rows of %d bytes exceed the file", i, rows, rowBytes)
		}
		need := rows * rowBytes
		if h.StripByteCounts[i] < need {
			return fmt.Errorf("strip %d holds %d bytes, want %d", i, h.StripByteCounts[i], need)
		}
		if h.StripOffsets[i] > size-need {
			return fmt.Errorf("strip %d at offset %d runs past the end of the file", i, h.StripOffsets[i])
		}
	}
	return nil
}

func (t *Striped) Close() error {
	return t.reader.Close()
}

func (t *Striped) ColorModel() color.Model {
	return color.RGBAModel
}

func (t *Striped) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.header.Width, t.header.Height)
}

func (t *Striped) At(x, y int) color.Color {
	h := t.header
	if !(image.Point{x, y}.In(t.Bounds())) {
		return color.RGBA{}
	}

	strip := y / h.RowsPerStrip
	localY := y % h.RowsPerStrip
	idx := h.StripOffsets[strip] + (localY*h.Width+x)*h.SamplesPerPixel

	var buf [4]byte
	px := buf[:h.SamplesPerPixel]
	if _, err := t.reader.ReadAt(px, int64(idx)); err != nil {
		panic(fmt.Sprintf("could not read pixel at (%d,%d): %v", x, y, err))
	}
	r, g, b := h.pixel(px)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
