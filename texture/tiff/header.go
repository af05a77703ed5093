// Package tiff reads uncompressed or deflated 8-bit baseline TIFF files
// straight from a memory map, for environment maps too large to decode
// up front.
package tiff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

type TiffHeader struct {
	ByteOrder       binary.ByteOrder
	Width, Height   int
	SamplesPerPixel int
	BitsPerSample   []int
	Photometric     int
	Compression     int
	PlanarConfig    int

	// Strip layout
	RowsPerStrip    int
	StripOffsets    []int
	StripByteCounts []int

	// Tile layout
	TileWidth      int
	TileHeight     int
	TileOffsets    []int
	TileByteCounts []int
}

// https://www.loc.gov/preservation/digital/formats/content/tiff_tags.shtml
const (
	TagImageWidth                = 256
	TagImageLength               = 257
	TagBitsPerSample             = 258
	TagCompression               = 259
	TagPhotometricInterpretation = 262
	TagStripOffsets              = 273
	TagSamplesPerPixel           = 277
	TagRowsPerStrip              = 278
	TagStripByteCounts           = 279
	TagPlanarConfiguration       = 284
	TagTileWidth                 = 322
	TagTileLength                = 323
	TagTileOffsets               = 324
	TagTileByteCounts            = 325
)

const (
	CompressionNone    = 1
	CompressionDeflate = 8 // Adobe deflate
	CompressionZlib    = 32946

	PhotometricBlackIsZero = 1
	PhotometricRGB         = 2
)

// field types
const (
	typeShort = 3
	typeLong  = 4
)

var (
	ErrInvalidTiffHeader = errors.New("invalid TIFF header")
	// ErrLayout means the file is a valid TIFF with the other organization
	// (tiles instead of strips or vice versa).
	ErrLayout = errors.New("unexpected TIFF layout")
)

type ifdEntry struct {
	tag, typ uint16
	count    uint32
	raw      []byte // the 4-byte value/offset field
}

func parseTiffHeader(r io.ReaderAt) (TiffHeader, error) {
	read := func(offset int64, size int) ([]byte, error) {
		buf := make([]byte, size)
		_, err := r.ReadAt(buf, offset)
		return buf, err
	}

	prefix, err := read(0, 8)
	if err != nil {
		return TiffHeader{}, ErrInvalidTiffHeader
	}

	var bo binary.ByteOrder
	switch string(prefix[0:2]) {
	case "II":
		bo = binary.LittleEndian
	case "MM":
		bo = binary.BigEndian
	default:
		return TiffHeader{}, ErrInvalidTiffHeader
	}
	if bo.Uint16(prefix[2:4]) != 42 {
		return TiffHeader{}, ErrInvalidTiffHeader
	}
	ifdOffset := int64(bo.Uint32(prefix[4:8]))

	countRaw, err := read(ifdOffset, 2)
	if err != nil {
		return TiffHeader{}, fmt.Errorf("read IFD: %w", err)
	}
	numEntries := int(bo.Uint16(countRaw))
	entriesRaw, err := read(ifdOffset+2, numEntries*12)
	if err != nil {
		return TiffHeader{}, fmt.Errorf("read IFD entries: %w", err)
	}

	// scalar reads the inline value of a one-element SHORT or LONG field.
	scalar := func(e ifdEntry) int {
		if e.typ == typeShort {
			return int(bo.Uint16(e.raw[0:2]))
		}
		return int(bo.Uint32(e.raw))
	}
	array := func(e ifdEntry) ([]int, error) {
		size := 4
		if e.typ == typeShort {
			size = 2
		}
		data := e.raw
		if int(e.count)*size > 4 {
			data, err = read(int64(bo.Uint32(e.raw)), int(e.count)*size)
			if err != nil {
				return nil, fmt.Errorf("read tag %d: %w", e.tag, err)
			}
		}
		out := make([]int, e.count)
		for i := range out {
			if size == 2 {
				out[i] = int(bo.Uint16(data[i*2:]))
			} else {
				out[i] = int(bo.Uint32(data[i*4:]))
			}
		}
		return out, nil
	}

	hdr := TiffHeader{
		ByteOrder:       bo,
		SamplesPerPixel: 1,
		Photometric:     -1,
		Compression:     CompressionNone,
		PlanarConfig:    1,
	}

	for i := 0; i < numEntries; i++ {
		b := entriesRaw[i*12 : (i+1)*12]
		e := ifdEntry{
			tag:   bo.Uint16(b[0:2]),
			typ:   bo.Uint16(b[2:4]),
			count: bo.Uint32(b[4:8]),
			raw:   b[8:12],
		}

		switch e.tag {
		case TagImageWidth:
			hdr.Width = scalar(e)
		case TagImageLength:
			hdr.Height = scalar(e)
		case TagBitsPerSample:
			hdr.BitsPerSample, err = array(e)
		case TagCompression:
			hdr.Compression = scalar(e)
		case TagPhotometricInterpretation:
			hdr.Photometric = scalar(e)
		case TagSamplesPerPixel:
			hdr.SamplesPerPixel = scalar(e)
		case TagPlanarConfiguration:
			hdr.PlanarConfig = scalar(e)
		case TagRowsPerStrip:
			hdr.RowsPerStrip = scalar(e)
		case TagStripOffsets:
			hdr.StripOffsets, err = array(e)
		case TagStripByteCounts:
			hdr.StripByteCounts, err = array(e)
		case TagTileWidth:
			hdr.TileWidth = scalar(e)
		case TagTileLength:
			hdr.TileHeight = scalar(e)
		case TagTileOffsets:
			hdr.TileOffsets, err = array(e)
		case TagTileByteCounts:
			hdr.TileByteCounts, err = array(e)
		}
		if err != nil {
			return TiffHeader{}, err
		}
	}

	if hdr.Width <= 0 || hdr.Height <= 0 {
		return TiffHeader{}, fmt.Errorf("invalid dimensions %dx%d", hdr.Width, hdr.Height)
	}
	if hdr.RowsPerStrip <= 0 {
		hdr.RowsPerStrip = hdr.Height
	}
	return hdr, nil
}

// checkPixelFormat accepts 8-bit chunky grayscale, RGB and RGB+alpha.
func (h TiffHeader) checkPixelFormat() error {
	if h.PlanarConfig != 1 {
		return fmt.Errorf("unsupported planar configuration: %d", h.PlanarConfig)
	}
	if len(h.BitsPerSample) != h.SamplesPerPixel {
		return fmt.Errorf("unsupported bits per sample: %v", h.BitsPerSample)
	}
	for _, bits := range h.BitsPerSample {
		if bits != 8 {
			return fmt.Errorf("unsupported bits per sample: %v", h.BitsPerSample)
		}
	}
	switch h.Photometric {
	case PhotometricBlackIsZero:
		if h.SamplesPerPixel != 1 && h.SamplesPerPixel != 2 {
			return fmt.Errorf("unsupported grayscale format: %d samples", h.SamplesPerPixel)
		}
	case PhotometricRGB:
		if h.SamplesPerPixel != 3 && h.SamplesPerPixel != 4 {
			return fmt.Errorf("unsupported RGB format: %d samples", h.SamplesPerPixel)
		}
	default:
		return fmt.Errorf("unsupported photometric interpretation: %d", h.Photometric)
	}
	return nil
}

// pixel converts the samples of one pixel into an opaque 8-bit color.
func (h TiffHeader) pixel(px []byte) (r, g, b uint8) {
	if h.Photometric == PhotometricRGB {
		return px[0], px[1], px[2]
	}
	return px[0], px[0], px[0]
}
