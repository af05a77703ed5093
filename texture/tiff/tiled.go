package tiff

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/exp/mmap"
)

// tileCacheSize is the number of decompressed tiles kept in memory.
const tileCacheSize = 200

// maxTilePixels bounds TileWidth*TileHeight.
const maxTilePixels = 1 << 24

// Tiled is a tile-organized TIFF, raw or deflated. Decompressed tiles are
// kept in an LRU cache shared by all callers; At is safe for concurrent use.
type Tiled struct {
	header      TiffHeader
	reader      *mmap.ReaderAt
	cache       *lru.Cache // tileIndex -> []byte
	tilesAcross int
	tileSize    int // decompressed bytes per tile
}

func LoadTiledTiff(path string) (*Tiled, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	header, err := parseTiffHeader(reader)
	if err != nil {
		reader.Close()
		return nil, err
	}
	if err := validateTiled(header, reader.Len()); err != nil {
		reader.Close()
		return nil, err
	}

	cache, err := lru.New(tileCacheSize)
	if err != nil {
		reader.Close()
		return nil, err
	}

	return &Tiled{
		header:      header,
		reader:      reader,
		cache:       cache,
		tilesAcross: (header.Width + header.TileWidth - 1) / header.TileWidth,
		tileSize:    header.TileWidth * header.TileHeight * header.SamplesPerPixel,
	}, nil
}

// validateTiled checks that there is a tile for every grid cell and that
// each lies inside a file of size bytes. Raw tiles must also be complete.
func validateTiled(h TiffHeader, size int) error {
	if len(h.TileOffsets) == 0 {
		return ErrLayout
	}
	if h.TileWidth <= 0 || h.TileHeight <= 0 {
		return fmt.Errorf("missing tile dimensions")
	}
	if h.TileWidth > maxTilePixels/h.TileHeight {
		return fmt.Errorf("tile size %dx%d too large", h.TileWidth, h.TileHeight)
	}
	if len(h.TileOffsets) != len(h.TileByteCounts) {
		return fmt.Errorf("invalid tile offset/length")
	}
	switch h.Compression {
	case CompressionNone, CompressionDeflate, CompressionZlib:
	default:
		return fmt.Errorf("unsupported tile compression: %d", h.Compression)
	}
	if err := h.checkPixelFormat(); err != nil {
		return err
	}

	across := (h.Width + h.TileWidth - 1) / h.TileWidth
	down := (h.Height + h.TileHeight - 1) / h.TileHeight
	if down > len(h.TileOffsets)/across {
		return fmt.Errorf("%d tiles for a %dx%d grid", len(h.TileOffsets), across, down)
	}
	tileSize := h.TileWidth * h.TileHeight * h.SamplesPerPixel
	for i := 0; i < across*down; i++ {
		if h.Compression == CompressionNone && h.TileByteCounts[i] < tileSize {
			return fmt.Errorf("tile %d holds %d bytes, want %d", i, h.TileByteCounts[i], tileSize)
		}
		if h.TileByteCounts[i] > size || h.TileOffsets[i] > size-h.TileByteCounts[i] {
			return fmt.Errorf("tile %d at offset %d runs past the end of the file", i, h.TileOffsets[i])
		}
	}
	return nil
}

func (t *Tiled) Close() error {
	t.cache.Purge()
	return t.reader.Close()
}

func (t *Tiled) ColorModel() color.Model {
	return color.RGBAModel
}

func (t *Tiled) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.header.Width, t.header.Height)
}

func (t *Tiled) At(x, y int) color.Color {
	h := t.header
	if !(image.Point{x, y}.In(t.Bounds())) {
		return color.RGBA{}
	}

	tileIndex := (y/h.TileHeight)*t.tilesAcross + x/h.TileWidth
	tile := t.tile(tileIndex)

	localX := x % h.TileWidth
	localY := y % h.TileHeight
	off := (localY*h.TileWidth + localX) * h.SamplesPerPixel
	r, g, b := h.pixel(tile[off : off+h.SamplesPerPixel])
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func (t *Tiled) tile(index int) []byte {
	if val, ok := t.cache.Get(index); ok {
		return val.([]byte)
	}
	tile, err := t.loadTile(index)
	if err != nil {
		// a corrupt tile renders black rather than stopping every worker
		slog.Warn("failed to load tile", "tile", index, "error", err)
		tile = make([]byte, t.tileSize)
	}
	t.cache.Add(index, tile)
	return tile
}

func (t *Tiled) loadTile(index int) ([]byte, error) {
	h := t.header
	buf := make([]byte, h.TileByteCounts[index])
	if _, err := t.reader.ReadAt(buf, int64(h.TileOffsets[index])); err != nil {
		return nil, err
	}
	if h.Compression == CompressionNone {
		return buf, nil
	}

	r, err := zlib.NewReader(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("zlib decompression: %w", err)
	}
	defer r.Close()
	tile, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression: %w", err)
	}
	if len(tile) < t.tileSize {
		return nil, fmt.Errorf("tile %d decompressed to %d bytes, want %d", index, len(tile), t.tileSize)
	}
	return tile, nil
}
