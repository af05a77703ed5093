package render

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
)

var ErrNotPPM = errors.New("not a plain PPM (P3) stream")

// maxPPMPixels caps the width*height a header may declare.
const maxPPMPixels = 1 << 28

func init() {
	image.RegisterFormat("ppm", "P3", DecodePPM, DecodePPMConfig)
}

// DecodePPM reads a plain-text P3 image as written by WritePPM. Samples are
// rescaled from the stream's maximum value to 8 bits.
func DecodePPM(r io.Reader) (image.Image, error) {
	p := ppmReader{r: bufio.NewReader(r)}
	width, height, maxval, err := p.header()
	if err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		var rgb [3]uint8
		for c := range rgb {
			v, err := p.number()
			if err != nil {
				return nil, fmt.Errorf("ppm pixel %d: %w", i, err)
			}
			if v > maxval {
				return nil, fmt.Errorf("ppm pixel %d: sample %d exceeds %d", i, v, maxval)
			}
			rgb[c] = uint8((v*255 + maxval/2) / maxval)
		}
		img.Pix[i*4] = rgb[0]
		img.Pix[i*4+1] = rgb[1]
		img.Pix[i*4+2] = rgb[2]
		img.Pix[i*4+3] = 255
	}
	return img, nil
}

func DecodePPMConfig(r io.Reader) (image.Config, error) {
	p := ppmReader{r: bufio.NewReader(r)}
	width, height, _, err := p.header()
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.NRGBAModel, Width: width, Height: height}, nil
}

type ppmReader struct {
	r *bufio.Reader
}

func (p *ppmReader) header() (width, height, maxval int, err error) {
	magic, err := p.token()
	if err != nil || magic != "P3" {
		return 0, 0, 0, ErrNotPPM
	}
	if width, err = p.number(); err != nil {
		return 0, 0, 0, fmt.Errorf("ppm width: %w", err)
	}
	if height, err = p.number(); err != nil {
		return 0, 0, 0, fmt.Errorf("ppm height: %w", err)
	}
	if maxval, err = p.number(); err != nil {
		return 0, 0, 0, fmt.Errorf("ppm maxval: %w", err)
	}
	if width <= 0 || height <= 0 || maxval <= 0 || maxval > 65535 {
		return 0, 0, 0, fmt.Errorf("%w: header %dx%d max %d", ErrNotPPM, width, height, maxval)
	}
	if width > maxPPMPixels/height {
		return 0, 0, 0, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrNotPPM, width, height, maxPPMPixels)
	}
	return width, height, maxval, nil
}

func (p *ppmReader) number() (int, error) {
	tok, err := p.token()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid number %q", tok)
	}
	return v, nil
}

// token returns the next whitespace separated word, skipping # comments.
func (p *ppmReader) token() (string, error) {
	var tok []byte
	for {
		b, err := p.r.ReadByte()
		if err != nil {
			if err == io.EOF && len(tok) > 0 {
				return string(tok), nil
			}
			if err == io.EOF {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		switch {
		case b == '#' && len(tok) == 0:
			if _, err := p.r.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, b)
		}
	}
}
