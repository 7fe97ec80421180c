package stego

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"

	"github.com/irgordon/stegocrypt/api/internal/core/domain"
)

// RGBImage is a pixel grid with three 8-bit channels per pixel. Pix holds
// Width*Height*3 bytes in row-major R, G, B order.
type RGBImage struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRGBImage allocates a black image of the given size.
func NewRGBImage(width, height int) *RGBImage {
	return &RGBImage{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// Clone returns a deep copy.
func (m *RGBImage) Clone() *RGBImage {
	pix := make([]uint8, len(m.Pix))
	copy(pix, m.Pix)
	return &RGBImage{Width: m.Width, Height: m.Height, Pix: pix}
}

// Set writes the channels of the pixel at (x, y).
func (m *RGBImage) Set(x, y int, r, g, b uint8) {
	i := (y*m.Width + x) * 3
	m.Pix[i], m.Pix[i+1], m.Pix[i+2] = r, g, b
}

// At returns the channels of the pixel at (x, y).
func (m *RGBImage) At(x, y int) (r, g, b uint8) {
	i := (y*m.Width + x) * 3
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// FromImage normalizes any image.Image to RGB. Alpha is dropped without
// compositing, so the stored color channels are kept as they are.
func FromImage(src image.Image) *RGBImage {
	b := src.Bounds()
	dst := NewRGBImage(b.Dx(), b.Dy())

	switch s := src.(type) {
	case *image.NRGBA:
		for y := 0; y < dst.Height; y++ {
			for x := 0; x < dst.Width; x++ {
				i := s.PixOffset(b.Min.X+x, b.Min.Y+y)
				dst.Set(x, y, s.Pix[i], s.Pix[i+1], s.Pix[i+2])
			}
		}
	case *image.RGBA:
		// Opaque RGBA is the common case for PNG, BMP and our own output.
		opaque := s.Opaque()
		for y := 0; y < dst.Height; y++ {
			for x := 0; x < dst.Width; x++ {
				if opaque {
					i := s.PixOffset(b.Min.X+x, b.Min.Y+y)
					dst.Set(x, y, s.Pix[i], s.Pix[i+1], s.Pix[i+2])
					continue
				}
				c := color.NRGBAModel.Convert(s.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				dst.Set(x, y, c.R, c.G, c.B)
			}
		}
	default:
		for y := 0; y < dst.Height; y++ {
			for x := 0; x < dst.Width; x++ {
				c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				dst.Set(x, y, c.R, c.G, c.B)
			}
		}
	}
	return dst
}

// ToImage converts back to a fully opaque image.RGBA.
func (m *RGBImage) ToImage() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
	for i, j := 0, 0; i < len(m.Pix); i, j = i+3, j+4 {
		out.Pix[j] = m.Pix[i]
		out.Pix[j+1] = m.Pix[i+1]
		out.Pix[j+2] = m.Pix[i+2]
		out.Pix[j+3] = 0xFF
	}
	return out
}

// DefaultMaxPixels is the decompression-bomb threshold used when no explicit
// limit is given.
const DefaultMaxPixels = 89_478_485

// DecodeImage parses PNG, JPEG, GIF or BMP bytes into an RGBImage, refusing
// images larger than DefaultMaxPixels.
func DecodeImage(data []byte) (*RGBImage, string, error) {
	return DecodeImageLimit(data, DefaultMaxPixels)
}

// DecodeImageLimit is DecodeImage with an explicit pixel limit. The header is
// read first so oversized images are rejected before any pixel is allocated.
// A maxPixels of zero or less disables the check.
func DecodeImageLimit(data []byte, maxPixels int) (*RGBImage, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", domain.ErrInvalidImage)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, format, fmt.Errorf("%w: image has no pixels", domain.ErrInvalidImage)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); maxPixels > 0 && pixels > int64(maxPixels) {
		return nil, format, fmt.Errorf("%w: %dx%d exceeds the %d pixel limit",
			domain.ErrInvalidImage, cfg.Width, cfg.Height, maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, format, fmt.Errorf("%w: image has no pixels", domain.ErrInvalidImage)
	}
	return FromImage(img), format, nil
}

// EncodePNG serializes the image losslessly. Lossy containers would destroy
// the embedded bits, so PNG is the only output format.
func EncodePNG(m *RGBImage) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, m.ToImage()); err != nil {
		return nil, fmt.Errorf("stego: png encode: %w", err)
	}
	return buf.Bytes(), nil
}
