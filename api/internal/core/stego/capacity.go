package stego

import (
	"math"

	"github.com/irgordon/stegocrypt/api/internal/core/domain"
)

// CapacityOf computes the payload capacity of an image. It is a pure function
// of the image geometry.
func CapacityOf(m *RGBImage) *domain.Capacity {
	totalPixels := m.Width * m.Height
	totalBits := totalPixels * ChannelsPerPixel
	available := max(totalBits-TerminatorBits, 0)
	maxBytes := available / 8

	return &domain.Capacity{
		MaxBytes:    maxBytes,
		MaxKB:       math.Round(float64(maxBytes)/1024*100) / 100,
		MaxBits:     available,
		TotalPixels: totalPixels,
		Width:       m.Width,
		Height:      m.Height,
		TotalBits:   totalBits,
	}
}

// CapacityOfBytes decodes the image and computes its capacity.
func CapacityOfBytes(data []byte) (*domain.Capacity, error) {
	m, _, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}
	return CapacityOf(m), nil
}
