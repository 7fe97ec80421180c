package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/irgordon/stegocrypt/api/internal/core/domain"
	"github.com/irgordon/stegocrypt/api/internal/core/stego"
)

// StegoService composes the password envelope with the LSB codec. It is the
// only component aware of both layers and keeps no state between calls.
type StegoService struct {
	crypto    domain.CryptoService
	maxPixels int
	logger    *slog.Logger
}

var _ domain.StegoService = (*StegoService)(nil)

// NewStegoService builds the pipeline. Images with more than maxPixels pixels
// are rejected before decoding; zero or less means stego.DefaultMaxPixels.
func NewStegoService(crypto domain.CryptoService, maxPixels int, logger *slog.Logger) *StegoService {
	if maxPixels <= 0 {
		maxPixels = stego.DefaultMaxPixels
	}
	return &StegoService{crypto: crypto, maxPixels: maxPixels, logger: logger}
}

// Capacity reports how many bytes the image can carry.
func (s *StegoService) Capacity(ctx context.Context, image []byte) (*domain.Capacity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, _, err := stego.DecodeImageLimit(image, s.maxPixels)
	if err != nil {
		return nil, err
	}
	return stego.CapacityOf(m), nil
}

// Encode hides message in image, encrypting it first when a non-blank password
// is supplied. The size check runs against the final payload, so an envelope
// that no longer fits is rejected before any pixel is written.
func (s *StegoService) Encode(ctx context.Context, image []byte, message, password string) (*domain.EncodeResult, error) {
	if message == "" {
		return nil, domain.ErrEmptyMessage
	}

	cover, format, err := stego.DecodeImageLimit(image, s.maxPixels)
	if err != nil {
		return nil, err
	}
	capacity := stego.CapacityOf(cover)

	payload, encrypted := message, false
	if hasPassword(password) {
		payload, err = s.crypto.Encrypt(ctx, message, password)
		if err != nil {
			return nil, err
		}
		encrypted = true
	}

	size := len(payload)
	if !capacity.Fits(size) {
		return nil, &domain.CapacityError{MaxBytes: capacity.MaxBytes, Size: size}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := stego.Encode(cover, []byte(payload))
	if err != nil {
		return nil, err
	}
	png, err := stego.EncodePNG(out)
	if err != nil {
		return nil, fmt.Errorf("stego service: %w", err)
	}

	used := math.Round(float64(size)/float64(capacity.MaxBytes)*100*100) / 100
	s.logger.Debug("Message embedded",
		slog.String("input_format", format),
		slog.Int("width", capacity.Width),
		slog.Int("height", capacity.Height),
		slog.Int("payload_bytes", size),
		slog.Bool("encrypted", encrypted),
	)

	return &domain.EncodeResult{
		Image:        png,
		CapacityUsed: used,
		Encrypted:    encrypted,
		MessageSize:  size,
	}, nil
}

// Decode recovers the hidden message and decrypts it when a non-blank password
// is supplied.
func (s *StegoService) Decode(ctx context.Context, image []byte, password string) (*domain.DecodeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, _, err := stego.DecodeImageLimit(image, s.maxPixels)
	if err != nil {
		return nil, err
	}
	hidden, err := stego.Decode(m)
	if err != nil {
		return nil, err
	}

	message, decrypted := hidden, false
	if hasPassword(password) {
		message, err = s.crypto.Decrypt(ctx, hidden, password)
		if err != nil {
			return nil, err
		}
		decrypted = true
	}

	return &domain.DecodeResult{
		Message:       message,
		Decrypted:     decrypted,
		MessageLength: utf8.RuneCountInString(message),
	}, nil
}

// SelfTest round-trips a short message through a small in-memory image. It
// exercises the codec and the PNG container without touching the envelope.
func (s *StegoService) SelfTest(ctx context.Context) error {
	const probe = "ok"

	out, err := stego.Encode(stego.NewRGBImage(8, 8), []byte(probe))
	if err != nil {
		return fmt.Errorf("self-test encode: %w", err)
	}
	png, err := stego.EncodePNG(out)
	if err != nil {
		return fmt.Errorf("self-test encode: %w", err)
	}
	got, err := s.Decode(ctx, png, "")
	if err != nil {
		return fmt.Errorf("self-test decode: %w", err)
	}
	if got.Message != probe {
		return fmt.Errorf("self-test mismatch: got %q", got.Message)
	}
	return nil
}

// hasPassword treats a blank password as no password. The password itself is
// used verbatim as key material.
func hasPassword(password string) bool {
	return strings.TrimSpace(password) != ""
}
