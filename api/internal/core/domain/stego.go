package domain

import "context"

// Capacity describes how much payload an image can carry when one bit is
// stored in the LSB of every R, G and B channel.
type Capacity struct {
	MaxBytes    int     `json:"max_bytes"`
	MaxKB       float64 `json:"max_kb"`
	MaxBits     int     `json:"max_bits"`
	TotalPixels int     `json:"total_pixels"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	TotalBits   int     `json:"total_bits"`
}

// Fits reports whether a payload of n bytes can be embedded.
func (c *Capacity) Fits(n int) bool {
	return n <= c.MaxBytes
}

// EncodeResult is the stego image together with the metadata the transport
// surfaces to the caller.
type EncodeResult struct {
	Image        []byte  `json:"-"` // always PNG
	CapacityUsed float64 `json:"capacity_used"`
	Encrypted    bool    `json:"encryption_used"`
	MessageSize  int     `json:"message_size"`
}

// DecodeResult is the recovered message.
type DecodeResult struct {
	Message       string `json:"message"`
	Decrypted     bool   `json:"decryption_used"`
	MessageLength int    `json:"message_length"`
}

// StegoService is the pipeline the transport layer calls into. Implementations
// hold no per-call state and are safe for concurrent use.
type StegoService interface {
	Capacity(ctx context.Context, image []byte) (*Capacity, error)
	Encode(ctx context.Context, image []byte, message, password string) (*EncodeResult, error)
	Decode(ctx context.Context, image []byte, password string) (*DecodeResult, error)
}
