package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidImage is returned when the input cannot be decoded into a pixel grid.
	ErrInvalidImage = errors.New("invalid image")

	// ErrCapacityExceeded is returned when the payload does not fit the image.
	// The concrete error is a *CapacityError.
	ErrCapacityExceeded = errors.New("message too large")

	// ErrEmptyMessage is returned when there is nothing to embed.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrNoMessage is returned when an image carries no recoverable message.
	ErrNoMessage = errors.New("no hidden message found in image")

	// ErrDecryptionFailed is returned for a wrong password or a corrupted envelope.
	ErrDecryptionFailed = errors.New("decryption failed: invalid password or corrupted data")

	// ErrEncryptionFailed is returned when the envelope could not be produced.
	ErrEncryptionFailed = errors.New("encryption failed")
)

// CapacityError carries the limit and the actual payload size so callers can
// pick a larger image or a shorter message.
type CapacityError struct {
	MaxBytes int
	Size     int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%v: max capacity %d bytes, message size %d bytes", ErrCapacityExceeded, e.MaxBytes, e.Size)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}
