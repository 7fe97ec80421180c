package domain

import "context"

// CryptoService defines the contract for the password envelope that wraps a
// message before it is embedded.
type CryptoService interface {
	// Encrypt seals plaintext under a key derived from password and returns the
	// self-describing envelope as base64 text.
	Encrypt(ctx context.Context, plaintext string, password string) (string, error)

	// Decrypt opens an envelope produced by Encrypt. A wrong password and a
	// corrupted envelope are indistinguishable and both return ErrDecryptionFailed.
	Decrypt(ctx context.Context, envelope string, password string) (string, error)
}
