package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/crypto/pbkdf2"

	"github.com/irgordon/stegocrypt/api/internal/core/domain"
)

// PasswordEnvelope implements domain.CryptoService with PBKDF2-derived keys
// and AES-256-CBC. The envelope layout is salt(32) || iv(16) || ciphertext,
// base64 encoded with the standard alphabet so it passes the stego text filter.
//
// There is no authentication tag. A wrong password and a corrupted envelope
// both surface as invalid padding.
type PasswordEnvelope struct {
	entropy io.Reader
}

// NewPasswordEnvelope returns an envelope drawing salts and IVs from crypto/rand.
func NewPasswordEnvelope() *PasswordEnvelope {
	return &PasswordEnvelope{entropy: rand.Reader}
}

// NewPasswordEnvelopeWithEntropy uses r as the source of salts and IVs.
// r must be safe for concurrent use if the envelope is shared.
func NewPasswordEnvelopeWithEntropy(r io.Reader) *PasswordEnvelope {
	return &PasswordEnvelope{entropy: r}
}

var _ domain.CryptoService = (*PasswordEnvelope)(nil)

func (e *PasswordEnvelope) Encrypt(ctx context.Context, plaintext string, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(e.entropy, header); err != nil {
		return "", fmt.Errorf("%w: salt/iv generation: %v", domain.ErrEncryptionFailed, err)
	}
	salt, iv := header[:SaltSize], header[SaltSize:]

	block, err := aes.NewCipher(deriveKey(password, salt))
	if err != nil {
		return "", fmt.Errorf("%w: block cipher: %v", domain.ErrEncryptionFailed, err)
	}

	padded := pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, headerSize+len(padded))
	copy(out, header)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[headerSize:], padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

func (e *PasswordEnvelope) Decrypt(ctx context.Context, envelope string, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return "", domain.ErrDecryptionFailed
	}

	ct := len(data) - headerSize
	if ct < aes.BlockSize || ct%aes.BlockSize != 0 {
		return "", domain.ErrDecryptionFailed
	}
	salt, iv, ciphertext := data[:SaltSize], data[SaltSize:headerSize], data[headerSize:]

	block, err := aes.NewCipher(deriveKey(password, salt))
	if err != nil {
		return "", domain.ErrDecryptionFailed
	}

	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	plain, ok := unpad(plain, aes.BlockSize)
	if !ok || !utf8.Valid(plain) {
		return "", domain.ErrDecryptionFailed
	}
	return string(plain), nil
}

// deriveKey stretches password with PBKDF2-HMAC-SHA1. SHA-1 is the PRF of the
// existing envelope format; changing it breaks every stored image.
func deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, Iterations, KeySize, sha1.New)
}
