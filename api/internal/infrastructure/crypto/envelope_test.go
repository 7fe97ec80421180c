package crypto_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irgordon/stegocrypt/api/internal/core/domain"
	"github.com/irgordon/stegocrypt/api/internal/infrastructure/crypto"
)

// ==============================================================================
// 1. Fundamental Correctness
// ==============================================================================

func TestEnvelope_EncryptDecrypt_RoundTrip(t *testing.T) {
	env := crypto.NewPasswordEnvelope()
	ctx := context.Background()

	cases := map[string]string{
		"ascii":   "This is a secret message for testing encryption!",
		"unicode": "Testing: 你好 мир 🌍 emoji & symbols!",
		"empty":   "",
		"aligned": strings.Repeat("x", 32),
	}
	for name, plaintext := range cases {
		t.Run(name, func(t *testing.T) {
			blob, err := env.Encrypt(ctx, plaintext, "SuperSecretPassword123")
			require.NoError(t, err)

			got, err := env.Decrypt(ctx, blob, "SuperSecretPassword123")
			require.NoError(t, err)
			assert.Equal(t, plaintext, got)
		})
	}
}

func TestEnvelope_Layout(t *testing.T) {
	entropy := bytes.Repeat([]byte{0xA5}, crypto.SaltSize+crypto.IVSize)
	env := crypto.NewPasswordEnvelopeWithEntropy(bytes.NewReader(entropy))

	blob, err := env.Encrypt(context.Background(), "secret", "pw123")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)

	// "secret" pads to a single AES block.
	require.Len(t, raw, crypto.SaltSize+crypto.IVSize+16)
	assert.Equal(t, entropy[:crypto.SaltSize], raw[:crypto.SaltSize])
	assert.Equal(t, entropy[crypto.SaltSize:], raw[crypto.SaltSize:crypto.SaltSize+crypto.IVSize])

	got, err := crypto.NewPasswordEnvelope().Decrypt(context.Background(), blob, "pw123")
	require.NoError(t, err)
	assert.Equal(t, "secret", got)
}

// Envelope built outside Go: salt 0x00..0x1f, iv 0x40..0x4f,
// key = PBKDF2-HMAC-SHA1("pw123", salt, 100000, 32), AES-256-CBC("secret").
const knownEnvelope = "AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh9AQUJDREVGR0hJSktMTU5PraVf3HRUiHFwdPWyJymi8Q=="

func TestEnvelope_DecryptKnownVector(t *testing.T) {
	env := crypto.NewPasswordEnvelope()

	got, err := env.Decrypt(context.Background(), knownEnvelope, "pw123")
	require.NoError(t, err)
	assert.Equal(t, "secret", got)

	_, err = env.Decrypt(context.Background(), knownEnvelope, "pw124")
	assert.ErrorIs(t, err, domain.ErrDecryptionFailed)
}

func TestEnvelope_EncryptMatchesKnownVector(t *testing.T) {
	raw, err := base64.StdEncoding.DecodeString(knownEnvelope)
	require.NoError(t, err)

	env := crypto.NewPasswordEnvelopeWithEntropy(bytes.NewReader(raw[:crypto.SaltSize+crypto.IVSize]))
	blob, err := env.Encrypt(context.Background(), "secret", "pw123")
	require.NoError(t, err)
	assert.Equal(t, knownEnvelope, blob)
}

// ==============================================================================
// 2. Salt/IV Freshness
// ==============================================================================

func TestEnvelope_FreshSaltAndIV(t *testing.T) {
	env := crypto.NewPasswordEnvelope()
	ctx := context.Background()

	first, err := env.Encrypt(ctx, "secret", "pw123")
	require.NoError(t, err)
	second, err := env.Encrypt(ctx, "secret", "pw123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	for _, blob := range []string{first, second} {
		got, err := env.Decrypt(ctx, blob, "pw123")
		require.NoError(t, err)
		assert.Equal(t, "secret", got)
	}
}

func TestEnvelope_ConcurrentEncrypt(t *testing.T) {
	env := crypto.NewPasswordEnvelope()
	ctx := context.Background()

	const workers = 8
	blobs := make([]string, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			blob, err := env.Encrypt(ctx, "identical-plaintext", "same-password")
			assert.NoError(t, err)
			blobs[i] = blob
		}()
	}
	wg.Wait()

	seen := make(map[string]bool, workers)
	for _, blob := range blobs {
		assert.False(t, seen[blob], "salt/iv reuse detected")
		seen[blob] = true
	}
}

// ==============================================================================
// 3. Rejection
// ==============================================================================

func TestEnvelope_WrongPassword(t *testing.T) {
	env := crypto.NewPasswordEnvelope()
	ctx := context.Background()

	blob, err := env.Encrypt(ctx, "Top secret information! Meet at midnight.", "MySecretKey456")
	require.NoError(t, err)

	_, err = env.Decrypt(ctx, blob, "WrongPassword")
	assert.ErrorIs(t, err, domain.ErrDecryptionFailed)
}

func TestEnvelope_CorruptedInput(t *testing.T) {
	env := crypto.NewPasswordEnvelope()
	ctx := context.Background()

	blob, err := env.Encrypt(ctx, "sensitive-data", "pw")
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)

	cases := map[string]string{
		"not base64":  "%%% not base64 %%%",
		"plaintext":   "hello world",
		"header only": base64.StdEncoding.EncodeToString(raw[:crypto.SaltSize+crypto.IVSize]),
		"misaligned":  base64.StdEncoding.EncodeToString(raw[:len(raw)-3]),
		"empty":       "",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.Decrypt(ctx, input, "pw")
			assert.ErrorIs(t, err, domain.ErrDecryptionFailed)
		})
	}
}

func TestEnvelope_DecryptErrorHidesInternals(t *testing.T) {
	_, err := crypto.NewPasswordEnvelope().Decrypt(context.Background(), "AAAA", "pw")
	require.Error(t, err)
	assert.Equal(t, domain.ErrDecryptionFailed.Error(), err.Error())
}

func TestEnvelope_EntropyFailure(t *testing.T) {
	env := crypto.NewPasswordEnvelopeWithEntropy(iotest.ErrReader(errors.New("entropy exhausted")))

	_, err := env.Encrypt(context.Background(), "secret", "pw")
	assert.ErrorIs(t, err, domain.ErrEncryptionFailed)
}

func TestEnvelope_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := crypto.NewPasswordEnvelope().Encrypt(ctx, "secret", "pw")
	assert.ErrorIs(t, err, context.Canceled)
}
