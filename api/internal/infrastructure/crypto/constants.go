package crypto

const (
	// SaltSize is the size of the per-envelope PBKDF2 salt in bytes.
	SaltSize = 32
	// IVSize is the size of the AES-CBC initialization vector in bytes.
	IVSize = 16
	// KeySize is the size of the derived AES-256 key in bytes.
	KeySize = 32
	// Iterations is the PBKDF2-HMAC-SHA1 iteration count.
	Iterations = 100_000

	headerSize = SaltSize + IVSize
)
