package security

import (
	"github.com/matthewhartstonge/argon2"
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// Argon2Hasher stores passwords as encoded argon2id hashes. The salt and
// parameters are embedded in the encoded form, so Verify needs no config.
type Argon2Hasher struct {
	config argon2.Config
}

// NewArgon2Hasher creates a hasher with the given argon2 parameters.
func NewArgon2Hasher(config argon2.Config) *Argon2Hasher {
	return &Argon2Hasher{config: config}
}

// DefaultHasher returns a hasher using the library's recommended parameters.
func DefaultHasher() *Argon2Hasher {
	return NewArgon2Hasher(argon2.DefaultConfig())
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	encoded, err := h.config.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

func (h *Argon2Hasher) Verify(password, encodedHash string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}
