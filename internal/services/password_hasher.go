package services

import (
	"fmt"

	"github.com/alexedwards/argon2id"
)

type argon2idHasher struct {
	params *argon2id.Params
}

// NewPasswordHasher builds an argon2id hasher with the given work
// factor. Salt and key lengths are fixed; the digest embeds the salt
// and the parameters it was created with.
func NewPasswordHasher(memoryKiB, iterations uint32, parallelism uint8) PasswordHasher {
	return &argon2idHasher{
		params: &argon2id.Params{
			Memory:      memoryKiB,
			Iterations:  iterations,
			Parallelism: parallelism,
			SaltLength:  16,
			KeyLength:   32,
		},
	}
}

func (h *argon2idHasher) Hash(plaintext string) (string, error) {
	digest, err := argon2id.CreateHash(plaintext, h.params)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return digest, nil
}

func (h *argon2idHasher) Verify(plaintext, digest string) bool {
	// A digest that doesn't parse counts as a mismatch.
	match, err := argon2id.ComparePasswordAndHash(plaintext, digest)
	if err != nil {
		return false
	}
	return match
}
