package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Low work factor to keep the tests fast.
func newTestHasher() PasswordHasher {
	return NewPasswordHasher(8192, 1, 1)
}

func TestPasswordHasher_Hash(t *testing.T) {
	hasher := newTestHasher()

	digest, err := hasher.Hash("sw0rdfish!")
	require.NoError(t, err)
	assert.NotEqual(t, "sw0rdfish!", digest)

	// A fresh salt means a fresh digest every time.
	second, err := hasher.Hash("sw0rdfish!")
	require.NoError(t, err)
	assert.NotEqual(t, digest, second)
}

func TestPasswordHasher_Verify(t *testing.T) {
	hasher := newTestHasher()

	digest, err := hasher.Hash("sw0rdfish!")
	require.NoError(t, err)

	assert.True(t, hasher.Verify("sw0rdfish!", digest))
	assert.False(t, hasher.Verify("sw0rdfish", digest))
	assert.False(t, hasher.Verify("", digest))
}

func TestPasswordHasher_VerifyMalformedDigest(t *testing.T) {
	hasher := newTestHasher()

	tests := []struct {
		name   string
		digest string
	}{
		{name: "empty", digest: ""},
		{name: "not a digest", digest: "plaintext"},
		{name: "truncated", digest: "$argon2id$v=19$m=8192,t=1,p=1$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, hasher.Verify("sw0rdfish!", tt.digest))
		})
	}
}
