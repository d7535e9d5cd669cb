package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasherHashFormat(t *testing.T) {
	hasher := PasswordHasher{Iterations: 1000}

	encoded, err := hasher.Hash("s3cret")
	require.NoError(t, err)

	parts := strings.Split(encoded, "$")
	require.Len(t, parts, 3)
	assert.Equal(t, "pbkdf2:sha256:1000", parts[0])
	assert.Len(t, parts[1], passwordSaltLength)
	assert.Len(t, parts[2], 64)
	assert.NotContains(t, encoded, "s3cret")
}

func TestPasswordHasherSaltsEachHash(t *testing.T) {
	hasher := PasswordHasher{Iterations: 1000}

	first, err := hasher.Hash("same")
	require.NoError(t, err)
	second, err := hasher.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check(first, "same"))
	assert.True(t, hasher.Check(second, "same"))
}

func TestPasswordHasherCheck(t *testing.T) {
	hasher := PasswordHasher{}
	bcryptHash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name    string
		encoded string
	}{
		{
			name:    "werkzeug pbkdf2 sha256",
			encoded: "pbkdf2:sha256:1000$abcdefgh$bc33da7b8f2c3ee31ce46e4e15e1c6f0eccc3ecd2ffe6644c6142a5498aea4f6",
		},
		{
			name:    "werkzeug pbkdf2 sha1",
			encoded: "pbkdf2:sha1:1000$saltsalt$8098b1722e8a740fdabd963322e77adf3d1113d0",
		},
		{
			name:    "werkzeug scrypt",
			encoded: "scrypt:1024:8:1$saltsalt$77f0b9d9db6ec7f9351f18725392fe944857ecd5e655262668db07a7e753af6d65d57d898033b67e7c08854ec20b08dddea0a3135ebad7e68b2928b3cebce475",
		},
		{
			name:    "bcrypt",
			encoded: string(bcryptHash),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, hasher.Check(tt.encoded, "letmein"))
			assert.False(t, hasher.Check(tt.encoded, "letmeout"))
			assert.False(t, hasher.Check(tt.encoded, ""))
		})
	}
}

func TestPasswordHasherRejectsMalformed(t *testing.T) {
	hasher := PasswordHasher{}
	for _, encoded := range []string{
		"",
		"plaintext",
		"pbkdf2:sha256:abc$salt$00",
		"pbkdf2:md5:1000$salt$00",
		"argon2$salt$00",
	} {
		assert.False(t, hasher.Check(encoded, "plaintext"), encoded)
	}
}
