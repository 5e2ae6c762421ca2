package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSalt(t *testing.T) {
	s1 := NewSalt()
	s2 := NewSalt()

	require.Len(t, s1, saltSize)
	assert.NotEqual(t, s1, s2)
}

func TestDeriveKey(t *testing.T) {
	salt := NewSalt()

	k1 := DeriveKey([]byte("password"), salt)
	k2 := DeriveKey([]byte("password"), salt)
	k3 := DeriveKey([]byte("other"), salt)

	require.Len(t, k1, 32)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestCheckVerifier(t *testing.T) {
	salt := NewSalt()
	key := DeriveKey([]byte("password"), salt)
	verifier := MakeVerifier(key)

	t.Run("matching key", func(t *testing.T) {
		candidate := MakeVerifier(DeriveKey([]byte("password"), salt))
		assert.True(t, CheckVerifier(verifier, candidate))
	})

	t.Run("wrong password", func(t *testing.T) {
		candidate := MakeVerifier(DeriveKey([]byte("other"), salt))
		assert.False(t, CheckVerifier(verifier, candidate))
	})

	t.Run("wrong salt", func(t *testing.T) {
		candidate := MakeVerifier(DeriveKey([]byte("password"), NewSalt()))
		assert.False(t, CheckVerifier(verifier, candidate))
	})
}
