package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "Admin123", hash)

	assert.NoError(t, CheckPassword(hash, "Admin123"))
	assert.ErrorIs(t, CheckPassword(hash, "admin123"), ErrMismatchedPassword)
}

func TestHashPasswordIsSalted(t *testing.T) {
	a, err := HashPassword("same-password")
	require.NoError(t, err)
	b, err := HashPassword("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	assert.ErrorIs(t, CheckPassword("not-a-bcrypt-hash", "whatever"), ErrMismatchedPassword)
}
