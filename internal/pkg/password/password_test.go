package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	Cost = bcrypt.MinCost
	defer func() { Cost = DefaultCost }()

	hash, err := Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, Verify("correct horse", hash))
	assert.False(t, Verify("wrong horse", hash))
}

func TestValidatePassword(t *testing.T) {
	assert.False(t, ValidatePassword("short"))
	assert.True(t, ValidatePassword("12345678"))
}

func TestTooLong(t *testing.T) {
	assert.False(t, TooLong(strings.Repeat("a", MaxLength)))
	assert.True(t, TooLong(strings.Repeat("a", MaxLength+1)))
	// multi-byte runes count in bytes
	assert.True(t, TooLong(strings.Repeat("é", 37)))
}
