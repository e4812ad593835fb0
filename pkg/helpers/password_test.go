package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("x")
	require.NoError(t, err)
	assert.NotEqual(t, "x", hash)
	assert.True(t, CompareHashAndPassword(hash, "x"))
	assert.False(t, CompareHashAndPassword(hash, "y"))
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}
