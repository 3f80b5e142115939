package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hash)
	require.True(t, VerifyPassword(hash, "hunter22"))
	require.False(t, VerifyPassword(hash, "hunter23"))
	require.False(t, VerifyPassword("not-a-hash", "hunter22"))

	again, err := HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, hash, again, "salted")
}

func TestHashPasswordCostFallback(t *testing.T) {
	hash, err := HashPassword("pw", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, DefaultBcryptCost, cost)
}

func TestHashToken(t *testing.T) {
	a := HashToken("abc")
	require.Len(t, a, 64)
	require.Equal(t, a, HashToken("abc"))
	require.NotEqual(t, a, HashToken("abd"))
	require.Equal(t, strings.ToLower(a), a)
}
