package cryptox_test

import (
	"strings"
	"testing"

	"github.com/kushistore/storefront/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := cryptox.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotContains(t, hash, "correct horse")

	require.NoError(t, cryptox.VerifyPassword("correct horse battery staple", hash))
	require.ErrorIs(t,
		cryptox.VerifyPassword("wrong password", hash),
		cryptox.ErrPasswordMismatch,
	)
}

func TestHashPasswordEmbedsCost(t *testing.T) {
	t.Parallel()

	hash, err := cryptox.HashPassword("secret1")
	require.NoError(t, err)
	// bcrypt hashes encode the cost as $2a$12$...
	require.True(t, strings.HasPrefix(hash, "$2a$12$"), "unexpected prefix: %s", hash)
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	t.Parallel()

	a, err := cryptox.HashPassword("secret1")
	require.NoError(t, err)
	b, err := cryptox.HashPassword("secret1")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestVerifyPasswordGarbageHash(t *testing.T) {
	t.Parallel()

	err := cryptox.VerifyPassword("anything", "not-a-bcrypt-hash")
	require.Error(t, err)
	require.NotErrorIs(t, err, cryptox.ErrPasswordMismatch)
}
