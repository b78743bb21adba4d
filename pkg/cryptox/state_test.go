package cryptox

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateStateToken(t *testing.T) {
	t.Parallel()

	t.Run("default length and alphabet", func(t *testing.T) {
		token, err := GenerateStateToken(StateTokenLength)
		require.NoError(t, err)
		require.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]{32}$`), token)
	})

	t.Run("custom length", func(t *testing.T) {
		token, err := GenerateStateToken(8)
		require.NoError(t, err)
		require.Len(t, token, 8)
	})

	t.Run("rejects non-positive length", func(t *testing.T) {
		_, err := GenerateStateToken(0)
		require.Error(t, err)

		_, err = GenerateStateToken(-1)
		require.Error(t, err)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 100 {
			token, err := GenerateStateToken(StateTokenLength)
			require.NoError(t, err)
			_, dup := seen[token]
			require.False(t, dup)
			seen[token] = struct{}{}
		}
	})
}
