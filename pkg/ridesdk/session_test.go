package ridesdk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	t.Parallel()

	t.Run("requires a credential", func(t *testing.T) {
		_, err := NewSession(nil)

		var stateErr *IllegalStateError
		require.ErrorAs(t, err, &stateErr)
		require.EqualError(t, err, "session must have OAuth 2.0 credentials")
	})

	t.Run("holds the credential and Bearer token type", func(t *testing.T) {
		cred := &Credential{
			AccessToken: "access-1",
			ExpiresAt:   time.Now().Add(time.Hour),
			GrantType:   GrantClientCredentials,
		}

		session, err := NewSession(cred)
		require.NoError(t, err)
		require.Same(t, cred, session.Credential())
		require.Equal(t, "Bearer", session.TokenType())
	})
}
