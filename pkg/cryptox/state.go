package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// StateTokenLength is the default length for OAuth2 CSRF state tokens.
const StateTokenLength = 32

// stateTokenAlphabet restricts state tokens to characters that survive URL
// encoding unchanged.
const stateTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateStateToken creates a cryptographically secure random token drawn
// from the [A-Za-z0-9] alphabet, for use as the CSRF state parameter in the
// OAuth2 authorization code flow.
func GenerateStateToken(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", length)
	}

	alphabetSize := big.NewInt(int64(len(stateTokenAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate random token: %w", err)
		}
		buf[i] = stateTokenAlphabet[n.Int64()]
	}

	return string(buf), nil
}
