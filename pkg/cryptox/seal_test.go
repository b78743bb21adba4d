package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	t.Parallel()

	plaintext := []byte("access_token: super-secret")

	sealed, err := Seal("passphrase-1", plaintext)
	require.NoError(t, err)
	require.NotContains(t, string(sealed), "super-secret")

	opened, err := Open("passphrase-1", sealed)
	require.NoError(t, err)
	require.Equal(t, plaintext, opened)
}

func TestSealProducesFreshCiphertext(t *testing.T) {
	t.Parallel()

	first, err := Seal("passphrase-1", []byte("same input"))
	require.NoError(t, err)
	second, err := Seal("passphrase-1", []byte("same input"))
	require.NoError(t, err)

	// Random salt and nonce per call
	require.NotEqual(t, first, second)
}

func TestOpenRejectsWrongPassphrase(t *testing.T) {
	t.Parallel()

	sealed, err := Seal("passphrase-1", []byte("payload"))
	require.NoError(t, err)

	_, err = Open("passphrase-2", sealed)
	require.Error(t, err)
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	t.Parallel()

	sealed, err := Seal("passphrase-1", []byte("payload"))
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xff
	_, err = Open("passphrase-1", sealed)
	require.Error(t, err)
}

func TestOpenRejectsTruncatedInput(t *testing.T) {
	t.Parallel()

	_, err := Open("passphrase-1", []byte("short"))
	require.Error(t, err)
}
