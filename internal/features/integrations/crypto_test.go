package integrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_EncryptToken_RoundTripsWithSameSecret(t *testing.T) {
	ciphertext, err := encryptToken("server-secret", "ghp_example_token_value")
	require.NoError(t, err)
	assert.NotContains(t, ciphertext, "ghp_example")

	plaintext, err := decryptToken("server-secret", ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "ghp_example_token_value", plaintext)
}

func Test_EncryptToken_ProducesUniqueCiphertexts(t *testing.T) {
	first, err := encryptToken("server-secret", "same-token")
	require.NoError(t, err)

	second, err := encryptToken("server-secret", "same-token")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func Test_DecryptToken_FailsWithWrongSecret(t *testing.T) {
	ciphertext, err := encryptToken("server-secret", "ghp_example_token_value")
	require.NoError(t, err)

	_, err = decryptToken("another-secret", ciphertext)
	assert.Error(t, err)
}

func Test_DecryptToken_RejectsMalformedInput(t *testing.T) {
	_, err := decryptToken("server-secret", "not base64!!")
	assert.Error(t, err)

	_, err = decryptToken("server-secret", "c2hvcnQ=")
	assert.Error(t, err)
}
