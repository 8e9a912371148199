package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	key := DeriveKey("server-secret", "wallet:user1")

	sealed, err := Seal([]byte("some secret key material"), key)
	require.NoError(t, err)

	plaintext, err := Open(sealed, key)
	require.NoError(t, err)
	require.Equal(t, []byte("some secret key material"), plaintext)
}

func TestOpenWithWrongKey(t *testing.T) {
	key := DeriveKey("server-secret", "wallet:user1")
	sealed, err := Seal([]byte("some secret key material"), key)
	require.NoError(t, err)

	_, err = Open(sealed, DeriveKey("server-secret", "wallet:user2"))
	require.Error(t, err)
}

func TestOpenMalformedCiphertext(t *testing.T) {
	key := DeriveKey("server-secret", "wallet:user1")

	_, err := Open("not base64!!", key)
	require.Error(t, err)

	_, err = Open("c2hvcnQ=", key)
	require.Error(t, err)
}
