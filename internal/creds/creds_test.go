package creds

import (
	"crypto/rand"
	"encoding/base64"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := testKey(t)
	in := File{APIKey: "api-key-123", AuthToken: "auth-token-456"}

	sealed, err := Seal(key, in)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "api-key-123")

	out, err := Open(key, sealed)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestOpen_WrongKey(t *testing.T) {
	sealed, err := Seal(testKey(t), File{APIKey: "a", AuthToken: "b"})
	require.NoError(t, err)

	_, err = Open(testKey(t), sealed)
	assert.Error(t, err)
}

func TestOpen_Garbage(t *testing.T) {
	key := testKey(t)

	_, err := Open(key, "not base64 !!!")
	assert.Error(t, err)

	_, err = Open(key, base64.RawStdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	key := testKey(t)
	path := filepath.Join(t.TempDir(), "creds")
	in := File{APIKey: "k", AuthToken: "t"}

	require.NoError(t, Save(path, key, in))

	out, err := Load(path, key)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"), testKey(t))
	assert.Error(t, err)
}

func TestKeyFromEnv(t *testing.T) {
	key := testKey(t)

	t.Setenv("TEST_CRED_KEY", base64.StdEncoding.EncodeToString(key))
	got, err := KeyFromEnv("TEST_CRED_KEY")
	require.NoError(t, err)
	assert.Equal(t, key, got)

	// raw (unpadded) base64 also accepted
	t.Setenv("TEST_CRED_KEY", base64.RawStdEncoding.EncodeToString(key))
	got, err = KeyFromEnv("TEST_CRED_KEY")
	require.NoError(t, err)
	assert.Equal(t, key, got)
}

func TestKeyFromEnv_Errors(t *testing.T) {
	t.Setenv("TEST_CRED_KEY", "")
	_, err := KeyFromEnv("TEST_CRED_KEY")
	assert.Error(t, err)

	t.Setenv("TEST_CRED_KEY", "???")
	_, err = KeyFromEnv("TEST_CRED_KEY")
	assert.Error(t, err)

	t.Setenv("TEST_CRED_KEY", base64.StdEncoding.EncodeToString([]byte("too short")))
	_, err = KeyFromEnv("TEST_CRED_KEY")
	assert.Error(t, err)
}
