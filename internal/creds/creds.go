// Package creds stores the captured Resy session credentials sealed at
// rest, so the API key and auth token never sit on disk in the clear.
package creds

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// File holds the session credentials the fetch dependency needs.
type File struct {
	APIKey    string `json:"api_key"`
	AuthToken string `json:"auth_token"`
}

// KeySize is the required encryption key length in bytes.
const KeySize = chacha20poly1305.KeySize

// Seal encrypts f with an XChaCha20-Poly1305 AEAD. Output is
// base64(nonce || ciphertext).
func Seal(key []byte, f File) (string, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", err
	}
	pt, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	ct := aead.Seal(nil, nonce, pt, nil)
	return base64.RawStdEncoding.EncodeToString(append(nonce, ct...)), nil
}

// Open reverses Seal.
func Open(key []byte, sealed string) (File, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return File{}, err
	}
	buf, err := base64.RawStdEncoding.DecodeString(strings.TrimSpace(sealed))
	if err != nil {
		return File{}, err
	}
	ns := aead.NonceSize()
	if len(buf) < ns {
		return File{}, fmt.Errorf("sealed credentials too short")
	}
	pt, err := aead.Open(nil, buf[:ns], buf[ns:], nil)
	if err != nil {
		return File{}, fmt.Errorf("decrypt credentials: %w", err)
	}
	var f File
	if err := json.Unmarshal(pt, &f); err != nil {
		return File{}, err
	}
	return f, nil
}

// Save seals f and writes it to path, readable by the owner only.
func Save(path string, key []byte, f File) error {
	sealed, err := Seal(key, f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(sealed+"\n"), 0o600)
}

// Load reads and unseals the credentials at path.
func Load(path string, key []byte) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	return Open(key, string(b))
}

// KeyFromEnv decodes the base64 key in the named environment variable.
func KeyFromEnv(name string) ([]byte, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return nil, fmt.Errorf("%s is required (base64)", name)
	}
	b, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(v)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(b) != KeySize {
		return nil, fmt.Errorf("%s must decode to %d bytes (got %d)", name, KeySize, len(b))
	}
	return b, nil
}
