package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ericfisherdev/dbsession/internal/domain/port/driven"
)

// GCMPrefix marks values sealed with GCM. Standard base64 never contains ':',
// so it cannot collide with a legacy value.
const GCMPrefix = "v2:"

// Compile-time interface satisfaction check.
var _ driven.SecretCipher = (*GCM)(nil)

// GCM seals credentials with AES-256-GCM and a random nonce per value.
type GCM struct {
	keys KeyProvider
	rand io.Reader
}

// NewGCM creates a GCM cipher backed by keys. Only the key is used; the
// provider's IV is ignored.
func NewGCM(keys KeyProvider) *GCM {
	return &GCM{keys: keys, rand: rand.Reader}
}

// Encrypt returns GCMPrefix followed by base64 of nonce || ciphertext || tag.
// Empty input is returned unchanged.
func (g *GCM) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	gcm, err := g.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(g.rand, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return GCMPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt. Values that fail to open are
// returned unchanged with ok == false.
func (g *GCM) Decrypt(ciphertext string) (string, bool) {
	if ciphertext == "" {
		return "", false
	}

	plaintext, err := g.Open(ciphertext)
	if err != nil {
		return ciphertext, false
	}
	return plaintext, true
}

// Open is the strict form of Decrypt and reports why opening failed.
func (g *GCM) Open(ciphertext string) (string, error) {
	encoded, ok := strings.CutPrefix(stripSpace(ciphertext), GCMPrefix)
	if !ok {
		return "", fmt.Errorf("missing %q prefix", GCMPrefix)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	gcm, err := g.aead()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}

	return string(plaintext), nil
}

func (g *GCM) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(g.keys.Key())
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}
