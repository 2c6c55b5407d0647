package secret

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ericfisherdev/dbsession/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SecretCipher = (*LegacyCBC)(nil)

var (
	errNotBlockAligned = errors.New("ciphertext is not a whole number of blocks")
	errBadPadding      = errors.New("invalid PKCS#7 padding")
	errNotUTF8         = errors.New("plaintext is not valid UTF-8")
)

// LegacyCBC is the legacy-compatibility scheme: AES-256-CBC with PKCS#7 padding
// and a fixed IV, encoded as standard base64. Encryption is deterministic, so
// equal plaintexts produce equal ciphertexts. It exists to read and write
// credentials sealed by earlier releases; use GCM for anything new.
type LegacyCBC struct {
	keys KeyProvider
}

// NewLegacyCBC creates a LegacyCBC cipher backed by keys.
func NewLegacyCBC(keys KeyProvider) *LegacyCBC {
	return &LegacyCBC{keys: keys}
}

// Encrypt seals plaintext and returns it base64-encoded. Empty input is returned unchanged.
func (c *LegacyCBC) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	block, err := aes.NewCipher(c.keys.Key())
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, c.keys.IV()).CryptBlocks(out, padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt recovers plaintext from a value produced by Encrypt. Anything that
// is not valid ciphertext under the current key is returned unchanged with
// ok == false.
func (c *LegacyCBC) Decrypt(ciphertext string) (string, bool) {
	if ciphertext == "" {
		return "", false
	}

	plaintext, err := c.Open(ciphertext)
	if err != nil {
		return ciphertext, false
	}
	return plaintext, true
}

// Open is the strict form of Decrypt and reports why decryption failed.
func (c *LegacyCBC) Open(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(stripSpace(ciphertext))
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", errNotBlockAligned
	}

	block, err := aes.NewCipher(c.keys.Key())
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}

	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, c.keys.IV()).CryptBlocks(out, data)

	plain, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}
	// Non-UTF-8 output is treated as a failed decrypt rather than returned
	// with replacement characters, so such values take the plaintext fallback.
	if !utf8.Valid(plain) {
		return "", errNotUTF8
	}
	return string(plain), nil
}

// stripSpace drops the ASCII whitespace a hand-edited config file may leave
// around or inside a base64 value.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 {
		return nil, errBadPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, errBadPadding
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, errBadPadding
		}
	}
	return b[:len(b)-n], nil
}
