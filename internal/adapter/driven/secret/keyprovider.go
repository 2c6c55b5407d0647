// Package secret implements the ciphers that protect the database credential
// stored in the configuration file.
package secret

import (
	"bytes"
	"crypto/aes"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32

	// LegacyKeyString is the key string that existing configuration files were
	// sealed with. Changing it makes every stored credential unreadable.
	LegacyKeyString = "LunaWorld2024SecretKey32B"
)

// KeyProvider supplies the key material for a cipher. Ciphers ask for it on
// every operation so the source can be swapped without touching callers.
type KeyProvider interface {
	// Key returns the 32-byte AES-256 key.
	Key() []byte
	// IV returns the 16-byte initialization vector used by the legacy scheme.
	IV() []byte
}

// StaticKey is a process-constant KeyProvider with an all-zero IV.
type StaticKey struct {
	key [KeySize]byte
}

// NewStaticKey derives key material from s: its UTF-8 bytes, right-padded with
// spaces and truncated to exactly 32 bytes.
func NewStaticKey(s string) StaticKey {
	var k StaticKey
	padded := append([]byte(s), bytes.Repeat([]byte{' '}, KeySize)...)
	copy(k.key[:], padded[:KeySize])
	return k
}

// Key returns a copy of the derived key.
func (k StaticKey) Key() []byte {
	out := make([]byte, KeySize)
	copy(out, k.key[:])
	return out
}

// IV returns 16 zero bytes.
func (k StaticKey) IV() []byte {
	return make([]byte, aes.BlockSize)
}
