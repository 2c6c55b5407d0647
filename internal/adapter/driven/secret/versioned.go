package secret

import (
	"fmt"
	"strings"

	"github.com/ericfisherdev/dbsession/internal/domain/port/driven"
)

// Scheme selects the cipher used when sealing new values.
type Scheme string

const (
	SchemeLegacy Scheme = "legacy"
	SchemeGCM    Scheme = "gcm"
)

// ParseScheme validates a scheme name.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(s) {
	case SchemeLegacy, SchemeGCM:
		return Scheme(s), nil
	default:
		return "", fmt.Errorf("unknown seal scheme %q (want %q or %q)", s, SchemeLegacy, SchemeGCM)
	}
}

// Compile-time interface satisfaction check.
var _ driven.SecretCipher = (*Versioned)(nil)

// Versioned reads both formats and seals with the configured scheme.
type Versioned struct {
	legacy *LegacyCBC
	gcm    *GCM
	seal   Scheme
}

// NewVersioned creates a Versioned cipher over keys that seals with seal.
func NewVersioned(keys KeyProvider, seal Scheme) *Versioned {
	return &Versioned{
		legacy: NewLegacyCBC(keys),
		gcm:    NewGCM(keys),
		seal:   seal,
	}
}

// Encrypt seals plaintext with the configured scheme.
func (v *Versioned) Encrypt(plaintext string) (string, error) {
	if v.seal == SchemeGCM {
		return v.gcm.Encrypt(plaintext)
	}
	return v.legacy.Encrypt(plaintext)
}

// Decrypt dispatches on the value's prefix.
func (v *Versioned) Decrypt(ciphertext string) (string, bool) {
	if strings.HasPrefix(stripSpace(ciphertext), GCMPrefix) {
		return v.gcm.Decrypt(ciphertext)
	}
	return v.legacy.Decrypt(ciphertext)
}

// Open is the strict form of Decrypt.
func (v *Versioned) Open(ciphertext string) (string, error) {
	if strings.HasPrefix(stripSpace(ciphertext), GCMPrefix) {
		return v.gcm.Open(ciphertext)
	}
	return v.legacy.Open(ciphertext)
}
