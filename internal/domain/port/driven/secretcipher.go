package driven

// SecretCipher seals and recovers the credential stored in the configuration file.
type SecretCipher interface {
	// Encrypt returns the encoded ciphertext for plaintext. Empty input is
	// returned unchanged.
	Encrypt(plaintext string) (string, error)

	// Decrypt recovers the plaintext. ok is false when the input could not be
	// decrypted; the input is then returned unchanged and should be treated as
	// a value that was never encrypted.
	Decrypt(ciphertext string) (plaintext string, ok bool)
}
