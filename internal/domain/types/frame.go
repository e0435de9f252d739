package types

const (
	// NonceSize is the AEAD nonce length carried at the start of a frame.
	NonceSize = 12
	// TagSize is the AEAD authentication tag length at the end of a frame.
	TagSize = 16
)

// EncryptedFrame is nonce || ciphertext || tag.
type EncryptedFrame []byte

// Nonce returns the leading nonce, or nil if the frame is too short.
func (f EncryptedFrame) Nonce() []byte {
	if len(f) < NonceSize {
		return nil
	}
	return f[:NonceSize]
}

// Sealed returns ciphertext || tag, or nil if the frame is too short.
func (f EncryptedFrame) Sealed() []byte {
	if len(f) < NonceSize {
		return nil
	}
	return f[NonceSize:]
}
