package channel

import (
	"crypto/cipher"
	"fmt"
	"io"

	"sealrpc/internal/crypto"
	"sealrpc/internal/domain"
)

// Channel is an AEAD bound to one session key. It is safe for concurrent use.
type Channel struct {
	provider crypto.Provider
	aead     cipher.AEAD
}

// New builds a Channel for key. The provider's AEAD must use a 96-bit nonce
// and a 128-bit tag.
func New(provider crypto.Provider, key domain.SessionKey) (*Channel, error) {
	aead, err := provider.NewAEAD(key.Slice())
	if err != nil {
		return nil, fmt.Errorf("channel: %w", err)
	}
	if aead.NonceSize() != domain.NonceSize {
		return nil, fmt.Errorf("channel: %s nonce is %d bytes, want %d",
			provider.Cipher(), aead.NonceSize(), domain.NonceSize)
	}
	if aead.Overhead() != domain.TagSize {
		return nil, fmt.Errorf("channel: %s tag is %d bytes, want %d",
			provider.Cipher(), aead.Overhead(), domain.TagSize)
	}
	return &Channel{provider: provider, aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random nonce.
func (c *Channel) Encrypt(plaintext []byte) (domain.EncryptedFrame, error) {
	out := make([]byte, domain.NonceSize, domain.NonceSize+len(plaintext)+domain.TagSize)
	if _, err := io.ReadFull(c.provider.Random(), out); err != nil {
		return nil, fmt.Errorf("channel: nonce: %w", err)
	}
	return domain.EncryptedFrame(c.aead.Seal(out, out[:domain.NonceSize], plaintext, nil)), nil
}

// Decrypt opens frame. Short frames and tag mismatches both fail with
// domain.ErrAuthentication.
func (c *Channel) Decrypt(frame domain.EncryptedFrame) ([]byte, error) {
	if len(frame) < domain.NonceSize+domain.TagSize {
		return nil, fmt.Errorf("%w: frame is %d bytes", domain.ErrAuthentication, len(frame))
	}
	pt, err := c.aead.Open(nil, frame.Nonce(), frame.Sealed(), nil)
	if err != nil {
		return nil, domain.ErrAuthentication
	}
	return pt, nil
}

// Encrypt is the one-shot form of Channel.Encrypt.
func Encrypt(provider crypto.Provider, key domain.SessionKey, plaintext []byte) (domain.EncryptedFrame, error) {
	c, err := New(provider, key)
	if err != nil {
		return nil, err
	}
	return c.Encrypt(plaintext)
}

// Decrypt is the one-shot form of Channel.Decrypt.
func Decrypt(provider crypto.Provider, key domain.SessionKey, frame domain.EncryptedFrame) ([]byte, error) {
	c, err := New(provider, key)
	if err != nil {
		return nil, err
	}
	return c.Decrypt(frame)
}
