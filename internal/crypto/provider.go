package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"sealrpc/internal/domain"
)

// Provider is the secure-random-and-AEAD capability a channel is built
// with. It is chosen once by the host and injected.
type Provider interface {
	Cipher() domain.CipherName
	Random() io.Reader
	NewAEAD(key []byte) (cipher.AEAD, error)
}

// Suite is the standard Provider.
type Suite struct {
	cipher domain.CipherName
	random io.Reader
}

// NewSuite returns a Suite for the named cipher. A nil random source selects
// crypto/rand; the empty name selects AES-256-GCM.
func NewSuite(name domain.CipherName, random io.Reader) (*Suite, error) {
	if name == "" {
		name = domain.CipherAESGCM
	}
	switch name {
	case domain.CipherAESGCM, domain.CipherChaCha20Poly1305:
	default:
		return nil, fmt.Errorf("unknown cipher %q", name)
	}
	if random == nil {
		random = rand.Reader
	}
	return &Suite{cipher: name, random: random}, nil
}

// DefaultSuite is AES-256-GCM over crypto/rand, the wire protocol default.
func DefaultSuite() *Suite {
	return &Suite{cipher: domain.CipherAESGCM, random: rand.Reader}
}

func (s *Suite) Cipher() domain.CipherName { return s.cipher }

func (s *Suite) Random() io.Reader { return s.random }

func (s *Suite) NewAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != domain.SessionKeySize {
		return nil, fmt.Errorf("aead key must be %d bytes, got %d", domain.SessionKeySize, len(key))
	}
	switch s.cipher {
	case domain.CipherChaCha20Poly1305:
		return chacha20poly1305.New(key)
	default:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	}
}

var _ Provider = (*Suite)(nil)
