package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// CurveName selects the elliptic curve used for identities and ECDH.
type CurveName string

const (
	// CurveP256 is NIST P-256, the curve the wire protocol was defined on.
	CurveP256 CurveName = "p256"
	// CurveSecp256k1 is the Koblitz curve used by Bitcoin and Ethereum.
	CurveSecp256k1 CurveName = "secp256k1"
)

// String returns the string form of the curve name.
func (c CurveName) String() string { return string(c) }

// CipherName selects the AEAD used for frames.
type CipherName string

const (
	// CipherAESGCM is AES-256 in Galois/Counter Mode.
	CipherAESGCM CipherName = "aes-256-gcm"
	// CipherChaCha20Poly1305 is the IETF ChaCha20-Poly1305 construction.
	CipherChaCha20Poly1305 CipherName = "chacha20-poly1305"
)

// String returns the string form of the cipher name.
func (c CipherName) String() string { return string(c) }

// PublicKey is a compressed curve point. It encodes as lowercase hex in JSON
// and on the wire.
type PublicKey []byte

// Hex returns the lowercase hex encoding without prefix.
func (k PublicKey) Hex() string { return hex.EncodeToString(k) }

// String implements fmt.Stringer.
func (k PublicKey) String() string { return k.Hex() }

// Equal reports whether k and o hold the same bytes.
func (k PublicKey) Equal(o PublicKey) bool { return bytes.Equal(k, o) }

// Clone returns a copy that does not alias k.
func (k PublicKey) Clone() PublicKey { return append(PublicKey(nil), k...) }

// MarshalText implements encoding.TextMarshaler.
func (k PublicKey) MarshalText() ([]byte, error) { return []byte(k.Hex()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PublicKey) UnmarshalText(b []byte) error {
	p, err := ParsePublicKeyHex(string(b))
	if err != nil {
		return err
	}
	*k = p
	return nil
}

// ParsePublicKeyHex decodes a hex public key. Only the encoding is checked
// here; whether the bytes form a point on a curve is the curve's concern.
func ParsePublicKeyHex(s string) (PublicKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty public key")
	}
	b, err := hex.DecodeString(strings.ToLower(s))
	if err != nil {
		return nil, fmt.Errorf("public key hex: %w", err)
	}
	return PublicKey(b), nil
}

// PrivateKey is a 32-byte curve scalar.
type PrivateKey []byte

// Slice returns the key as a []byte.
func (k PrivateKey) Slice() []byte { return k }

// SessionKeySize is the length of a derived symmetric key.
const SessionKeySize = 32

// SessionKey is the symmetric key shared by client and server.
type SessionKey [SessionKeySize]byte

// Slice returns the key as a []byte.
func (k *SessionKey) Slice() []byte { return k[:] }
