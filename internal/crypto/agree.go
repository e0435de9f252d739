package crypto

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"sealrpc/internal/domain"
	"sealrpc/internal/util/memzero"
)

// Agree computes ECDH between priv and peer on c and derives the session key.
func Agree(c Curve, priv domain.PrivateKey, peer domain.PublicKey) (domain.SessionKey, error) {
	var key domain.SessionKey
	shared, err := c.SharedSecret(priv, peer)
	if err != nil {
		return key, fmt.Errorf("%w: %v", domain.ErrKeyAgreement, err)
	}
	defer memzero.Zero(shared)
	return DeriveKey(shared)
}

// DeriveKey runs HKDF-SHA256 over the shared x-coordinate with no salt and
// no info and returns exactly 32 bytes.
func DeriveKey(shared []byte) (domain.SessionKey, error) {
	var key domain.SessionKey
	if len(shared) == 0 {
		return key, fmt.Errorf("%w: empty shared secret", domain.ErrKeyAgreement)
	}
	rd := hkdf.New(sha256.New, shared, nil, nil)
	if _, err := io.ReadFull(rd, key[:]); err != nil {
		return key, fmt.Errorf("%w: hkdf: %v", domain.ErrKeyAgreement, err)
	}
	return key, nil
}

// DeriveSessionKey derives the key shared between client and server.
func DeriveSessionKey(client domain.ClientIdentity, server domain.ServerIdentity) (domain.SessionKey, error) {
	if server.Curve != "" && server.Curve != client.Curve {
		return domain.SessionKey{}, fmt.Errorf(
			"%w: server key is on %s, client is on %s",
			domain.ErrKeyAgreement, server.Curve, client.Curve,
		)
	}
	c, err := CurveByName(client.Curve)
	if err != nil {
		return domain.SessionKey{}, fmt.Errorf("%w: %v", domain.ErrKeyAgreement, err)
	}
	return Agree(c, client.Private, server.PublicKey)
}
