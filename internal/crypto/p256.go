package crypto

import (
	"crypto/ecdh"
	"crypto/elliptic"
	"errors"
	"fmt"
	"io"

	"sealrpc/internal/domain"
)

const (
	p256CoordBytes       = 32
	p256CompressedBytes  = 1 + p256CoordBytes
	p256UncompressedByte = 0x04
)

type p256Curve struct{}

func (p256Curve) Name() domain.CurveName { return domain.CurveP256 }

func (p256Curve) GenerateKey(rand io.Reader) (domain.PrivateKey, domain.PublicKey, error) {
	k, err := ecdh.P256().GenerateKey(rand)
	if err != nil {
		return nil, nil, fmt.Errorf("p256 keygen: %w", err)
	}
	return domain.PrivateKey(k.Bytes()), compressP256(k.PublicKey().Bytes()), nil
}

func (p256Curve) ValidatePublicKey(pub domain.PublicKey) error {
	_, err := decodeP256(pub)
	return err
}

func (p256Curve) SharedSecret(priv domain.PrivateKey, peer domain.PublicKey) ([]byte, error) {
	k, err := ecdh.P256().NewPrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("p256 private key: %w", err)
	}
	pk, err := decodeP256(peer)
	if err != nil {
		return nil, err
	}
	return k.ECDH(pk)
}

// compressP256 turns 0x04 || X || Y into (0x02|parity(Y)) || X.
func compressP256(uncompressed []byte) domain.PublicKey {
	out := make([]byte, p256CompressedBytes)
	out[0] = 0x02 | (uncompressed[len(uncompressed)-1] & 1)
	copy(out[1:], uncompressed[1:1+p256CoordBytes])
	return out
}

func decodeP256(pub []byte) (*ecdh.PublicKey, error) {
	switch {
	case len(pub) == p256CompressedBytes && (pub[0] == 0x02 || pub[0] == 0x03):
		x, y := elliptic.UnmarshalCompressed(elliptic.P256(), pub)
		if x == nil {
			return nil, errors.New("p256: point is not on the curve")
		}
		raw := make([]byte, 1+2*p256CoordBytes)
		raw[0] = p256UncompressedByte
		x.FillBytes(raw[1 : 1+p256CoordBytes])
		y.FillBytes(raw[1+p256CoordBytes:])
		return ecdh.P256().NewPublicKey(raw)
	case len(pub) == 1+2*p256CoordBytes && pub[0] == p256UncompressedByte:
		pk, err := ecdh.P256().NewPublicKey(pub)
		if err != nil {
			return nil, fmt.Errorf("p256: %w", err)
		}
		return pk, nil
	}
	return nil, fmt.Errorf("p256: unsupported public key encoding (%d bytes)", len(pub))
}
