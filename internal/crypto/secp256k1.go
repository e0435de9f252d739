package crypto

import (
	"errors"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"sealrpc/internal/domain"
)

type secp256k1Curve struct{}

func (secp256k1Curve) Name() domain.CurveName { return domain.CurveSecp256k1 }

func (secp256k1Curve) GenerateKey(rand io.Reader) (domain.PrivateKey, domain.PublicKey, error) {
	k, err := secp256k1.GeneratePrivateKeyFromRand(rand)
	if err != nil {
		return nil, nil, fmt.Errorf("secp256k1 keygen: %w", err)
	}
	defer k.Zero()
	return domain.PrivateKey(k.Serialize()), domain.PublicKey(k.PubKey().SerializeCompressed()), nil
}

func (secp256k1Curve) ValidatePublicKey(pub domain.PublicKey) error {
	if _, err := secp256k1.ParsePubKey(pub); err != nil {
		return fmt.Errorf("secp256k1: %w", err)
	}
	return nil
}

func (secp256k1Curve) SharedSecret(priv domain.PrivateKey, peer domain.PublicKey) ([]byte, error) {
	if len(priv) != 32 {
		return nil, fmt.Errorf("secp256k1 private key: want 32 bytes, got %d", len(priv))
	}
	var s secp256k1.ModNScalar
	if overflow := s.SetByteSlice(priv); overflow || s.IsZero() {
		return nil, errors.New("secp256k1 private key: scalar out of range")
	}
	k := secp256k1.NewPrivateKey(&s)
	defer k.Zero()

	pk, err := secp256k1.ParsePubKey(peer)
	if err != nil {
		return nil, fmt.Errorf("secp256k1: %w", err)
	}
	return secp256k1.GenerateSharedSecret(k, pk), nil
}
