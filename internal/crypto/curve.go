package crypto

import (
	"fmt"
	"io"

	"sealrpc/internal/domain"
)

// Curve is one elliptic curve backend. SharedSecret returns only the
// x-coordinate of the shared point, 32 bytes for both supported curves.
type Curve interface {
	Name() domain.CurveName
	GenerateKey(rand io.Reader) (domain.PrivateKey, domain.PublicKey, error)
	ValidatePublicKey(pub domain.PublicKey) error
	SharedSecret(priv domain.PrivateKey, peer domain.PublicKey) ([]byte, error)
}

var (
	// P256 is the NIST P-256 backend.
	P256 Curve = p256Curve{}
	// Secp256k1 is the secp256k1 backend.
	Secp256k1 Curve = secp256k1Curve{}
)

// CurveByName resolves a configured curve name. The empty name selects P256.
func CurveByName(name domain.CurveName) (Curve, error) {
	switch name {
	case "", domain.CurveP256:
		return P256, nil
	case domain.CurveSecp256k1:
		return Secp256k1, nil
	}
	return nil, fmt.Errorf("unknown curve %q", name)
}
