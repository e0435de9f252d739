package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"sealrpc/internal/domain"
)

// GenerateIdentity returns a fresh client keypair on c. A nil random source
// selects crypto/rand. The only failure is the random source itself.
func GenerateIdentity(c Curve, random io.Reader) (domain.ClientIdentity, error) {
	if random == nil {
		random = rand.Reader
	}
	priv, pub, err := c.GenerateKey(random)
	if err != nil {
		return domain.ClientIdentity{}, fmt.Errorf("generate identity: %w", err)
	}
	return domain.ClientIdentity{Curve: c.Name(), Private: priv, Public: pub}, nil
}
