package types

import "errors"

var errIdentityNotSerializable = errors.New("client identity is not serializable")

// ClientIdentity is the client's keypair. It lives only in memory for the
// lifetime of one client instance.
type ClientIdentity struct {
	Curve   CurveName
	Private PrivateKey
	Public  PublicKey
}

// MarshalJSON refuses to encode the identity so the private scalar can never
// leak through a log line or a store.
func (ClientIdentity) MarshalJSON() ([]byte, error) {
	return nil, errIdentityNotSerializable
}

// ServerIdentity is a server public key that has passed confirmation.
type ServerIdentity struct {
	URL          string    `json:"url"`
	Curve        CurveName `json:"curve"`
	PublicKey    PublicKey `json:"pubkey"`
	ConfirmedUTC int64     `json:"confirmed_utc"`
}

// DiscoveryResult is the untrusted key advertised by a server.
type DiscoveryResult struct {
	PublicKey PublicKey `json:"pubkey"`
}
