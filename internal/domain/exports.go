package domain

import (
	interfaces "sealrpc/internal/domain/interfaces"
	types "sealrpc/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	CurveName       = types.CurveName
	CipherName      = types.CipherName
	PublicKey       = types.PublicKey
	PrivateKey      = types.PrivateKey
	SessionKey      = types.SessionKey
	ClientIdentity  = types.ClientIdentity
	ServerIdentity  = types.ServerIdentity
	DiscoveryResult = types.DiscoveryResult
	EncryptedFrame  = types.EncryptedFrame
	RPCRequest      = types.RPCRequest
	RPCResponse     = types.RPCResponse
	RPCError        = types.RPCError
	State           = types.State
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	TrustStore   = interfaces.TrustStore
	Transport    = interfaces.Transport
	TrustService = interfaces.TrustService
	ConfirmFunc  = interfaces.ConfirmFunc
)

const (
	CurveP256              = types.CurveP256
	CurveSecp256k1         = types.CurveSecp256k1
	CipherAESGCM           = types.CipherAESGCM
	CipherChaCha20Poly1305 = types.CipherChaCha20Poly1305
	SessionKeySize         = types.SessionKeySize
	NonceSize              = types.NonceSize
	TagSize                = types.TagSize
	JSONRPCVersion         = types.JSONRPCVersion

	StateUninitialized      = types.StateUninitialized
	StateTrustPending       = types.StateTrustPending
	StateTrusted            = types.StateTrusted
	StateReady              = types.StateReady
	StateRejected           = types.StateRejected
	StateDiscoveryFailed    = types.StateDiscoveryFailed
	StateKeyAgreementFailed = types.StateKeyAgreementFailed
	StateClosed             = types.StateClosed
)

// ParsePublicKeyHex decodes a hex public key.
func ParsePublicKeyHex(s string) (PublicKey, error) { return types.ParsePublicKeyHex(s) }
