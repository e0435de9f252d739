// Package crypto exposes the primitives behind the sealrpc channel.
//
// Contents
//
//   - Curve backends for identities and ECDH (P256, Secp256k1, CurveByName)
//   - Client identity generation (GenerateIdentity)
//   - Session key agreement: ECDH x-coordinate through HKDF-SHA256 with no
//     salt and no info, 32 bytes out (Agree, DeriveSessionKey)
//   - The random-and-AEAD capability injected into channels (Provider, Suite)
//   - SHA-256 public-key fingerprints for display (Fingerprint, GroupFingerprint)
//
// # Notes
//
// Public keys are compressed points. P-256 also accepts the 65-byte
// uncompressed form on input. Every failure to accept a peer point wraps
// domain.ErrKeyAgreement; no function falls back to a default key.
package crypto
