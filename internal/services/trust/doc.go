// Package trust turns an advertised server key into a trusted one.
//
// Discovery is an unauthenticated read, so whatever it returns is treated as
// attacker controlled. The only trust anchor is the caller-supplied
// domain.ConfirmFunc, typically a human comparing a fingerprint out of band.
// A declined key is wiped and never reaches key agreement or a store.
//
// When a domain.TrustStore is configured, Bootstrap skips confirmation for a
// discovered key that equals the pinned one. A key that differs from its pin
// is put in front of the ConfirmFunc again.
package trust
