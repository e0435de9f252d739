package domain

import "errors"

var (
	// ErrDiscovery is returned when the server key cannot be fetched or parsed.
	ErrDiscovery = errors.New("discovery failed")

	// ErrTrustRejected is returned when the candidate server key was declined.
	ErrTrustRejected = errors.New("server key rejected")

	// ErrKeyAgreement is returned when a key is not a valid curve point.
	ErrKeyAgreement = errors.New("key agreement failed")

	// ErrAuthentication is returned when a frame fails tag verification.
	ErrAuthentication = errors.New("frame authentication failed")

	// ErrNotReady is returned by calls made before trust is established.
	ErrNotReady = errors.New("client not ready")

	// ErrClosed is returned by calls made after Close.
	ErrClosed = errors.New("client closed")

	// ErrBootstrapped is returned when Bootstrap runs a second time.
	ErrBootstrapped = errors.New("client already bootstrapped")
)
