// Package channel seals and opens sealrpc frames.
//
// A frame is nonce || ciphertext || tag under a 32-byte session key. Every
// Encrypt draws a fresh 12-byte nonce from the injected provider's random
// source, so concurrent callers never coordinate. No additional
// authenticated data is used. Decrypt never returns plaintext for a frame
// whose tag does not verify; all such failures wrap domain.ErrAuthentication.
package channel
