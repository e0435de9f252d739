// Package store provides persistence for pinned server identities.
//
// It contains concrete implementations of domain.TrustStore:
//   - MemoryTrustStore, process-local, used by tests and one-shot runs
//   - TrustFileStore, JSON on disk under the configured home directory
//   - TrustFileStore with a passphrase, the same file sealed with
//     scrypt + ChaCha20-Poly1305 so edits to pinned keys are detected
//   - RedisTrustStore, shared pins for a fleet of clients
//
// All implementations are concurrency-safe. Keys are normalised server URLs
// (surrounding space and trailing slashes removed).
package store
