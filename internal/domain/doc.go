// Package domain defines core data models, contracts and error values shared
// across sealrpc. It contains plain types (wire/state), interfaces and
// sentinel errors only; no package here performs I/O or cryptography.
package domain
