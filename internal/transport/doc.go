// Package transport provides the HTTP implementation of domain.Transport.
//
// Two calls exist:
//   - GET <server>/discovery, unauthenticated, returning a JSON-RPC envelope
//     whose result carries the server public key.
//   - POST <server> with an encrypted frame as an application/octet-stream
//     body and the sender public key, lowercase hex, in the Public-Key header.
//
// All requests accept a context for cancellation and deadlines. Non-2xx
// discovery statuses are returned as errors naming the method, URL and
// status. RPC responses are handed back untouched; their schema belongs to
// the application.
package transport
