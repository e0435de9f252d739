// Package main runs the development sealrpc server. It generates a fresh
// keypair at start, advertises it on discovery and answers encrypted
// JSON-RPC calls by echoing their params.
//
// HTTP API
//
//	GET /discovery
//	    {"jsonrpc":"2.0","id":1,"result":{"pubkey":"<hex compressed point>"}}
//
//	POST /
//	    Body is nonce || ciphertext || tag under the key agreed with the
//	    Public-Key header. The response is a plain JSON-RPC response.
//
//	GET /metrics
//	    Prometheus metrics for dispatched calls.
//
// Behaviour
//
//   - Keys live in memory only; every restart presents a new key, so pinned
//     clients will be asked to confirm again.
//   - deploy, execute, transfer, join and split echo their params. Other
//     methods return -32601.
//   - The default listen address is 127.0.0.1:8545 (SEALRPC_LISTEN_ADDR).
//
// This server is for local testing of clients. It is not hardened.
package main
