// Package server is a development sealrpc server. It advertises a key on
// GET /discovery, accepts sealed JSON-RPC frames on POST / and dispatches
// them to registered method handlers. Responses go back in the clear.
package server
