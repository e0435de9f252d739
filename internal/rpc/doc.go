// Package rpc builds JSON-RPC 2.0 requests and carries them over a sealed
// channel.
//
// # Calling conventions
//
// Each method is called either positionally (params is a JSON array) or by
// name (params is a JSON object). The choice is a contract with the server,
// recorded in Conventions: deploy, transfer, join and split are positional;
// execute is named. Positional methods accept a struct, map or JSON object
// and send its values in field order, so
//
//	BuildRequest("transfer", struct{To string `json:"to"`; Amount int `json:"amount"`}{"X", 5}, 1)
//
// encodes to {"jsonrpc":"2.0","method":"transfer","params":["X",5],"id":1}.
// Maps have no field order and are rejected for positional methods; pass a
// struct or a json.RawMessage instead.
//
// # Request ids
//
// A Counter assigns 1, 2, 3, ... per client so responses can be correlated.
// StaticID reproduces servers that expect a constant id.
package rpc
