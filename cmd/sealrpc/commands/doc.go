// Package commands defines the sealrpc CLI and wires dependencies for subcommands.
//
// Commands
//
//   - discover       Fetch and print the server key fingerprint
//   - fingerprint    Print the fingerprint of a hex public key
//   - call           Establish a secure channel and send one JSON-RPC call
//   - trust forget   Drop the pinned key for the server
//
// # Implementation
//
// The root command reads Config from the environment, applies flag
// overrides and builds an app.Wire (logger, trust store, HTTP client,
// metrics) before any subcommand runs.
package commands
