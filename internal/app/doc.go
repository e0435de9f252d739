// Package app wires application dependencies for the binaries.
//
// It reads Config from the environment, builds the logger, trust store,
// HTTP transport and metrics from it, and exposes them via the Wire struct
// so commands can dial a server with one call.
package app
