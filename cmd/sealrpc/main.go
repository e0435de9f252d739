package main

import (
	"os"

	"sealrpc/cmd/sealrpc/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
