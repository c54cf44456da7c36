package main

import (
	"os"

	"github.com/rustyeddy/monthguard/cmd/monthguard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
