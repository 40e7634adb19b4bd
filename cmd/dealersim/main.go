package main

import (
	"os"

	"github.com/rustyeddy/dealersim/cmd/dealersim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
