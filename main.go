package main

import (
	"os"

	"github.com/fuelops/atgmon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
