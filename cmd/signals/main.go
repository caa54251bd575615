package main

import (
	"os"

	"github.com/tradevision/signals/cmd/signals/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
