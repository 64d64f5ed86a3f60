package main

import (
	"os"

	"github.com/tttiuem2k3/Agent-Interview/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
