package main

import (
	"os"

	"github.com/ajiwo/dynstore/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
