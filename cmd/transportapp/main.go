package main

import (
	"os"

	"github.com/einar/transportapp/cmd/transportapp/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
