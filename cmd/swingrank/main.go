package main

import (
	"os"

	"github.com/wonny/swingrank/cmd/swingrank/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
