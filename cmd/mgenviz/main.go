package main

import (
	"os"

	"github.com/mgenviz/mgenviz/cmd/mgenviz/commands"
)

func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
