package main

import (
	"os"

	"github.com/etherxppt/deckd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
