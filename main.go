package main

import (
	"os"

	"github.com/kavin/cogniquest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
