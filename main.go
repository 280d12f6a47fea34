package main

import (
	"os"

	"github.com/jverbeke/pitchplan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
