package main

import (
	"os"

	"github.com/scribe-works/scribe/cmd/scribe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
