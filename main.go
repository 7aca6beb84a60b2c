package main

import (
	"os"

	"github.com/vesselkit/seachest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
