package main

import (
	"os"

	"github.com/amsmath/ams/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
