package main

import (
	"os"

	"github.com/mkazlouski/adwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
