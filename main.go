package main

import (
	"os"

	"github.com/yodaai/yoda/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
