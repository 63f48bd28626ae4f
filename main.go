package main

import (
	"os"

	"github.com/ashwin/langmate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
