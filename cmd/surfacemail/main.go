package main

import (
	"os"

	"github.com/Iron-Ham/surfacemail/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
