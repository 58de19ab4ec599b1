package main

import (
	"fmt"
	"os"

	"github.com/handiism/goprocat/internal/config"
	"github.com/handiism/goprocat/internal/tui"
)

func main() {
	settings, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
