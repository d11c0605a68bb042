package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"chronoreel/internal/config"
	"chronoreel/internal/daemonrun"
)

func main() {
	// Credentials may live in a local .env during development; missing files
	// are fine.
	_ = godotenv.Load()

	cfg, _, _, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "chronoreeld: %v\n", err)
		os.Exit(1)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{}); err != nil {
		fmt.Fprintf(os.Stderr, "chronoreeld: %v\n", err)
		os.Exit(1)
	}
}
