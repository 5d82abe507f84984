// Package main provides the entry point for multh.
//
// multh drives the cyclic work pool and the sharded map through their
// scenarios and reports whether their invariants held.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yndnr/multh-go/internal/cli/command"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return command.App().RunContext(context.Background(), os.Args)
}
