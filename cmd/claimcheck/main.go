package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Harshitk-cp/claimcheck/internal/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		if errors.Is(err, cli.ErrConflictsFound) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
