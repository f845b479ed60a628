// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bureau-foundation/warden/cmd/warden/cli"
	"github.com/bureau-foundation/warden/cmd/warden/commands"
)

func main() {
	if err := run(); err != nil {
		os.Exit(report(err))
	}
}

func run() error {
	return commands.Root(os.Stdout, os.Stderr).Execute(os.Args[1:])
}

// report prints err unless the command already wrote its own output,
// and returns the exit code.
func report(err error) int {
	// Commands that print their own output (like conflicts) return an
	// ExitError with the desired exit code. Don't print a redundant
	// "error:" line for those.
	var exit *cli.ExitError
	if errors.As(err, &exit) {
		return exit.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}
