// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

// The gxd command creates, extracts, and randomly accesses GXD
// archives: block-compressed, footer-indexed containers for a single
// byte stream.
package main

import (
	"fmt"
	"os"

	"github.com/hejhdiss/gxd/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, cli.Describe(err))
		os.Exit(1)
	}
}

func run() error {
	return app().Execute(os.Args[1:])
}
