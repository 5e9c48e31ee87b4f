// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/hejhdiss/gxd/internal/cli"
	"github.com/hejhdiss/gxd/lib/engine"
)

func seekCommand() *cli.Command {
	var (
		offset      int64
		length      int64
		outputPath  string
		textMode    bool
		blockVerify bool
		threads     int
		codecConfig string
		verbose     bool
	)

	flags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("seek", pflag.ContinueOnError)
		fs.Int64Var(&offset, "offset", 0, "byte offset of the first requested byte")
		fs.Int64Var(&length, "length", -1, "number of bytes to extract (default: to end)")
		fs.StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
		fs.BoolVar(&textMode, "text", false, "validate output as UTF-8 text")
		fs.BoolVar(&blockVerify, "block-verify", false, "verify covered block hashes")
		fs.IntVar(&threads, "threads", 0, "worker count (default: logical CPUs)")
		fs.StringVar(&codecConfig, "codec-config", "", "codec registry configuration file")
		fs.BoolVar(&verbose, "verbose", false, "log request details to stderr")
		return fs
	}

	return &cli.Command{
		Name:    "seek",
		Summary: "extract a byte range from a GXD archive",
		Usage:   "gxd seek ARCHIVE --offset N [--length N] [flags]",
		Examples: []cli.Example{
			{Description: "print 9 bytes starting at offset 4", Command: "gxd seek data.gxd --offset 4 --length 9 --text"},
		},
		Flags: flags,
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("seek requires an ARCHIVE argument")
			}
			archivePath := args[0]

			logger := newLogger(verbose)

			registry, err := loadRegistry(codecConfig)
			if err != nil {
				return err
			}

			meter, progressFunc := newMeter("extracted")
			if meter != nil {
				defer meter.Finish()
			}

			return writeOutput(outputPath, textMode, func(sink engine.Sink) error {
				return engine.Seek(archivePath, sink, engine.SeekOptions{
					Offset:       offset,
					Length:       length,
					Threads:      threads,
					VerifyBlocks: blockVerify,
					Registry:     registry,
					Logger:       logger,
					Progress:     progressFunc,
				})
			})
		},
	}
}
