// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/hejhdiss/gxd/internal/cli"
	"github.com/hejhdiss/gxd/lib/engine"
)

func decompressCommand() *cli.Command {
	var (
		outputPath  string
		textMode    bool
		blockVerify bool
		threads     int
		codecConfig string
		verbose     bool
	)

	flags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("decompress", pflag.ContinueOnError)
		fs.StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
		fs.BoolVar(&textMode, "text", false, "validate output as UTF-8 text")
		fs.BoolVar(&blockVerify, "block-verify", false, "verify block and global hashes")
		fs.IntVar(&threads, "threads", 0, "worker count (default: logical CPUs)")
		fs.StringVar(&codecConfig, "codec-config", "", "codec registry configuration file")
		fs.BoolVar(&verbose, "verbose", false, "log request details to stderr")
		return fs
	}

	return &cli.Command{
		Name:    "decompress",
		Summary: "decompress a GXD archive",
		Usage:   "gxd decompress ARCHIVE [flags]",
		Examples: []cli.Example{
			{Description: "extract with integrity verification", Command: "gxd decompress data.gxd -o data.bin --block-verify"},
		},
		Flags: flags,
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("decompress requires an ARCHIVE argument")
			}
			archivePath := args[0]

			logger := newLogger(verbose)

			registry, err := loadRegistry(codecConfig)
			if err != nil {
				return err
			}

			meter, progressFunc := newMeter("decompressed")
			if meter != nil {
				defer meter.Finish()
			}

			return writeOutput(outputPath, textMode, func(sink engine.Sink) error {
				return engine.Decompress(archivePath, sink, engine.DecompressOptions{
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

// writeOutput runs request with a sink for the output path ("" means
// stdout). File output goes to a temporary sibling and is renamed on
// success, so a failed request leaves no partial file behind. Text
// mode wraps the sink in UTF-8 validation.
func writeOutput(outputPath string, textMode bool, request func(sink engine.Sink) error) error {
	var sink engine.Sink
	var commit func() error
	cleanup := func() {}

	if outputPath == "" {
		sink = os.Stdout
		commit = func() error { return nil }
	} else {
		temp, err := os.CreateTemp(filepath.Dir(outputPath), filepath.Base(outputPath)+".tmp-*")
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		tempPath := temp.Name()
		sink = temp
		cleanup = func() {
			temp.Close()
			os.Remove(tempPath)
		}
		commit = func() error {
			if err := temp.Close(); err != nil {
				return fmt.Errorf("closing output: %w", err)
			}
			if err := os.Rename(tempPath, outputPath); err != nil {
				return fmt.Errorf("placing output: %w", err)
			}
			return nil
		}
	}

	var text *engine.TextWriter
	if textMode {
		text = engine.NewTextWriter(sink)
		sink = text
	}

	if err := request(sink); err != nil {
		cleanup()
		return err
	}
	if text != nil {
		if err := text.Close(); err != nil {
			cleanup()
			return err
		}
	}
	if err := commit(); err != nil {
		cleanup()
		return err
	}
	return nil
}
