// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/hejhdiss/gxd/internal/cli"
	"github.com/hejhdiss/gxd/lib/codec"
	"github.com/hejhdiss/gxd/lib/engine"
	"github.com/hejhdiss/gxd/lib/sizeparse"
)

func compressCommand() *cli.Command {
	var (
		algoName    string
		blockSize   string
		zstdRatio   int
		threads     int
		blockVerify bool
		codecConfig string
		verbose     bool
	)

	flags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("compress", pflag.ContinueOnError)
		fs.StringVar(&algoName, "algo", "zstd", "compression algorithm: zstd, lz4, brotli, none")
		fs.StringVar(&blockSize, "block-size", "1mb", "block size (e.g. 256kb, 1mb, 1gb)")
		fs.IntVar(&zstdRatio, "zstd-ratio", 0, "zstd compression level (1-22, zstd only)")
		fs.IntVar(&threads, "threads", 0, "worker count (default: logical CPUs)")
		fs.BoolVar(&blockVerify, "block-verify", false, "accepted for symmetry; block hashes are always written")
		fs.StringVar(&codecConfig, "codec-config", "", "codec registry configuration file")
		fs.BoolVar(&verbose, "verbose", false, "log request details to stderr")
		return fs
	}

	return &cli.Command{
		Name:    "compress",
		Summary: "compress a file into a GXD archive",
		Usage:   "gxd compress SOURCE ARCHIVE [flags]",
		Examples: []cli.Example{
			{Description: "compress with zstd level 19", Command: "gxd compress data.bin data.gxd --algo zstd --zstd-ratio 19"},
			{Description: "4 MB blocks, lz4", Command: "gxd compress data.bin data.gxd --algo lz4 --block-size 4mb"},
		},
		Flags: flags,
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("compress requires SOURCE and ARCHIVE arguments")
			}
			sourcePath, archivePath := args[0], args[1]

			logger := newLogger(verbose)

			algo, err := codec.ParseAlgorithm(algoName)
			if err != nil {
				return err
			}
			size, err := sizeparse.Parse(blockSize)
			if err != nil {
				return fmt.Errorf("--block-size: %w", err)
			}
			if size <= 0 {
				return fmt.Errorf("--block-size must be positive")
			}

			level := 0
			if zstdRatio != 0 {
				if algo == codec.Zstd {
					level = zstdRatio
				} else {
					// Tolerated soft condition: warn and ignore.
					fmt.Fprintf(os.Stderr, "warning: --zstd-ratio ignored with algorithm %q\n", algo)
				}
			}

			registry, err := loadRegistry(codecConfig)
			if err != nil {
				return err
			}

			meter, progressFunc := newMeter("compressed")
			if meter != nil {
				defer meter.Finish()
			}

			return engine.Compress(sourcePath, archivePath, engine.CompressOptions{
				Algo:      algo,
				Level:     level,
				BlockSize: size,
				Threads:   threads,
				Verify:    blockVerify,
				Registry:  registry,
				Logger:    logger,
				Progress:  progressFunc,
			})
		},
	}
}
