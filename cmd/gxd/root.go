// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/hejhdiss/gxd/internal/cli"
	"github.com/hejhdiss/gxd/lib/codec"
	"github.com/hejhdiss/gxd/lib/progress"
	"github.com/hejhdiss/gxd/lib/version"
)

// codecConfigEnv names the environment variable that points at a
// codec registry configuration file when --codec-config is not given.
const codecConfigEnv = "GXD_CODECS"

func app() *cli.App {
	return &cli.App{
		Name:    "gxd",
		Summary: "block-compressed, SHA-256 verified archive tool",
		Commands: []*cli.Command{
			compressCommand(),
			decompressCommand(),
			seekCommand(),
			versionCommand(),
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "print version information",
		Usage:   "gxd version",
		Run: func(args []string) error {
			fmt.Printf("gxd %s\n", version.Number)
			return nil
		},
	}
}

// newLogger creates the CLI's logger: a JSON handler writing to
// stderr, at Info level when verbose and Warn otherwise. It also sets
// the default slog logger so library code logging through slog uses
// the same handler.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// loadRegistry builds the codec registry from an explicit config
// path, the GXD_CODECS environment variable, or the compiled-in
// default, in that order.
func loadRegistry(configPath string) (*codec.Registry, error) {
	if configPath == "" {
		configPath = os.Getenv(codecConfigEnv)
	}
	if configPath == "" {
		return codec.DefaultRegistry(), nil
	}
	cfg, err := codec.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return codec.NewRegistry(cfg)
}

// newMeter returns a terminal progress meter when stderr is a
// terminal, or nil meters when it is not (piped stderr stays clean
// for log scraping).
func newMeter(verb string) (*progress.Meter, progress.Func) {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil, nil
	}
	meter := progress.NewMeter(os.Stderr, verb)
	return meter, meter.Update
}
