// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

// Package engine implements the archive operations: compress,
// decompress, and random-access seek. Each call is synchronous — it
// returns only after the entire request has been satisfied or has
// failed — and runs its block work on a bounded worker pool.
package engine

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/hejhdiss/gxd/lib/archive"
	"github.com/hejhdiss/gxd/lib/codec"
	"github.com/hejhdiss/gxd/lib/progress"
)

// Worker pool bounds. The default width is the host's logical core
// count, clamped to this range; explicit requests outside it are
// rejected.
const (
	MinThreads = 1
	MaxThreads = 128
)

// DefaultZstdLevel is used when a zstd compression request does not
// specify a level.
const DefaultZstdLevel = 3

// CompressOptions configures a compress request.
type CompressOptions struct {
	// Algo selects the compression algorithm.
	Algo codec.Algorithm

	// Level is the zstd compression level in [1, 22]. Zero selects
	// DefaultZstdLevel. Non-zstd algorithms ignore it.
	Level int

	// BlockSize is the original-byte size of every block except
	// possibly the last. Must be at least 1.
	BlockSize int64

	// Threads is the worker pool width. Zero selects the host's
	// logical core count clamped to [MinThreads, MaxThreads].
	Threads int

	// Verify is accepted for interface symmetry with decompression
	// and ignored: the format requires a hash per block, so digests
	// are always computed at write time.
	Verify bool

	// Registry supplies the codecs. Nil selects the default registry
	// with all algorithms enabled.
	Registry *codec.Registry

	// Logger receives request- and block-level events. Nil discards.
	Logger *slog.Logger

	// Progress, if non-nil, is called after each block is placed,
	// with the number of completed blocks and the total.
	Progress progress.Func
}

// DecompressOptions configures a full decompression request.
type DecompressOptions struct {
	// Threads is the worker pool width. Zero selects the default.
	Threads int

	// VerifyBlocks enables per-block digest verification and, for
	// full decompression, the rolling global hash check.
	VerifyBlocks bool

	// Registry supplies the codecs. Nil selects the default registry.
	Registry *codec.Registry

	// Logger receives request- and block-level events. Nil discards.
	Logger *slog.Logger

	// Progress, if non-nil, is called after each block is emitted.
	Progress progress.Func
}

// SeekOptions configures a random-access range request.
type SeekOptions struct {
	// Offset is the logical byte offset of the first requested byte.
	// Must be non-negative. Offsets at or past the end of the payload
	// yield empty output, not an error.
	Offset int64

	// Length is the number of requested bytes. Negative means "to end
	// of payload". The request is truncated at the payload end.
	Length int64

	// Threads is the worker pool width. Zero selects the default.
	Threads int

	// VerifyBlocks enables per-block digest verification. The global
	// hash is never checked on a range request.
	VerifyBlocks bool

	// Registry supplies the codecs. Nil selects the default registry.
	Registry *codec.Registry

	// Logger receives request- and block-level events. Nil discards.
	Logger *slog.Logger

	// Progress, if non-nil, is called after each covered block is
	// emitted.
	Progress progress.Func
}

// resolveThreads applies the default and validates the range.
func resolveThreads(threads int) (int, error) {
	if threads == 0 {
		threads = runtime.NumCPU()
		if threads < MinThreads {
			threads = MinThreads
		}
		if threads > MaxThreads {
			threads = MaxThreads
		}
		return threads, nil
	}
	if threads < MinThreads || threads > MaxThreads {
		return 0, fmt.Errorf("%w: threads %d out of range [%d, %d]",
			archive.ErrInvalidArgument, threads, MinThreads, MaxThreads)
	}
	return threads, nil
}

func resolveRegistry(registry *codec.Registry) *codec.Registry {
	if registry == nil {
		return codec.DefaultRegistry()
	}
	return registry
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

// Sink is the destination of decompressed bytes. Chunks arrive in
// ascending block id order, contiguous and in original order within a
// block. io.Writer satisfies it directly; TextWriter adds UTF-8
// validation.
type Sink = io.Writer
