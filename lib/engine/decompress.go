// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"fmt"

	"github.com/hejhdiss/gxd/lib/archive"
	"github.com/hejhdiss/gxd/lib/codec"
	"github.com/hejhdiss/gxd/lib/digest"
	"github.com/hejhdiss/gxd/lib/layout"
)

// Decompress decodes every block of the archive and writes the
// original stream to sink in order. With VerifyBlocks enabled, each
// block's digest is checked against its descriptor and a rolling
// digest of the emitted bytes is checked against the footer's global
// hash on completion.
func Decompress(archivePath string, sink Sink, opts DecompressOptions) error {
	logger := resolveLogger(opts.Logger)
	registry := resolveRegistry(opts.Registry)

	threads, err := resolveThreads(opts.Threads)
	if err != nil {
		return err
	}

	reader, err := archive.Open(archivePath)
	if err != nil {
		return err
	}
	defer reader.Close()

	if !registry.Registered(reader.Algo()) {
		return fmt.Errorf("%w: %q", codec.ErrUnsupported, reader.Algo())
	}

	total := reader.BlockCount()
	logger.Info("decompress",
		"archive", archivePath,
		"algo", string(reader.Algo()),
		"blocks", total,
		"verify", opts.VerifyBlocks,
		"threads", threads)

	ids := make([]int, total)
	for i := range ids {
		ids[i] = i
	}

	var global *digest.Stream
	if opts.VerifyBlocks {
		global = digest.NewStream()
	}

	emitted := 0
	err = runDecodePool(reader, registry, ids, opts.VerifyBlocks, threads,
		func(id int, decoded []byte) error {
			if global != nil {
				global.Write(decoded)
			}
			if _, err := sink.Write(decoded); err != nil {
				return fmt.Errorf("writing block %d output: %w", id, err)
			}
			emitted++
			if opts.Progress != nil {
				opts.Progress(emitted, total)
			}
			return nil
		})
	if err != nil {
		return err
	}

	if global != nil {
		want, err := digest.Parse(reader.GlobalHash())
		if err != nil {
			return fmt.Errorf("%w: global hash: %v", archive.ErrCorruptFooter, err)
		}
		if global.Sum() != want {
			return archive.ErrGlobalHashMismatch
		}
	}

	return nil
}

// Seek decodes the minimal set of blocks covering the logical range
// [Offset, Offset+Length) and writes exactly those bytes to sink.
// The first and last covered blocks are trimmed after decoding — and
// after verification, which always runs on the full block. Requests
// starting at or past the end of the payload succeed with empty
// output.
func Seek(archivePath string, sink Sink, opts SeekOptions) error {
	logger := resolveLogger(opts.Logger)
	registry := resolveRegistry(opts.Registry)

	if opts.Offset < 0 {
		return fmt.Errorf("%w: offset %d is negative",
			archive.ErrInvalidArgument, opts.Offset)
	}
	threads, err := resolveThreads(opts.Threads)
	if err != nil {
		return err
	}

	reader, err := archive.Open(archivePath)
	if err != nil {
		return err
	}
	defer reader.Close()

	if !registry.Registered(reader.Algo()) {
		return fmt.Errorf("%w: %q", codec.ErrUnsupported, reader.Algo())
	}

	plan, err := layout.PlanSeek(opts.Offset, opts.Length, reader.OrigSizes())
	if err != nil {
		return fmt.Errorf("%w: %v", archive.ErrInvalidArgument, err)
	}

	logger.Info("seek",
		"archive", archivePath,
		"offset", opts.Offset,
		"length", opts.Length,
		"blocks", len(plan.BlockIDs()),
		"threads", threads)

	if plan.Empty {
		return nil
	}

	ids := plan.BlockIDs()
	emitted := 0
	return runDecodePool(reader, registry, ids, opts.VerifyBlocks, threads,
		func(id int, decoded []byte) error {
			slice := decoded
			if id == plan.Last {
				if plan.KeepLast > int64(len(slice)) {
					return fmt.Errorf("%w: block %d decoded to %d bytes, plan keeps %d",
						archive.ErrCorruptFooter, id, len(slice), plan.KeepLast)
				}
				slice = slice[:plan.KeepLast]
			}
			if id == plan.First {
				if plan.SkipFirst > int64(len(slice)) {
					return fmt.Errorf("%w: block %d decoded to %d bytes, plan skips %d",
						archive.ErrCorruptFooter, id, len(slice), plan.SkipFirst)
				}
				slice = slice[plan.SkipFirst:]
			}
			if _, err := sink.Write(slice); err != nil {
				return fmt.Errorf("writing block %d output: %w", id, err)
			}
			emitted++
			if opts.Progress != nil {
				opts.Progress(emitted, len(ids))
			}
			return nil
		})
}
