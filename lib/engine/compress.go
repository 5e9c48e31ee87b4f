// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/hejhdiss/gxd/lib/archive"
	"github.com/hejhdiss/gxd/lib/codec"
	"github.com/hejhdiss/gxd/lib/digest"
	"github.com/hejhdiss/gxd/lib/layout"
)

// compressResult is one processed block travelling from a worker to
// the placement loop.
type compressResult struct {
	compressed []byte
	raw        []byte
	hash       digest.Digest
	err        error
}

// compressTask pairs a block's source span with the channel its
// result arrives on. Tasks enter the placement queue in id order;
// workers complete them in any order. The done channel is buffered
// with capacity 1, so the worker's send never blocks.
type compressTask struct {
	span layout.Span
	done chan compressResult
}

// Compress reads the source file, partitions it into blocks,
// compresses and digests the blocks on a worker pool, and writes the
// archive. The archive is written to a temporary sibling path and
// renamed into place on success, so a failed request never leaves a
// valid-looking partial archive at the destination.
func Compress(sourcePath, archivePath string, opts CompressOptions) error {
	logger := resolveLogger(opts.Logger)
	registry := resolveRegistry(opts.Registry)

	if opts.BlockSize < 1 {
		return fmt.Errorf("%w: block size %d (minimum 1)",
			archive.ErrInvalidArgument, opts.BlockSize)
	}
	threads, err := resolveThreads(opts.Threads)
	if err != nil {
		return err
	}
	level := opts.Level
	if opts.Algo == codec.Zstd {
		if level == 0 {
			level = DefaultZstdLevel
		}
		if level < codec.MinZstdLevel || level > codec.MaxZstdLevel {
			return fmt.Errorf("%w: zstd level %d out of range [%d, %d]",
				archive.ErrInvalidArgument, level, codec.MinZstdLevel, codec.MaxZstdLevel)
		}
	}
	if !registry.Registered(opts.Algo) {
		return fmt.Errorf("%w: %q", codec.ErrUnsupported, opts.Algo)
	}

	source, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	spans, err := layout.Plan(info.Size(), opts.BlockSize)
	if err != nil {
		return fmt.Errorf("%w: %v", archive.ErrInvalidArgument, err)
	}
	if len(spans) < threads {
		threads = max(len(spans), 1)
	}

	logger.Info("compress",
		"source", sourcePath,
		"archive", archivePath,
		"algo", string(opts.Algo),
		"block_size", opts.BlockSize,
		"blocks", len(spans),
		"threads", threads)

	// The archive is assembled in a temporary file next to the
	// destination and renamed on success.
	temp, err := os.CreateTemp(filepath.Dir(archivePath), filepath.Base(archivePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary archive: %w", err)
	}
	tempPath := temp.Name()
	committed := false
	defer func() {
		if !committed {
			temp.Close()
			os.Remove(tempPath)
		}
	}()

	buffered := bufio.NewWriter(temp)
	writer, err := archive.NewWriter(buffered)
	if err != nil {
		return err
	}

	global := digest.NewStream()
	if err := runCompressPool(source, registry, opts.Algo, level, threads, spans,
		func(result compressResult, origSize int64) error {
			global.Write(result.raw)
			if err := writer.AppendBlock(result.compressed, origSize, result.hash); err != nil {
				return err
			}
			if opts.Progress != nil {
				opts.Progress(writer.BlockCount(), len(spans))
			}
			logger.Debug("block placed",
				"id", writer.BlockCount()-1,
				"orig_size", origSize,
				"size", len(result.compressed))
			return nil
		}); err != nil {
		return err
	}

	if err := writer.Finalize(opts.Algo, global.Sum()); err != nil {
		return err
	}
	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("flushing archive: %w", err)
	}
	if err := temp.Sync(); err != nil {
		return fmt.Errorf("syncing archive: %w", err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	if err := os.Rename(tempPath, archivePath); err != nil {
		return fmt.Errorf("placing archive: %w", err)
	}
	committed = true
	return nil
}

// runCompressPool processes spans on a worker pool and hands results
// to place in ascending id order. Workers complete out of order; the
// ordered task queue imposes placement order. The queue's capacity
// bounds the in-flight data to roughly threads blocks beyond the ones
// being compressed.
func runCompressPool(source *os.File, registry *codec.Registry, algo codec.Algorithm,
	level, threads int, spans []layout.Span,
	place func(result compressResult, origSize int64) error) error {

	group, ctx := errgroup.WithContext(context.Background())

	jobs := make(chan *compressTask)
	ordered := make(chan *compressTask, threads)

	// Dispatcher: enqueue each span for the workers and, in the same
	// order, for the placement loop. The send into ordered blocks
	// when the placement loop falls behind, bounding memory.
	group.Go(func() error {
		defer close(jobs)
		defer close(ordered)
		for i := range spans {
			task := &compressTask{
				span: spans[i],
				done: make(chan compressResult, 1),
			}
			select {
			case ordered <- task:
			case <-ctx.Done():
				return ctx.Err()
			}
			select {
			case jobs <- task:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	// Workers: read the span's slice from the source, digest, and
	// compress. Reads use absolute offsets, so workers share the
	// source handle without coordination.
	for range threads {
		group.Go(func() error {
			for task := range jobs {
				result := processSpan(source, registry, algo, level, task.span)
				task.done <- result
				if result.err != nil {
					// Cancel the request; the group surfaces the first
					// error returned by any of its goroutines.
					return result.err
				}
			}
			return nil
		})
	}

	// Placement loop: drain tasks in dispatch order, waiting for each
	// task's worker to finish it.
	group.Go(func() error {
		for task := range ordered {
			var result compressResult
			select {
			case result = <-task.done:
			case <-ctx.Done():
				return ctx.Err()
			}
			if result.err != nil {
				return result.err
			}
			if err := place(result, task.span.Length); err != nil {
				return err
			}
		}
		return nil
	})

	return group.Wait()
}

// processSpan reads, digests, and compresses one block.
func processSpan(source *os.File, registry *codec.Registry, algo codec.Algorithm,
	level int, span layout.Span) compressResult {

	raw := make([]byte, span.Length)
	if n, err := source.ReadAt(raw, span.Offset); n < len(raw) {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return compressResult{err: fmt.Errorf("reading block %d source slice: %w", span.ID, err)}
	}

	compressed, err := registry.Encode(algo, level, raw)
	if err != nil {
		return compressResult{err: fmt.Errorf("compressing block %d: %w", span.ID, err)}
	}

	return compressResult{
		compressed: compressed,
		raw:        raw,
		hash:       digest.Sum(raw),
	}
}
