// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hejhdiss/gxd/lib/archive"
	"github.com/hejhdiss/gxd/lib/codec"
	"github.com/hejhdiss/gxd/lib/digest"
)

// decodeResult is one decoded block travelling from a worker to the
// emission loop.
type decodeResult struct {
	decoded []byte
	err     error
}

// decodeTask pairs a block id with the channel its result arrives
// on. Tasks enter the emission queue in request order; workers
// complete them in any order.
type decodeTask struct {
	id   int
	done chan decodeResult
}

// runDecodePool decodes the given blocks on a worker pool and hands
// each block's decoded bytes to emit in request order. Verification,
// when enabled, always runs on the full decoded block — callers trim
// afterwards. The first failure cancels outstanding work and is
// returned; later workers' errors are dropped in its favour.
//
// In-flight decoded data is bounded by the ordered queue's capacity:
// at most about threads blocks are decoded ahead of the emission
// loop.
func runDecodePool(reader *archive.Reader, registry *codec.Registry,
	ids []int, verifyBlocks bool, threads int,
	emit func(id int, decoded []byte) error) error {

	if len(ids) == 0 {
		return nil
	}
	if threads > len(ids) {
		threads = len(ids)
	}

	group, ctx := errgroup.WithContext(context.Background())

	jobs := make(chan *decodeTask)
	ordered := make(chan *decodeTask, threads)

	group.Go(func() error {
		defer close(jobs)
		defer close(ordered)
		for _, id := range ids {
			task := &decodeTask{id: id, done: make(chan decodeResult, 1)}
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

	for range threads {
		group.Go(func() error {
			for task := range jobs {
				result := decodeBlock(reader, registry, task.id, verifyBlocks)
				task.done <- result
				if result.err != nil {
					return result.err
				}
			}
			return nil
		})
	}

	group.Go(func() error {
		for task := range ordered {
			var result decodeResult
			select {
			case result = <-task.done:
			case <-ctx.Done():
				return ctx.Err()
			}
			if result.err != nil {
				return result.err
			}
			if err := emit(task.id, result.decoded); err != nil {
				return err
			}
		}
		return nil
	})

	return group.Wait()
}

// decodeBlock reads, decodes, and optionally verifies one block.
func decodeBlock(reader *archive.Reader, registry *codec.Registry,
	id int, verify bool) decodeResult {

	descriptor, err := reader.Block(id)
	if err != nil {
		return decodeResult{err: err}
	}

	compressed, err := reader.ReadBlockBytes(id)
	if err != nil {
		return decodeResult{err: err}
	}

	decoded, err := registry.Decode(reader.Algo(), compressed)
	if err != nil {
		return decodeResult{err: fmt.Errorf("decoding block %d: %w", id, err)}
	}

	if verify {
		want, err := digest.Parse(descriptor.Hash)
		if err != nil {
			// The reader validated descriptor hashes at open; a parse
			// failure here means the descriptor was mutated since.
			return decodeResult{err: fmt.Errorf("%w: block %d hash: %v",
				archive.ErrCorruptFooter, id, err)}
		}
		if digest.Sum(decoded) != want {
			return decodeResult{err: &archive.BlockHashMismatchError{ID: id}}
		}
	}

	return decodeResult{decoded: decoded}
}
