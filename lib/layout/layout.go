// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

// Package layout computes block boundaries: the write-path partition
// of the source into fixed-size blocks, and the read-path mapping of
// a logical byte range onto the minimal covering set of blocks.
package layout

import "fmt"

// Span describes one block's slice of the source stream on the write
// path. Every block but the last has Length equal to the configured
// block size.
type Span struct {
	// ID is the block identifier, dense from 0 in source order.
	ID int

	// Offset is the slice's byte offset in the source.
	Offset int64

	// Length is the slice's byte length, in [1, block size].
	Length int64
}

// Plan partitions totalSize bytes into blockSize-sized spans. Empty
// input produces an empty plan (the writer then emits an archive with
// no blocks).
func Plan(totalSize, blockSize int64) ([]Span, error) {
	if blockSize < 1 {
		return nil, fmt.Errorf("block size %d is invalid (minimum 1)", blockSize)
	}
	if totalSize < 0 {
		return nil, fmt.Errorf("total size %d is negative", totalSize)
	}

	spans := make([]Span, 0, (totalSize+blockSize-1)/blockSize)
	for offset := int64(0); offset < totalSize; offset += blockSize {
		length := blockSize
		if remaining := totalSize - offset; remaining < length {
			length = remaining
		}
		spans = append(spans, Span{
			ID:     len(spans),
			Offset: offset,
			Length: length,
		})
	}
	return spans, nil
}

// SeekPlan is the covering block range and the intra-block trims that
// realise a [offset, offset+length) byte request. An empty plan
// (Empty set, no block ids) means the request starts at or past the
// end of the payload, or asks for zero bytes, and yields zero bytes.
type SeekPlan struct {
	// First is the id of the first covered block.
	First int

	// Last is the id of the last covered block (inclusive).
	Last int

	// SkipFirst is the number of bytes to drop from the start of the
	// first block's decoded output.
	SkipFirst int64

	// KeepLast is the number of bytes to keep from the start of the
	// last block's decoded output. When First == Last the two trims
	// compose: the result is decoded[SkipFirst:KeepLast].
	KeepLast int64

	// Empty is true when the request covers no blocks.
	Empty bool
}

// BlockIDs returns the covered block ids in ascending order.
func (p SeekPlan) BlockIDs() []int {
	if p.Empty {
		return nil
	}
	ids := make([]int, 0, p.Last-p.First+1)
	for id := p.First; id <= p.Last; id++ {
		ids = append(ids, id)
	}
	return ids
}

// PlanSeek maps the logical request [offset, offset+length) onto the
// blocks whose original sizes are given in id order. A negative
// length means "to end of payload". Requests starting at or beyond
// the end of the payload produce an empty plan, not an error: tail
// reads are permissive.
func PlanSeek(offset, length int64, origSizes []int64) (SeekPlan, error) {
	if offset < 0 {
		return SeekPlan{}, fmt.Errorf("offset %d is negative", offset)
	}

	// Cumulative original offsets: cumulative[i] is the logical offset
	// of block i's first byte; cumulative[n] is the payload size.
	cumulative := make([]int64, len(origSizes)+1)
	for i, size := range origSizes {
		cumulative[i+1] = cumulative[i] + size
	}
	payloadSize := cumulative[len(origSizes)]

	end := payloadSize
	if length >= 0 {
		if requested := offset + length; requested < end {
			end = requested
		}
	}

	if offset >= payloadSize || end <= offset {
		return SeekPlan{Empty: true}, nil
	}

	// Find the covering range. Blocks are small in number relative to
	// their size; a linear scan over the cumulative table is cheap and
	// avoids an off-by-one-prone binary search.
	first := 0
	for cumulative[first+1] <= offset {
		first++
	}
	last := first
	for cumulative[last+1] < end {
		last++
	}

	return SeekPlan{
		First:     first,
		Last:      last,
		SkipFirst: offset - cumulative[first],
		KeepLast:  end - cumulative[last],
	}, nil
}
