// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive implements the GXD on-disk container: the magic
// framing, the compressed block payload region, and the trailing JSON
// footer with its block index.
//
// Byte layout, concatenated in order:
//
//	6 bytes   ASCII "GXDINC" (opening magic)
//	variable  compressed block payloads, in ascending block id
//	L bytes   UTF-8 JSON footer
//	8 bytes   footer length L, unsigned big-endian
//	6 bytes   ASCII "GXDINC" (closing magic)
//
// An archive with zero blocks is well-formed: the payload region is
// empty, the footer's block list is empty, and the global hash is the
// SHA-256 of the empty string.
package archive

import (
	"fmt"

	"github.com/hejhdiss/gxd/lib/codec"
	"github.com/hejhdiss/gxd/lib/digest"
)

// Format constants. These are protocol constants — changing them
// breaks compatibility with every existing archive.
const (
	// Magic is the 6-byte signature framing the archive at both ends.
	Magic = "GXDINC"

	// magicSize is len(Magic).
	magicSize = 6

	// footerLengthSize is the width of the big-endian footer length
	// field preceding the closing magic.
	footerLengthSize = 8

	// trailerSize is the fixed tail: length field plus closing magic.
	trailerSize = footerLengthSize + magicSize
)

// BlockDescriptor is one footer entry describing a stored block.
type BlockDescriptor struct {
	// ID is the block identifier, dense from 0 in payload order.
	ID int `json:"id"`

	// Start is the archive-absolute byte offset of the compressed
	// block's first byte.
	Start int64 `json:"start"`

	// Size is the compressed length in bytes.
	Size int64 `json:"size"`

	// OrigSize is the original (pre-compression) length in bytes. It
	// equals the archive's block size for every block except possibly
	// the last.
	OrigSize int64 `json:"orig_size"`

	// Hash is the hex-encoded SHA-256 of the original
	// (pre-compression) block bytes.
	Hash string `json:"hash"`
}

// Metadata is the footer JSON document.
type Metadata struct {
	// Version identifies the writer that produced the archive.
	// Readers treat it as opaque.
	Version string `json:"version"`

	// Algo is the compression algorithm of every block. Archives
	// never mix algorithms.
	Algo string `json:"algo"`

	// GlobalHash is the hex SHA-256 of the concatenated original
	// input.
	GlobalHash string `json:"global_hash"`

	// Blocks is the ordered block index.
	Blocks []BlockDescriptor `json:"blocks"`
}

// PayloadSize returns the total original input size: the sum of every
// block's OrigSize.
func (m *Metadata) PayloadSize() int64 {
	var total int64
	for _, b := range m.Blocks {
		total += b.OrigSize
	}
	return total
}

// OrigSizes returns each block's original size in id order.
func (m *Metadata) OrigSizes() []int64 {
	sizes := make([]int64, len(m.Blocks))
	for i, b := range m.Blocks {
		sizes[i] = b.OrigSize
	}
	return sizes
}

// validateFields checks the footer's required fields and algorithm
// tag. It runs before the opening magic check, matching the reader's
// opening protocol.
func (m *Metadata) validateFields() error {
	if m.Version == "" {
		return fmt.Errorf("%w: missing version", ErrCorruptFooter)
	}
	if m.Algo == "" {
		return fmt.Errorf("%w: missing algo", ErrCorruptFooter)
	}
	if _, err := codec.ParseAlgorithm(m.Algo); err != nil {
		// Unknown algorithm is its own error kind, distinct from a
		// structurally broken footer.
		return err
	}
	if m.GlobalHash == "" {
		return fmt.Errorf("%w: missing global hash", ErrCorruptFooter)
	}
	if _, err := digest.Parse(m.GlobalHash); err != nil {
		return fmt.Errorf("%w: global hash: %v", ErrCorruptFooter, err)
	}
	return nil
}

// validateAdjacency checks that the block index is dense, ordered,
// and tiles the payload region exactly. payloadEnd is the
// archive-absolute offset one past the payload region (file size
// minus footer and trailer).
func (m *Metadata) validateAdjacency(payloadEnd int64) error {
	expectedStart := int64(magicSize)
	for i, b := range m.Blocks {
		if b.ID != i {
			return fmt.Errorf("%w: block %d has id %d", ErrCorruptFooter, i, b.ID)
		}
		if b.Size < 0 {
			return fmt.Errorf("%w: block %d has negative size %d", ErrCorruptFooter, i, b.Size)
		}
		if b.OrigSize < 1 {
			return fmt.Errorf("%w: block %d has original size %d (minimum 1)",
				ErrCorruptFooter, i, b.OrigSize)
		}
		if b.Start != expectedStart {
			return fmt.Errorf("%w: block %d starts at %d, want %d",
				ErrCorruptFooter, i, b.Start, expectedStart)
		}
		if _, err := digest.Parse(b.Hash); err != nil {
			return fmt.Errorf("%w: block %d hash: %v", ErrCorruptFooter, i, err)
		}
		expectedStart = b.Start + b.Size
	}
	if expectedStart != payloadEnd {
		return fmt.Errorf("%w: payload ends at %d, file structure requires %d",
			ErrCorruptFooter, expectedStart, payloadEnd)
	}

	return nil
}
