// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"errors"
	"fmt"
)

// Error kinds shared across the archive engine. Codec-originated
// kinds (unsupported algorithm, malformed compressed data) live in
// lib/codec; I/O failures surface as the underlying error with
// context wrapped around it.
var (
	// ErrBadMagic indicates the opening or closing magic bytes do not
	// match the format signature.
	ErrBadMagic = errors.New("bad archive magic")

	// ErrCorruptFooter indicates the footer is unusable: invalid
	// JSON, missing required fields, an impossible length field, or a
	// block index that violates the adjacency invariants.
	ErrCorruptFooter = errors.New("corrupt archive footer")

	// ErrGlobalHashMismatch indicates the digest of a full
	// decompression does not match the footer's global hash.
	ErrGlobalHashMismatch = errors.New("global hash mismatch")

	// ErrInvalidArgument indicates a caller-supplied parameter is out
	// of range: non-positive block size, negative offset, or a thread
	// count outside the supported range.
	ErrInvalidArgument = errors.New("invalid argument")
)

// BlockHashMismatchError indicates a decoded block's digest differs
// from the descriptor's recorded hash.
type BlockHashMismatchError struct {
	// ID is the failing block's id.
	ID int
}

func (e *BlockHashMismatchError) Error() string {
	return fmt.Sprintf("block %d hash mismatch", e.ID)
}
