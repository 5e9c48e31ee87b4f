// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/hejhdiss/gxd/lib/codec"
	"github.com/hejhdiss/gxd/lib/digest"
	"github.com/hejhdiss/gxd/lib/version"
)

// Writer serialises an archive: the opening magic, compressed block
// payloads appended in id order, and the footer with its block index.
//
// Typical usage:
//
//	writer, err := NewWriter(w)
//	writer.AppendBlock(compressed, origSize, blockHash)
//	// ... append remaining blocks in id order ...
//	err = writer.Finalize(algo, globalHash)
//
// The writer tracks archive-absolute offsets itself; w must not be
// written by anyone else during the session. A Writer is single-use
// and not safe for concurrent use — block ordering is the caller's
// contract.
type Writer struct {
	w      io.Writer
	offset int64
	blocks []BlockDescriptor
	done   bool
}

// NewWriter writes the opening magic and returns a writer positioned
// for the first block.
func NewWriter(w io.Writer) (*Writer, error) {
	n, err := io.WriteString(w, Magic)
	if err != nil {
		return nil, fmt.Errorf("writing opening magic: %w", err)
	}
	return &Writer{w: w, offset: int64(n)}, nil
}

// AppendBlock appends the next block's compressed bytes and records
// its descriptor. Blocks must be appended in ascending id order; the
// id is assigned from the append sequence. The blockHash must be the
// SHA-256 of the block's original (pre-compression) bytes.
func (wr *Writer) AppendBlock(compressed []byte, origSize int64, blockHash digest.Digest) error {
	if wr.done {
		return fmt.Errorf("archive already finalized")
	}

	id := len(wr.blocks)
	if _, err := wr.w.Write(compressed); err != nil {
		return fmt.Errorf("writing block %d payload: %w", id, err)
	}

	wr.blocks = append(wr.blocks, BlockDescriptor{
		ID:       id,
		Start:    wr.offset,
		Size:     int64(len(compressed)),
		OrigSize: origSize,
		Hash:     digest.Format(blockHash),
	})
	wr.offset += int64(len(compressed))
	return nil
}

// BlockCount returns the number of blocks appended so far.
func (wr *Writer) BlockCount() int {
	return len(wr.blocks)
}

// Finalize serialises the footer JSON, the 8-byte big-endian footer
// length, and the closing magic. After Finalize the writer rejects
// further appends.
func (wr *Writer) Finalize(algo codec.Algorithm, globalHash digest.Digest) error {
	if wr.done {
		return fmt.Errorf("archive already finalized")
	}
	wr.done = true

	metadata := Metadata{
		Version:    version.String(),
		Algo:       string(algo),
		GlobalHash: digest.Format(globalHash),
		Blocks:     wr.blocks,
	}
	// A nil slice marshals as JSON null; an empty archive must carry
	// "blocks": [].
	if metadata.Blocks == nil {
		metadata.Blocks = []BlockDescriptor{}
	}

	footer, err := json.Marshal(&metadata)
	if err != nil {
		return fmt.Errorf("encoding footer: %w", err)
	}

	if _, err := wr.w.Write(footer); err != nil {
		return fmt.Errorf("writing footer: %w", err)
	}

	var lengthBytes [footerLengthSize]byte
	binary.BigEndian.PutUint64(lengthBytes[:], uint64(len(footer)))
	if _, err := wr.w.Write(lengthBytes[:]); err != nil {
		return fmt.Errorf("writing footer length: %w", err)
	}

	if _, err := io.WriteString(wr.w, Magic); err != nil {
		return fmt.Errorf("writing closing magic: %w", err)
	}

	return nil
}
