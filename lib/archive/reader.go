// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hejhdiss/gxd/lib/codec"
)

// Reader exposes a validated archive's block index and random-access
// reads of compressed block payloads. The underlying file handle is
// held open for the Reader's lifetime; ReadBlockBytes is safe for
// concurrent use (it reads at absolute offsets), so decode workers
// may share one Reader.
type Reader struct {
	file     *os.File
	fileSize int64
	metadata Metadata
	algo     codec.Algorithm
}

// Open opens an archive and runs the footer location protocol:
// closing magic, footer length sanity, footer JSON, opening magic,
// and block adjacency validation. A failure at any step closes the
// file before returning.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	reader, err := newReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return reader, nil
}

func newReader(file *os.File) (*Reader, error) {
	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}
	fileSize := info.Size()

	// Closing magic. A file too short to hold the magic at all cannot
	// match it either.
	if fileSize < magicSize {
		return nil, fmt.Errorf("%w: file is %d bytes, shorter than the closing magic",
			ErrBadMagic, fileSize)
	}
	var closing [magicSize]byte
	if _, err := file.ReadAt(closing[:], fileSize-magicSize); err != nil {
		return nil, fmt.Errorf("reading closing magic: %w", err)
	}
	if string(closing[:]) != Magic {
		return nil, fmt.Errorf("%w: closing magic is %q", ErrBadMagic, closing[:])
	}

	// Footer length. The minimum well-formed archive is opening magic
	// + footer + trailer; a file that cannot hold the length field has
	// a valid closing magic but nothing else.
	if fileSize < magicSize+trailerSize {
		return nil, fmt.Errorf("%w: file is %d bytes, too short for a footer",
			ErrCorruptFooter, fileSize)
	}
	var lengthBytes [footerLengthSize]byte
	if _, err := file.ReadAt(lengthBytes[:], fileSize-trailerSize); err != nil {
		return nil, fmt.Errorf("reading footer length: %w", err)
	}
	footerLength := binary.BigEndian.Uint64(lengthBytes[:])
	if footerLength == 0 {
		return nil, fmt.Errorf("%w: footer length is zero", ErrCorruptFooter)
	}
	if footerLength > uint64(fileSize-trailerSize) {
		return nil, fmt.Errorf("%w: footer length %d exceeds file capacity",
			ErrCorruptFooter, footerLength)
	}

	// Footer JSON.
	footerStart := fileSize - trailerSize - int64(footerLength)
	footer := make([]byte, footerLength)
	if _, err := file.ReadAt(footer, footerStart); err != nil {
		return nil, fmt.Errorf("reading footer: %w", err)
	}
	var metadata Metadata
	if err := json.Unmarshal(footer, &metadata); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFooter, err)
	}
	if err := metadata.validateFields(); err != nil {
		return nil, err
	}

	// Opening magic.
	var opening [magicSize]byte
	if _, err := file.ReadAt(opening[:], 0); err != nil {
		return nil, fmt.Errorf("reading opening magic: %w", err)
	}
	if string(opening[:]) != Magic {
		return nil, fmt.Errorf("%w: opening magic is %q", ErrBadMagic, opening[:])
	}

	// Block adjacency against the payload region
	// [magicSize, footerStart).
	if err := metadata.validateAdjacency(footerStart); err != nil {
		return nil, err
	}

	algo, err := codec.ParseAlgorithm(metadata.Algo)
	if err != nil {
		return nil, err
	}

	return &Reader{
		file:     file,
		fileSize: fileSize,
		metadata: metadata,
		algo:     algo,
	}, nil
}

// BlockCount returns the number of blocks in the archive.
func (r *Reader) BlockCount() int {
	return len(r.metadata.Blocks)
}

// Block returns the descriptor of block id.
func (r *Reader) Block(id int) (BlockDescriptor, error) {
	if id < 0 || id >= len(r.metadata.Blocks) {
		return BlockDescriptor{}, fmt.Errorf("block id %d out of range [0, %d)",
			id, len(r.metadata.Blocks))
	}
	return r.metadata.Blocks[id], nil
}

// Algo returns the archive's compression algorithm.
func (r *Reader) Algo() codec.Algorithm {
	return r.algo
}

// GlobalHash returns the hex SHA-256 of the original input.
func (r *Reader) GlobalHash() string {
	return r.metadata.GlobalHash
}

// Version returns the writer version recorded in the footer.
func (r *Reader) Version() string {
	return r.metadata.Version
}

// PayloadSize returns the total original input size.
func (r *Reader) PayloadSize() int64 {
	return r.metadata.PayloadSize()
}

// OrigSizes returns each block's original size in id order.
func (r *Reader) OrigSizes() []int64 {
	return r.metadata.OrigSizes()
}

// ReadBlockBytes reads block id's compressed payload. Safe for
// concurrent use.
func (r *Reader) ReadBlockBytes(id int) ([]byte, error) {
	descriptor, err := r.Block(id)
	if err != nil {
		return nil, err
	}
	data := make([]byte, descriptor.Size)
	n, err := r.file.ReadAt(data, descriptor.Start)
	if n < len(data) {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("reading block %d payload: %w", id, err)
	}
	return data, nil
}

// Close releases the archive file handle.
func (r *Reader) Close() error {
	return r.file.Close()
}
