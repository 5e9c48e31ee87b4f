// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest provides the SHA-256 helpers used throughout the
// archive format: per-block digests over raw (pre-compression) bytes
// and a rolling digest over the whole original stream.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
)

// Digest is a 32-byte SHA-256 digest. Block hashes and the global
// hash are this size.
type Digest [sha256.Size]byte

// Sum computes the SHA-256 digest of data. Block hashes are always
// computed on uncompressed bytes so verification is independent of
// the compression algorithm.
func Sum(data []byte) Digest {
	return sha256.Sum256(data)
}

// Format returns the hex-encoded string representation of a digest.
// This is the canonical format used in footers, logs, and CLI output.
func Format(d Digest) string {
	return hex.EncodeToString(d[:])
}

// Parse parses a 64-character hex string into a Digest.
func Parse(hexString string) (Digest, error) {
	var d Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return d, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != sha256.Size {
		return d, fmt.Errorf("digest is %d bytes, want %d", len(decoded), sha256.Size)
	}
	copy(d[:], decoded)
	return d, nil
}

// Stream computes a digest incrementally over a byte stream. The
// writer path feeds it original block bytes in id order to produce
// the global hash; the full-decompress path feeds it emitted bytes
// to verify the same hash.
type Stream struct {
	h hash.Hash
}

// NewStream creates an empty rolling digest. Its zero-input Sum is
// the SHA-256 of the empty string, which is the global hash of an
// empty archive.
func NewStream() *Stream {
	return &Stream{h: sha256.New()}
}

// Write adds data to the rolling digest. It never fails.
func (s *Stream) Write(data []byte) {
	s.h.Write(data)
}

// Sum returns the digest of all bytes written so far.
func (s *Stream) Sum() Digest {
	var d Digest
	copy(d[:], s.h.Sum(nil))
	return d
}
