// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec maps archive compression algorithm tags to their
// encode/decode implementations. A Registry is populated at process
// start from a configuration enumerating the recognized algorithms;
// a tag that is absent from the registry fails with ErrUnsupported at
// use time rather than at startup.
package codec

import (
	"errors"
	"fmt"
)

// Algorithm identifies the compression algorithm of an archive. The
// string values are protocol constants — they are stored verbatim in
// the footer's `algo` field.
type Algorithm string

// The recognized algorithms.
const (
	Zstd   Algorithm = "zstd"
	LZ4    Algorithm = "lz4"
	Brotli Algorithm = "brotli"
	None   Algorithm = "none"
)

// Effect describes how an algorithm consumes encode parameters.
type Effect string

// The recognized effects.
const (
	// EffectLevelTaking algorithms consume the integer level
	// parameter. Only zstd has this effect.
	EffectLevelTaking Effect = "level-taking"

	// EffectStateless algorithms ignore the level parameter.
	EffectStateless Effect = "stateless"

	// EffectIdentity passes bytes through unchanged.
	EffectIdentity Effect = "identity"
)

// Errors reported by the registry and the codecs.
var (
	// ErrUnsupported indicates a requested algorithm tag that is not
	// registered — either unknown entirely or disabled by the registry
	// configuration.
	ErrUnsupported = errors.New("unsupported algorithm")

	// ErrMalformed indicates the codec rejected its compressed input.
	ErrMalformed = errors.New("malformed compressed data")
)

// Zstd levels accepted by Encode.
const (
	MinZstdLevel = 1
	MaxZstdLevel = 22
)

// ParseAlgorithm parses an algorithm tag from its string form.
// Unknown tags fail with ErrUnsupported.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case Zstd, LZ4, Brotli, None:
		return Algorithm(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupported, name)
	}
}

// entry holds one registered algorithm's implementation.
type entry struct {
	effect Effect
	encode func(level int, data []byte) ([]byte, error)
	decode func(data []byte) ([]byte, error)
}

// Registry maps algorithm tags to encode/decode pairs. A Registry is
// immutable after construction and safe for concurrent use.
type Registry struct {
	entries map[Algorithm]entry
}

// Encode compresses data with the named algorithm. The level is
// consumed only by level-taking algorithms (zstd, which requires it
// in [MinZstdLevel, MaxZstdLevel]); stateless and identity algorithms
// ignore it.
func (r *Registry) Encode(algo Algorithm, level int, data []byte) ([]byte, error) {
	e, ok := r.entries[algo]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, algo)
	}
	return e.encode(level, data)
}

// Decode decompresses data with the named algorithm. Malformed input
// fails with an error wrapping ErrMalformed.
func (r *Registry) Decode(algo Algorithm, data []byte) ([]byte, error) {
	e, ok := r.entries[algo]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, algo)
	}
	return e.decode(data)
}

// Registered reports whether the algorithm is available in this
// registry.
func (r *Registry) Registered(algo Algorithm) bool {
	_, ok := r.entries[algo]
	return ok
}

// Effect returns the registered effect of the algorithm.
func (r *Registry) Effect(algo Algorithm) (Effect, error) {
	e, ok := r.entries[algo]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, algo)
	}
	return e.effect, nil
}

// implementations maps each recognized algorithm to its compiled-in
// implementation. The registry configuration selects which of these
// are registered; it cannot introduce algorithms that have no
// implementation here.
var implementations = map[Algorithm]entry{
	Zstd: {
		effect: EffectLevelTaking,
		encode: encodeZstd,
		decode: decodeZstd,
	},
	LZ4: {
		effect: EffectStateless,
		encode: encodeLZ4,
		decode: decodeLZ4,
	},
	Brotli: {
		effect: EffectStateless,
		encode: encodeBrotli,
		decode: decodeBrotli,
	},
	None: {
		effect: EffectIdentity,
		encode: func(_ int, data []byte) ([]byte, error) { return data, nil },
		decode: func(data []byte) ([]byte, error) { return data, nil },
	},
}
