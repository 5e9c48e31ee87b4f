// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdDecoder is reused across calls to avoid repeated initialization
// overhead. zstd.Decoder is safe for concurrent use via DecodeAll.
var zstdDecoder *zstd.Decoder

// zstdEncoders caches one encoder per compression level. Encoders are
// safe for concurrent use via EncodeAll, and an archive is written
// with a single level, so the cache holds at most a handful of
// entries.
var zstdEncoders sync.Map // int -> *zstd.Encoder

func init() {
	var err error
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("codec: zstd decoder initialization failed: " + err.Error())
	}
}

func zstdEncoderForLevel(level int) (*zstd.Encoder, error) {
	if cached, ok := zstdEncoders.Load(level); ok {
		return cached.(*zstd.Encoder), nil
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
	)
	if err != nil {
		return nil, fmt.Errorf("zstd encoder for level %d: %w", level, err)
	}

	// Another goroutine may have raced the creation; keep whichever
	// landed first and let the loser be collected.
	actual, _ := zstdEncoders.LoadOrStore(level, encoder)
	return actual.(*zstd.Encoder), nil
}

func encodeZstd(level int, data []byte) ([]byte, error) {
	if level < MinZstdLevel || level > MaxZstdLevel {
		return nil, fmt.Errorf("zstd level %d out of range [%d, %d]",
			level, MinZstdLevel, MaxZstdLevel)
	}
	encoder, err := zstdEncoderForLevel(level)
	if err != nil {
		return nil, err
	}
	return encoder.EncodeAll(data, nil), nil
}

func decodeZstd(data []byte) ([]byte, error) {
	result, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrMalformed, err)
	}
	return result, nil
}
