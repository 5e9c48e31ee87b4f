// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

// Package sizeparse parses the CLI's byte-size grammar:
// INT ("" | "kb" | "mb" | "gb"), case-insensitive, in powers of 1024.
package sizeparse

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit multipliers, powers of 1024.
const (
	KB = 1 << 10
	MB = 1 << 20
	GB = 1 << 30
)

// Parse converts a size string to bytes. A bare integer is bytes;
// the suffixes kb, mb, and gb (any case) multiply by powers of 1024.
func Parse(s string) (int64, error) {
	trimmed := strings.TrimSpace(strings.ToLower(s))
	if trimmed == "" {
		return 0, fmt.Errorf("empty size")
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(trimmed, "kb"):
		multiplier = KB
		trimmed = trimmed[:len(trimmed)-2]
	case strings.HasSuffix(trimmed, "mb"):
		multiplier = MB
		trimmed = trimmed[:len(trimmed)-2]
	case strings.HasSuffix(trimmed, "gb"):
		multiplier = GB
		trimmed = trimmed[:len(trimmed)-2]
	}

	value, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("invalid size %q: negative", s)
	}
	if multiplier > 1 && value > (1<<62)/multiplier {
		return 0, fmt.Errorf("invalid size %q: overflows", s)
	}
	return value * multiplier, nil
}
