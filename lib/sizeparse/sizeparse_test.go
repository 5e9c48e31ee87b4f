// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

package sizeparse

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"0", 0},
		{"123", 123},
		{"1kb", 1024},
		{"4KB", 4096},
		{"1mb", 1 << 20},
		{"2Mb", 2 << 20},
		{"1gb", 1 << 30},
		{"  8kb  ", 8192},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	for _, input := range []string{"", "kb", "-1", "-4mb", "1tb", "1.5mb", "12x", "9999999999gb"} {
		t.Run(input, func(t *testing.T) {
			if _, err := Parse(input); err == nil {
				t.Errorf("Parse(%q) should fail", input)
			}
		})
	}
}
