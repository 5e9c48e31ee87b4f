// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"bytes"
	"testing"
)

func TestTextWriterPassesValidText(t *testing.T) {
	var out bytes.Buffer
	text := NewTextWriter(&out)

	chunks := []string{"Hello ", "GXD ", "Text Mode"}
	for _, chunk := range chunks {
		n, err := text.Write([]byte(chunk))
		if err != nil {
			t.Fatalf("Write(%q) failed: %v", chunk, err)
		}
		if n != len(chunk) {
			t.Errorf("Write(%q) = %d, want %d", chunk, n, len(chunk))
		}
	}
	if err := text.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if out.String() != "Hello GXD Text Mode" {
		t.Errorf("output = %q", out.String())
	}
}

func TestTextWriterHandlesSplitRunes(t *testing.T) {
	// "héllo wörld" with every multi-byte rune split across writes.
	input := []byte("héllo wörld")
	var out bytes.Buffer
	text := NewTextWriter(&out)

	for i := range input {
		if _, err := text.Write(input[i : i+1]); err != nil {
			t.Fatalf("Write at byte %d failed: %v", i, err)
		}
	}
	if err := text.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !bytes.Equal(out.Bytes(), input) {
		t.Errorf("output = %q, want %q", out.Bytes(), input)
	}
}

func TestTextWriterRejectsInvalidUTF8(t *testing.T) {
	var out bytes.Buffer
	text := NewTextWriter(&out)

	if _, err := text.Write([]byte{0xFF, 0xFE, 0x41}); err == nil {
		t.Error("Write of invalid UTF-8 should fail")
	}
}

func TestTextWriterRejectsTruncatedRune(t *testing.T) {
	var out bytes.Buffer
	text := NewTextWriter(&out)

	// First two bytes of a three-byte rune, never completed.
	if _, err := text.Write([]byte{0xE2, 0x82}); err != nil {
		t.Fatalf("Write of rune prefix failed: %v", err)
	}
	if err := text.Close(); err == nil {
		t.Error("Close with a pending incomplete rune should fail")
	}
}

func TestTextWriterEmpty(t *testing.T) {
	var out bytes.Buffer
	text := NewTextWriter(&out)
	if _, err := text.Write(nil); err != nil {
		t.Fatalf("Write(nil) failed: %v", err)
	}
	if err := text.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("output = %q, want empty", out.String())
	}
}
