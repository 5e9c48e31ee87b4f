// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import "testing"

// Known SHA-256 vectors.
const (
	emptyHex = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	abcHex   = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
)

func TestSum(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"empty", nil, emptyHex},
		{"abc", []byte("abc"), abcHex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(Sum(tt.data)); got != tt.want {
				t.Errorf("Sum(%q) = %s, want %s", tt.data, got, tt.want)
			}
		})
	}
}

func TestParseRoundtrip(t *testing.T) {
	d := Sum([]byte("roundtrip"))
	parsed, err := Parse(Format(d))
	if err != nil {
		t.Fatalf("Parse(Format(d)) failed: %v", err)
	}
	if parsed != d {
		t.Error("Parse(Format(d)) != d")
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	for _, input := range []string{"", "zz", "abcd", abcHex + "00"} {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) should fail", input)
		}
	}
}

func TestStreamMatchesSum(t *testing.T) {
	stream := NewStream()
	stream.Write([]byte("hello "))
	stream.Write(nil)
	stream.Write([]byte("world"))

	if got, want := stream.Sum(), Sum([]byte("hello world")); got != want {
		t.Errorf("incremental digest = %s, want %s", Format(got), Format(want))
	}
}

func TestEmptyStreamIsEmptyStringDigest(t *testing.T) {
	if got := Format(NewStream().Sum()); got != emptyHex {
		t.Errorf("empty stream digest = %s, want %s", got, emptyHex)
	}
}
