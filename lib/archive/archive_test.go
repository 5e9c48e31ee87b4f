// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hejhdiss/gxd/lib/codec"
	"github.com/hejhdiss/gxd/lib/digest"
)

// writeTestArchive builds an archive from raw block payloads (stored
// with the identity codec, so compressed bytes equal original bytes)
// and returns its path.
func writeTestArchive(t *testing.T, blocks [][]byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.gxd")
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	writer, err := NewWriter(file)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	global := digest.NewStream()
	for _, block := range blocks {
		global.Write(block)
		if err := writer.AppendBlock(block, int64(len(block)), digest.Sum(block)); err != nil {
			t.Fatalf("AppendBlock failed: %v", err)
		}
	}
	if err := writer.Finalize(codec.None, global.Sum()); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	return path
}

func TestRoundtrip(t *testing.T) {
	blocks := [][]byte{
		[]byte("ABCD"),
		[]byte("EFGH"),
		[]byte("IJ"),
	}
	path := writeTestArchive(t, blocks)

	reader, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reader.Close()

	if got := reader.BlockCount(); got != 3 {
		t.Fatalf("BlockCount = %d, want 3", got)
	}
	if got := reader.Algo(); got != codec.None {
		t.Errorf("Algo = %q, want none", got)
	}
	if got := reader.PayloadSize(); got != 10 {
		t.Errorf("PayloadSize = %d, want 10", got)
	}

	// Footer stability: dense ids, adjacent blocks starting right
	// after the opening magic.
	expectedStart := int64(len(Magic))
	for i, want := range blocks {
		descriptor, err := reader.Block(i)
		if err != nil {
			t.Fatalf("Block(%d) failed: %v", i, err)
		}
		if descriptor.ID != i {
			t.Errorf("block %d has id %d", i, descriptor.ID)
		}
		if descriptor.Start != expectedStart {
			t.Errorf("block %d starts at %d, want %d", i, descriptor.Start, expectedStart)
		}
		if descriptor.OrigSize != int64(len(want)) {
			t.Errorf("block %d orig_size = %d, want %d", i, descriptor.OrigSize, len(want))
		}
		if descriptor.Hash != digest.Format(digest.Sum(want)) {
			t.Errorf("block %d hash mismatch", i)
		}
		expectedStart += descriptor.Size

		data, err := reader.ReadBlockBytes(i)
		if err != nil {
			t.Fatalf("ReadBlockBytes(%d) failed: %v", i, err)
		}
		if !bytes.Equal(data, want) {
			t.Errorf("block %d payload = %q, want %q", i, data, want)
		}
	}
}

func TestEmptyArchive(t *testing.T) {
	path := writeTestArchive(t, nil)

	reader, err := Open(path)
	if err != nil {
		t.Fatalf("Open of empty archive failed: %v", err)
	}
	defer reader.Close()

	if got := reader.BlockCount(); got != 0 {
		t.Errorf("BlockCount = %d, want 0", got)
	}
	if got := reader.PayloadSize(); got != 0 {
		t.Errorf("PayloadSize = %d, want 0", got)
	}
	if got := reader.GlobalHash(); got != digest.Format(digest.Sum(nil)) {
		t.Errorf("GlobalHash = %s, want digest of empty string", got)
	}
}

// corrupt applies mutate to the archive's bytes and writes them back.
func corrupt(t *testing.T, path string, mutate func(data []byte) []byte) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, mutate(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOpenRejectsCorruptClosingMagic(t *testing.T) {
	path := writeTestArchive(t, [][]byte{[]byte("ABCD")})
	corrupt(t, path, func(data []byte) []byte {
		data[len(data)-3] ^= 0xFF
		return data
	})

	_, err := Open(path)
	if !errors.Is(err, ErrBadMagic) {
		t.Errorf("Open = %v, want ErrBadMagic", err)
	}
}

func TestOpenRejectsCorruptOpeningMagic(t *testing.T) {
	path := writeTestArchive(t, [][]byte{[]byte("ABCD")})
	corrupt(t, path, func(data []byte) []byte {
		data[0] = 'X'
		return data
	})

	_, err := Open(path)
	if !errors.Is(err, ErrBadMagic) {
		t.Errorf("Open = %v, want ErrBadMagic", err)
	}
}

func TestOpenRejectsTruncation(t *testing.T) {
	path := writeTestArchive(t, [][]byte{[]byte("ABCD"), []byte("EFGH")})
	corrupt(t, path, func(data []byte) []byte {
		return data[:len(data)-20]
	})

	_, err := Open(path)
	if !errors.Is(err, ErrBadMagic) && !errors.Is(err, ErrCorruptFooter) {
		t.Errorf("Open of truncated archive = %v, want ErrBadMagic or ErrCorruptFooter", err)
	}
}

func TestOpenRejectsZeroFooterLength(t *testing.T) {
	path := writeTestArchive(t, [][]byte{[]byte("ABCD")})
	corrupt(t, path, func(data []byte) []byte {
		for i := len(data) - 14; i < len(data)-6; i++ {
			data[i] = 0
		}
		return data
	})

	_, err := Open(path)
	if !errors.Is(err, ErrCorruptFooter) {
		t.Errorf("Open = %v, want ErrCorruptFooter", err)
	}
}

func TestOpenRejectsOversizedFooterLength(t *testing.T) {
	path := writeTestArchive(t, [][]byte{[]byte("ABCD")})
	corrupt(t, path, func(data []byte) []byte {
		binary.BigEndian.PutUint64(data[len(data)-14:len(data)-6], 1<<40)
		return data
	})

	_, err := Open(path)
	if !errors.Is(err, ErrCorruptFooter) {
		t.Errorf("Open = %v, want ErrCorruptFooter", err)
	}
}

func TestOpenRejectsInvalidFooterJSON(t *testing.T) {
	path := writeTestArchive(t, [][]byte{[]byte("ABCD")})
	corrupt(t, path, func(data []byte) []byte {
		length := binary.BigEndian.Uint64(data[len(data)-14 : len(data)-6])
		footerStart := len(data) - 14 - int(length)
		data[footerStart] = '?'
		return data
	})

	_, err := Open(path)
	if !errors.Is(err, ErrCorruptFooter) {
		t.Errorf("Open = %v, want ErrCorruptFooter", err)
	}
}

// rewriteFooter replaces the archive's footer JSON, fixing up the
// length field and closing magic.
func rewriteFooter(t *testing.T, path string, edit func(footer []byte) []byte) {
	t.Helper()
	corrupt(t, path, func(data []byte) []byte {
		length := binary.BigEndian.Uint64(data[len(data)-14 : len(data)-6])
		footerStart := len(data) - 14 - int(length)
		newFooter := edit(data[footerStart : len(data)-14])

		var rebuilt bytes.Buffer
		rebuilt.Write(data[:footerStart])
		rebuilt.Write(newFooter)
		var lengthBytes [8]byte
		binary.BigEndian.PutUint64(lengthBytes[:], uint64(len(newFooter)))
		rebuilt.Write(lengthBytes[:])
		rebuilt.WriteString(Magic)
		return rebuilt.Bytes()
	})
}

func TestOpenRejectsUnknownAlgorithm(t *testing.T) {
	path := writeTestArchive(t, [][]byte{[]byte("ABCD")})
	rewriteFooter(t, path, func(footer []byte) []byte {
		return bytes.Replace(footer, []byte(`"algo":"none"`), []byte(`"algo":"ghost-algo"`), 1)
	})

	_, err := Open(path)
	if !errors.Is(err, codec.ErrUnsupported) {
		t.Errorf("Open = %v, want codec.ErrUnsupported", err)
	}
}

func TestOpenRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		find    string
		replace string
	}{
		{"missing algo", `"algo":"none"`, `"algo":""`},
		{"missing version", `"version":"`, `"notversion":"`},
		{"missing global hash", `"global_hash":"`, `"nothash":"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestArchive(t, [][]byte{[]byte("ABCD")})
			rewriteFooter(t, path, func(footer []byte) []byte {
				return bytes.Replace(footer, []byte(tt.find), []byte(tt.replace), 1)
			})

			_, err := Open(path)
			if !errors.Is(err, ErrCorruptFooter) {
				t.Errorf("Open = %v, want ErrCorruptFooter", err)
			}
		})
	}
}

func TestOpenRejectsAdjacencyViolation(t *testing.T) {
	path := writeTestArchive(t, [][]byte{[]byte("ABCD"), []byte("EFGH")})
	rewriteFooter(t, path, func(footer []byte) []byte {
		// Shift the second block's recorded start by one byte.
		return bytes.Replace(footer, []byte(`"start":10`), []byte(`"start":11`), 1)
	})

	_, err := Open(path)
	if !errors.Is(err, ErrCorruptFooter) {
		t.Errorf("Open = %v, want ErrCorruptFooter", err)
	}
}

func TestOpenRejectsTinyFiles(t *testing.T) {
	t.Run("shorter than magic", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tiny.gxd")
		if err := os.WriteFile(path, []byte("GX"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Open(path); !errors.Is(err, ErrBadMagic) {
			t.Errorf("Open = %v, want ErrBadMagic", err)
		}
	})

	t.Run("magic only", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "magiconly.gxd")
		if err := os.WriteFile(path, []byte(Magic), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Open(path); !errors.Is(err, ErrCorruptFooter) {
			t.Errorf("Open = %v, want ErrCorruptFooter", err)
		}
	})
}

func TestWriterRejectsUseAfterFinalize(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := writer.Finalize(codec.None, digest.Sum(nil)); err != nil {
		t.Fatal(err)
	}
	if err := writer.AppendBlock([]byte("late"), 4, digest.Sum([]byte("late"))); err == nil {
		t.Error("AppendBlock after Finalize should fail")
	}
	if err := writer.Finalize(codec.None, digest.Sum(nil)); err == nil {
		t.Error("second Finalize should fail")
	}
}
