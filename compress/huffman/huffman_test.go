package huffman_test

import (
	"testing"

	"github.com/n64iwad/d64wad/compress/huffman"
)

// No encoder exists for this scheme (see package doc), so there is no way
// to generate fixtures in-repo; these tests cover the boundary conditions
// Decode is responsible for on its own.

func TestDecodeEmpty(t *testing.T) {
	t.Parallel()

	out, err := huffman.Decode(nil, 0)
	if err != nil {
		t.Fatalf("Decode(nil): %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %v", out)
	}
}

func TestDecodeTruncated(t *testing.T) {
	t.Parallel()

	// A single zero byte can't walk the tree down to a symbol leaf before
	// bits run out, so this must fail rather than hang or panic.
	_, err := huffman.Decode([]byte{0x00}, 0)
	if err == nil {
		t.Fatal("expected error for truncated input")
	}
}
