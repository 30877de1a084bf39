package lzss_test

import (
	"bytes"
	"testing"

	"github.com/n64iwad/d64wad/compress/lzss"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	cases := [][]byte{
		[]byte("ABABABABABAB"),
		[]byte(""),
		[]byte("a single byte stream with no repeats at all 1234567890"),
		bytes.Repeat([]byte{0x42}, 500),
		[]byte("the quick brown fox jumps over the lazy dog, the quick brown fox jumps again"),
	}

	for _, input := range cases {
		encoded := lzss.Encode(input)
		decoded, err := lzss.Decode(encoded, len(input))
		if err != nil {
			t.Fatalf("Decode(%q): %v", input, err)
		}
		if !bytes.Equal(decoded, input) {
			t.Fatalf("round trip mismatch: got %q, want %q", decoded, input)
		}
	}
}

// S1: encoding a short, highly repetitive input shrinks it and terminates
// with the length==1 sentinel, a back-reference codeword of two zero bytes.
func TestEncodeShrinksRepetitiveInput(t *testing.T) {
	t.Parallel()

	input := []byte("ABABABABABAB")
	encoded := lzss.Encode(input)

	if len(encoded) >= len(input) {
		t.Errorf("encoded length %d not shorter than input length %d", len(encoded), len(input))
	}
	if !bytes.Equal(encoded[len(encoded)-2:], []byte{0, 0}) {
		t.Errorf("encoded stream does not end in two zero bytes: %x", encoded)
	}

	decoded, err := lzss.Decode(encoded, len(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, input) {
		t.Fatalf("got %q, want %q", decoded, input)
	}
}

// S2: a literal "A" followed immediately by the end-of-stream back-reference.
func TestDecodeLiteralThenTerminator(t *testing.T) {
	t.Parallel()

	// control byte 0b00000010: bit 0 (codeword 0, LSB first) is a literal
	// ('A'); bit 1 (codeword 1) is a back-reference with b1=0, b2=0 ->
	// pos=0, len=(0&0xF)+1=1 -> stop.
	stream := []byte{0x02, 'A', 0x00, 0x00}
	decoded, err := lzss.Decode(stream, 1)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, []byte("A")) {
		t.Fatalf("got %q, want %q", decoded, "A")
	}
}

func TestDecodeTruncated(t *testing.T) {
	t.Parallel()

	_, err := lzss.Decode([]byte{0x01}, 0)
	if err == nil {
		t.Fatal("expected error for truncated input")
	}
}

func TestDecodeInvalidBackref(t *testing.T) {
	t.Parallel()

	// control byte 0b00000001: first codeword is a back-reference (len=2)
	// before any output exists, so it underflows the empty buffer.
	_, err := lzss.Decode([]byte{0x01, 0x00, 0x21}, 0)
	if err == nil {
		t.Fatal("expected error for out-of-range back-reference")
	}
}
