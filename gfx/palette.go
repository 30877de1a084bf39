// Package gfx implements the palette/pixel colour transforms and the
// Texture/Sprite/Graphic lump codecs (spec.md §4.3/§4.4): 16-bit packed
// colour conversions, the four in-memory graphic shapes, and their PNG
// adapters. No third-party imaging library appears anywhere in the
// retrieved pack, so PNG encoding/decoding is done with the standard
// library's image/png, the same way the teacher reaches for stdlib where
// nothing in its own dependency set covers a concern.
package gfx

import "encoding/binary"

// RGBA is a single 32-bit colour, alpha-last, matching image/color.RGBA's
// field order so conversions to/from image.Image are a direct copy.
type RGBA struct {
	R, G, B, A uint8
}

// Unpack16 expands a 5/5/5/1 little-endian packed colour (r bits 11..15,
// g bits 6..10, b bits 1..5, a bit 0) into an 8-bit-per-channel RGBA by
// replicating the top 3 bits of each 5-bit channel into its low bits.
func Unpack16(v uint16) RGBA {
	r5 := uint8(v>>11) & 0x1F
	g5 := uint8(v>>6) & 0x1F
	b5 := uint8(v>>1) & 0x1F
	a := uint8(0)
	if v&1 != 0 {
		a = 255
	}
	return RGBA{
		R: expand5(r5),
		G: expand5(g5),
		B: expand5(b5),
		A: a,
	}
}

func expand5(c5 uint8) uint8 {
	return (c5 << 3) | (c5 >> 2)
}

// PackRGB16 packs an 8-bit RGB triple into 5/5/5/1, with the alpha bit
// always set (fully opaque) — used when repacking a plain 24-bit palette
// source (e.g. a .PAL file) that carries no alpha channel of its own.
func PackRGB16(r, g, b uint8) uint16 {
	return pack16(r, g, b, 1)
}

// PackRGBA16 packs an 8-bit RGBA quad into 5/5/5/1; the alpha bit is set
// iff a >= 128.
func PackRGBA16(r, g, b, a uint8) uint16 {
	abit := uint16(0)
	if a >= 128 {
		abit = 1
	}
	return pack16(r, g, b, abit)
}

func pack16(r, g, b uint8, abit uint16) uint16 {
	r5 := uint16(r >> 3)
	g5 := uint16(g >> 3)
	b5 := uint16(b >> 3)
	return (r5 << 11) | (g5 << 6) | (b5 << 1) | abit
}

// paletteHeaderSize is the 8-byte on-disk palette header: two skipped
// bytes, a fixed 0x01 marker at offset 2, and zero padding out to offset 8.
const paletteHeaderSize = 8

// PaletteSize is the number of colour entries a full on-disk palette
// lump holds.
const PaletteSize = 256

// DecodePalette reads an on-disk palette lump (8-byte header followed by
// up to 256 16-bit entries) into an in-memory RGBA array. Shorter sources
// yield fewer entries, per spec.
func DecodePalette(data []byte) ([]RGBA, error) {
	if len(data) < paletteHeaderSize {
		return nil, ErrTruncatedPalette{Len: len(data)}
	}
	body := data[paletteHeaderSize:]
	n := len(body) / 2
	if n > PaletteSize {
		n = PaletteSize
	}
	out := make([]RGBA, n)
	for i := 0; i < n; i++ {
		v := binary.LittleEndian.Uint16(body[i*2:])
		out[i] = Unpack16(v)
	}
	return out, nil
}

// EncodePalette serializes an in-memory palette back to its on-disk form.
func EncodePalette(colors []RGBA) []byte {
	out := make([]byte, paletteHeaderSize+len(colors)*2)
	out[2] = 0x01
	for i, c := range colors {
		v := PackRGBA16(c.R, c.G, c.B, c.A)
		binary.LittleEndian.PutUint16(out[paletteHeaderSize+i*2:], v)
	}
	return out
}

// DecodeRawPalette reads a plain 256-entry 24-bit RGB palette (as found in
// a .PAL source file with no on-disk header of its own) and repacks it
// into the in-memory RGBA form, per spec.md §4.5 layer 5.
func DecodeRawPalette(data []byte) []RGBA {
	n := len(data) / 3
	out := make([]RGBA, n)
	for i := 0; i < n; i++ {
		out[i] = RGBA{R: data[i*3], G: data[i*3+1], B: data[i*3+2], A: 255}
	}
	return out
}

// ErrTruncatedPalette indicates a palette lump shorter than the fixed
// 8-byte header.
type ErrTruncatedPalette struct {
	Len int
}

func (e ErrTruncatedPalette) Error() string {
	return "gfx: truncated palette lump"
}
