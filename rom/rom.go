// Package rom ingests a Nintendo 64 cartridge dump (.z64/.v64/.n64) and
// slices out the sub-images the build pipeline needs:
// the IWAD body itself and the WDD/WMD/WSD sound sidecars. It normalizes
// the three N64 dump byte orders the same way the on-disk header magic is
// normalized elsewhere in the toolchain, then validates the result against
// a table of known cartridge layouts before trusting any offset in it.
package rom

import (
	"crypto/sha256"
	"fmt"
	"os"

	dbin "github.com/n64iwad/d64wad/internal/binary"
)

const headerSize = 0x40

// n64Magic is the first four bytes of a big-endian (.z64) N64 ROM header.
var n64Magic = []byte{0x80, 0x37, 0x12, 0x40}

// ErrUnsupported is returned when a ROM's header doesn't match any entry in
// KnownROMs, or the first word doesn't match any recognized byte order.
type ErrUnsupported struct {
	Reason string
}

func (e ErrUnsupported) Error() string {
	return fmt.Sprintf("unsupported ROM: %s", e.Reason)
}

// ErrHashMismatch is returned when a ROM matches a known layout's header
// fields but its SHA-256 digest doesn't match the expected value. This is a
// fatal condition for the caller: the offsets in Layout cannot be trusted
// against a ROM that failed verification.
type ErrHashMismatch struct {
	Got, Want [32]byte
}

func (e ErrHashMismatch) Error() string {
	return fmt.Sprintf("ROM hash mismatch: got %x, want %x", e.Got, e.Want)
}

// Layout describes where the IWAD and its sound sidecars live inside one
// known, verified ROM dump.
type Layout struct {
	Name   string
	SHA256 [32]byte

	WadOffset, WadSize uint32
	WmdOffset, WmdSize uint32
	WsdOffset, WsdSize uint32
	WddOffset, WddSize uint32
}

// KnownROMs is the table of recognized cartridge layouts, keyed implicitly
// by internal ROM name and verified by SHA-256. It is intentionally empty
// of real retail hashes/offsets: those values are proprietary game data that
// this repository does not ship. Callers with a verified dump should
// populate KnownROMs themselves (it is an exported, overridable slice) in
// the same Layout shape used by extract.rs's ROMDATA_US/ROMDATA_US_1/
// ROMDATA_EU/ROMDATA_JP tables.
var KnownROMs []Layout

// byteSwap swaps adjacent byte pairs, undoing .v64 byte-swapping.
func byteSwap(data []byte) []byte {
	out := make([]byte, len(data))
	for i := 0; i+1 < len(data); i += 2 {
		out[i] = data[i+1]
		out[i+1] = data[i]
	}
	return out
}

// wordSwap reverses each group of four bytes, undoing .n64 word-swapping.
func wordSwap(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	for i := 0; i+3 < len(out); i += 4 {
		out[i], out[i+1], out[i+2], out[i+3] = out[i+3], out[i+2], out[i+1], out[i]
	}
	return out
}

// NormalizeByteOrder converts a whole-ROM buffer to big-endian (.z64) form
// by inspecting its first four bytes against the known N64 magic word. This
// generalizes the header-only swap the game's own N64 identifier performs
// (which only ever re-orders the 64-byte header) to the entire ROM buffer,
// so offsets recorded in Layout apply directly to the result.
func NormalizeByteOrder(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, ErrUnsupported{Reason: "file too small"}
	}
	first := data[:4]
	if dbin.BytesEqual(first, n64Magic) {
		return data, nil
	}
	if dbin.BytesEqual(byteSwap(first), n64Magic) {
		return byteSwap(data), nil
	}
	if dbin.BytesEqual([]byte{first[3], first[2], first[1], first[0]}, n64Magic) {
		return wordSwap(data), nil
	}
	return nil, ErrUnsupported{Reason: "invalid first word"}
}

// Image holds the sub-images sliced out of one verified ROM.
type Image struct {
	Layout Layout
	Wad    []byte
	Wmd    []byte
	Wsd    []byte
	Wdd    []byte
}

func slice(data []byte, offset, size uint32) []byte {
	return data[offset : offset+size]
}

// Read loads path, normalizes its byte order if it looks like a raw
// cartridge dump, matches it against KnownROMs by internal name and
// SHA-256, and slices out the IWAD plus WDD/WMD/WSD sidecars. The caller is
// responsible for parsing the IWAD bytes (via the classify/wad packages)
// and the sound sidecars (via its own sound.Data collaborator); this
// package never does more than locate and verify byte ranges, matching the
// Non-goal that ROM-image extraction identifies a known layout and nothing
// about which specific game or release it belongs to beyond that.
func Read(path string) (*Image, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // caller-supplied path is expected
	if err != nil {
		return nil, fmt.Errorf("read ROM %q: %w", path, err)
	}
	if len(raw) < headerSize {
		return nil, ErrUnsupported{Reason: "file too small"}
	}

	data, err := NormalizeByteOrder(raw)
	if err != nil {
		return nil, err
	}

	name := dbin.CleanString(data[0x20:0x34])
	digest := sha256.Sum256(data)

	for _, layout := range KnownROMs {
		if layout.Name != name {
			continue
		}
		if digest != layout.SHA256 {
			return nil, ErrHashMismatch{Got: digest, Want: layout.SHA256}
		}
		return &Image{
			Layout: layout,
			Wad:    slice(data, layout.WadOffset, layout.WadSize),
			Wmd:    slice(data, layout.WmdOffset, layout.WmdSize),
			Wsd:    slice(data, layout.WsdOffset, layout.WsdSize),
			Wdd:    slice(data, layout.WddOffset, layout.WddSize),
		}, nil
	}
	return nil, ErrUnsupported{Reason: fmt.Sprintf("unrecognized ROM name %q", name)}
}

// IsCartridgeDump reports whether the first four bytes of data match any of
// the three recognized N64 byte orders. It does not validate the rest of
// the header; callers use it to distinguish a raw cartridge dump from a
// loose IWAD/PWAD file, which starts with the ASCII magic "IWAD"/"PWAD"
// instead.
func IsCartridgeDump(data []byte) bool {
	_, err := NormalizeByteOrder(data)
	return err == nil
}
