package wad

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/n64iwad/d64wad/compress/huffman"
	"github.com/n64iwad/d64wad/compress/lzss"
	dbin "github.com/n64iwad/d64wad/internal/binary"
)

const (
	headerSize   = 0x0C
	dirEntrySize = 16
	nameFieldLen = 8
)

// magicIWAD and magicPWAD are the two accepted header magics; spec.md §4.7
// treats them as interchangeable beyond the four leading bytes.
var (
	magicIWAD = [4]byte{'I', 'W', 'A', 'D'}
	magicPWAD = [4]byte{'P', 'W', 'A', 'D'}
)

// FlatWad is the linear, on-disk-shaped entry sequence: spec.md §3's
// serialization form of a Wad.
type FlatWad struct {
	Entries []FlatEntry
}

// ErrInvalidMagic indicates the header's first four bytes were neither
// "IWAD" nor "PWAD".
type ErrInvalidMagic struct {
	Got [4]byte
}

func (e ErrInvalidMagic) Error() string {
	return fmt.Sprintf("wad: invalid magic %q", e.Got[:])
}

// ErrTruncated indicates the buffer ended before the header, directory,
// or a referenced payload could be fully read.
type ErrTruncated struct {
	Reason string
}

func (e ErrTruncated) Error() string { return "wad: truncated input: " + e.Reason }

// ErrOverflow indicates the entry count or a computed directory offset
// does not fit in the format's 32-bit fields.
type ErrOverflow struct {
	Reason string
}

func (e ErrOverflow) Error() string { return "wad: overflow: " + e.Reason }

// positionalState implements the purely-positional classifier of
// spec.md §4.5: type inference driven entirely by section markers and
// entry names encountered in flat-sequence order.
type positionalState struct {
	baseTyp       LumpType
	blanktexCount int
}

func (s *positionalState) classify(name EntryName) LumpType {
	typ := s.baseTyp
	n := string(name)

	switch {
	case n == "?":
		s.blanktexCount++
		if s.baseTyp == Texture && s.blanktexCount == 2 {
			typ = Flat
			s.baseTyp = Flat
		}
	case n == "S_START":
		typ = Marker
		s.baseTyp = Sprite
	case n == "T_START":
		s.blanktexCount = 0
		typ = Marker
		s.baseTyp = Texture
	case n == "S_END", n == "T_END":
		typ = Marker
		s.baseTyp = Unknown
	case n == "ENDOFWAD":
		typ = Marker
	}

	switch {
	case typ == Sprite && strings.HasPrefix(n, "PAL"):
		typ = Palette
	case typ == Unknown:
		switch {
		case strings.HasPrefix(n, "MAP"):
			typ = Map
		case strings.HasPrefix(n, "DEMO"):
			typ = Demo
		case n == "SFONT" || n == "STATUS" || strings.HasPrefix(n, "JPMSG"):
			typ = HudGraphic
		case strings.HasPrefix(n, "MOUNT") || strings.HasPrefix(n, "SPACE"):
			typ = Sky
		case n == "FIRE":
			typ = Fire
		case n == "CLOUD":
			typ = Cloud
		default:
			typ = Graphic
		}
	}
	return typ
}

// ParseFlatWad decodes a packed IWAD/PWAD buffer. Every compressed entry
// (signalled by the high bit of the name's first byte) is decompressed
// immediately according to its classified type's codec mapping, and
// stored with Compression.None — per spec.md §4.7, a FlatWad's in-memory
// entries always hold decoded bytes; recompression happens explicitly via
// Compress, just before Write.
func ParseFlatWad(data []byte) (*FlatWad, error) {
	if len(data) < headerSize {
		return nil, ErrTruncated{Reason: "header"}
	}
	var magic [4]byte
	copy(magic[:], data[:4])
	if magic != magicIWAD && magic != magicPWAD {
		return nil, ErrInvalidMagic{Got: magic}
	}
	r := bytes.NewReader(data)
	count, err := dbin.ReadUint32LEAt(r, 4)
	if err != nil {
		return nil, ErrTruncated{Reason: "header"}
	}
	dirOffset, err := dbin.ReadUint32LEAt(r, 8)
	if err != nil {
		return nil, ErrTruncated{Reason: "header"}
	}

	dirEnd := uint64(dirOffset) + uint64(count)*dirEntrySize
	if dirEnd > uint64(len(data)) {
		return nil, ErrTruncated{Reason: "directory"}
	}

	fw := &FlatWad{Entries: make([]FlatEntry, 0, count)}
	state := &positionalState{baseTyp: Unknown}

	for i := uint32(0); i < count; i++ {
		recOffset := int64(dirOffset) + int64(i)*dirEntrySize
		offset, err := dbin.ReadUint32LEAt(r, recOffset)
		if err != nil {
			return nil, ErrTruncated{Reason: "directory entry"}
		}
		size, err := dbin.ReadUint32LEAt(r, recOffset+4)
		if err != nil {
			return nil, ErrTruncated{Reason: "directory entry"}
		}
		rawName, err := dbin.ReadBytesAt(r, recOffset+8, nameFieldLen)
		if err != nil {
			return nil, ErrTruncated{Reason: "directory entry"}
		}

		compressed := false
		if rawName[0]&0x80 != 0 {
			compressed = true
			rawName[0] &^= 0x80
		}
		nullAt := len(rawName)
		for j, b := range rawName {
			if b == 0 {
				nullAt = j
				break
			}
		}
		name := EntryName(rawName[:nullAt])

		typ := state.classify(name)

		var payload []byte
		if size > 0 {
			start := uint64(offset)
			if start > uint64(len(data)) {
				return nil, ErrTruncated{Reason: "entry payload offset"}
			}
			body := data[start:]
			if compressed {
				switch DecodeSchemeForType(typ) {
				case CompressionHuffman:
					decoded, err := huffman.Decode(body, int(size))
					if err != nil {
						return nil, fmt.Errorf("wad: entry %q: %w", name, err)
					}
					payload = decoded
				default:
					decoded, err := lzss.Decode(body, int(size))
					if err != nil {
						return nil, fmt.Errorf("wad: entry %q: %w", name, err)
					}
					payload = decoded
				}
			} else {
				end := start + uint64(size)
				if end > uint64(len(data)) {
					return nil, ErrTruncated{Reason: "entry payload"}
				}
				payload = append([]byte(nil), body[:size]...)
			}
		}

		fw.Entries = append(fw.Entries, FlatEntry{
			Name: name,
			Entry: WadEntry[[]byte]{
				Typ:         typ,
				Compression: Compression{Kind: CompressionNone},
				Data:        payload,
			},
		})
	}
	return fw, nil
}

func paddedLen(n int) int {
	return (n + 3) &^ 3
}

// Compress applies each entry's target compression scheme (spec.md §4.1/
// §4.2/§4.8) in place, skipping entries already compressed and keeping
// the compressed bytes only if they are actually smaller. Huffman-class
// lumps are never recompressed — the scheme's encoder is broken even in
// the reference source, and the decoder remains the authoritative
// contract — so Map/Demo/Texture/Flat entries are left uncompressed.
func (fw *FlatWad) Compress() {
	for i := range fw.Entries {
		e := &fw.Entries[i].Entry
		if e.Compression.Kind != CompressionNone {
			continue
		}
		switch SchemeForType(e.Typ) {
		case CompressionLzss:
			encoded := lzss.Encode(e.Data)
			if len(encoded) < len(e.Data) {
				origSize := len(e.Data)
				e.Data = encoded
				e.Compression = Compression{Kind: CompressionLzss, OriginalSize: uint32(origSize)} //nolint:gosec // bounded by Overflow check at write
			}
		case CompressionHuffman:
			// Deliberately skipped: see package doc and spec.md §4.2.
		case CompressionNone:
		}
	}
}

// Write serializes the FlatWad to its byte-exact on-disk form (spec.md
// §4.7). Entries are written in their current slice order; compressed
// entries must already have been produced by Compress (or supplied
// pre-compressed by the caller).
func (fw *FlatWad) Write() ([]byte, error) {
	count := len(fw.Entries)
	if uint64(count) > 0xFFFFFFFF {
		return nil, ErrOverflow{Reason: "too many entries"}
	}

	offset := uint64(headerSize)
	for _, e := range fw.Entries {
		offset += uint64(paddedLen(len(e.Entry.Data)))
		if offset > 0xFFFFFFFF {
			return nil, ErrOverflow{Reason: fmt.Sprintf("entry %q too large", e.Name)}
		}
	}

	out := make([]byte, 0, offset+uint64(count)*dirEntrySize)
	out = append(out, magicIWAD[:]...)
	out = binary.LittleEndian.AppendUint32(out, uint32(count))  //nolint:gosec // checked above
	out = binary.LittleEndian.AppendUint32(out, uint32(offset)) //nolint:gosec // checked above

	for _, e := range fw.Entries {
		out = append(out, e.Entry.Data...)
		pad := paddedLen(len(e.Entry.Data)) - len(e.Entry.Data)
		for i := 0; i < pad; i++ {
			out = append(out, 0)
		}
	}

	runningOffset := uint32(headerSize)
	for _, e := range fw.Entries {
		size := uncompressedLen(e.Entry)
		o := runningOffset
		if size == 0 {
			// Bug-compatibility rule (spec.md §9 Open Question): the
			// newer source variant writes a zero offset for zero-length
			// entries; parsers must accept either.
			o = 0
		}
		out = binary.LittleEndian.AppendUint32(out, o)
		out = binary.LittleEndian.AppendUint32(out, size)

		var nameBytes [nameFieldLen]byte
		copy(nameBytes[:], string(e.Name))
		if e.Entry.Compression.Kind != CompressionNone {
			nameBytes[0] |= 0x80
		}
		out = append(out, nameBytes[:]...)

		runningOffset += uint32(paddedLen(len(e.Entry.Data))) //nolint:gosec // checked above
	}
	return out, nil
}

// uncompressedLen returns the decoded length the directory's size column
// records, regardless of whether the entry is currently compressed.
func uncompressedLen(e WadEntry[[]byte]) uint32 {
	if e.Compression.Kind != CompressionNone {
		return e.Compression.OriginalSize
	}
	return uint32(len(e.Data)) //nolint:gosec // bounded by Overflow check at write
}
