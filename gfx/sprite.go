package gfx

import "encoding/binary"

// PaletteRef is a sprite's palette: either an inline table (Rgb4/Rgb8) or
// a cross-lump back-reference expressed as a count of preceding flat
// entries (spec.md §4.4, DESIGN NOTES "Cross-lump palette sharing"). The
// offset form is kept as a plain index rather than a resolved palette, so
// Wad.Flatten can rewrite it during the pack pass without ever having
// materialized a second copy of the referenced palette.
type PaletteRef struct {
	Inline []RGBA // nil when this is an Offset reference
	Offset int    // valid only when Inline == nil
}

// IsOffset reports whether this PaletteRef is a cross-lump reference
// rather than an inline palette.
func (p PaletteRef) IsOffset() bool { return p.Inline == nil }

// Sprite is the indexed bitmap shape used for monster/item/weapon frames:
// like Graphic, but its palette may be inline or a back-reference instead
// of always inline (spec.md §4.4).
type Sprite struct {
	Width, Height         uint16
	LeftOffset, TopOffset int16
	Depth                 uint8
	Palette               PaletteRef
	Indices               []uint8
}

const spriteHeaderSize = 10 // width u16, height u16, left i16, top i16, depth u8, palMode u8

// palMode tags how the palette field was encoded on disk.
const (
	palModeOffset = 0
	palModeInline = 1
)

// ParseSprite decodes a Sprite lump. When the source carries an inline
// palette it is read directly; when it carries a cross-reference, the
// raw offset count is kept unresolved for the caller to resolve against
// the enclosing WAD's directory (extract resolves it when extracting).
func ParseSprite(data []byte) (*Sprite, error) {
	if len(data) < spriteHeaderSize {
		return nil, ErrTruncated{Want: spriteHeaderSize, Got: len(data)}
	}
	width := binary.LittleEndian.Uint16(data[0:])
	height := binary.LittleEndian.Uint16(data[2:])
	left := int16(binary.LittleEndian.Uint16(data[4:])) //nolint:gosec // reinterpret as signed
	top := int16(binary.LittleEndian.Uint16(data[6:]))  //nolint:gosec // reinterpret as signed
	depth := data[8]
	mode := data[9]
	rest := data[spriteHeaderSize:]

	var ref PaletteRef
	switch mode {
	case palModeOffset:
		if len(rest) < 2 {
			return nil, ErrTruncated{Want: 2, Got: len(rest)}
		}
		ref = PaletteRef{Offset: int(binary.LittleEndian.Uint16(rest))}
		rest = rest[2:]
	case palModeInline:
		palN := paletteEntries(depth)
		palBytes := palN * 2
		if len(rest) < palBytes {
			return nil, ErrTruncated{Want: palBytes, Got: len(rest)}
		}
		pal := make([]RGBA, palN)
		for i := 0; i < palN; i++ {
			pal[i] = Unpack16(binary.LittleEndian.Uint16(rest[i*2:]))
		}
		ref = PaletteRef{Inline: pal}
		rest = rest[palBytes:]
	default:
		return nil, ErrInvalidPaletteMode{Mode: mode}
	}

	indices, err := unpackIndices(depth, int(width), int(height), rest)
	if err != nil {
		return nil, err
	}
	return &Sprite{
		Width: width, Height: height,
		LeftOffset: left, TopOffset: top,
		Depth: depth, Palette: ref, Indices: indices,
	}, nil
}

// ToBytes re-serializes the sprite to its on-disk form. The palette must
// already be resolved to one form or the other (Wad.Flatten does this for
// Offset references before handing entries to the writer).
func (s *Sprite) ToBytes() []byte {
	head := make([]byte, spriteHeaderSize)
	binary.LittleEndian.PutUint16(head[0:], s.Width)
	binary.LittleEndian.PutUint16(head[2:], s.Height)
	binary.LittleEndian.PutUint16(head[4:], uint16(s.LeftOffset)) //nolint:gosec // reinterpret as unsigned
	binary.LittleEndian.PutUint16(head[6:], uint16(s.TopOffset))  //nolint:gosec // reinterpret as unsigned
	head[8] = s.Depth

	var body []byte
	if s.Palette.IsOffset() {
		head[9] = palModeOffset
		body = make([]byte, 2)
		binary.LittleEndian.PutUint16(body, uint16(s.Palette.Offset)) //nolint:gosec // bounded by flat length
	} else {
		head[9] = palModeInline
		palN := paletteEntries(s.Depth)
		body = make([]byte, palN*2)
		for i := 0; i < palN && i < len(s.Palette.Inline); i++ {
			c := s.Palette.Inline[i]
			binary.LittleEndian.PutUint16(body[i*2:], PackRGBA16(c.R, c.G, c.B, c.A))
		}
	}
	out := append(head, body...)
	out = append(out, packIndices(s.Depth, s.Indices)...)
	return out
}

// ErrInvalidPaletteMode indicates a sprite header's palette-mode byte was
// neither the offset-reference nor inline-palette tag.
type ErrInvalidPaletteMode struct {
	Mode uint8
}

func (e ErrInvalidPaletteMode) Error() string {
	return "gfx: invalid sprite palette mode"
}
