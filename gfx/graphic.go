package gfx

import "encoding/binary"

// Graphic is the rectangular indexed-bitmap shape shared by Graphic, Fire,
// and Cloud lumps (spec.md §4.4): like Texture but with a screen-position
// offset pair, and always an inline palette. Fire and Cloud are animated
// variants of the same binary shape; the distinction lives in the lump's
// LumpType, not in this struct. HudGraphic and Sky lumps look similar in
// the asset tree but are actually parsed through the Sprite shape (see
// sprite.go), since they can also carry an offset palette reference.
type Graphic struct {
	Width, Height         uint16
	LeftOffset, TopOffset int16
	Depth                 uint8
	Palette               []RGBA
	Indices               []uint8
}

const graphicHeaderSize = 10 // width u16, height u16, left i16, top i16, depth u8, reserved u8

// ParseGraphic decodes a Graphic/Fire/Cloud lump.
func ParseGraphic(data []byte) (*Graphic, error) {
	if len(data) < graphicHeaderSize {
		return nil, ErrTruncated{Want: graphicHeaderSize, Got: len(data)}
	}
	width := binary.LittleEndian.Uint16(data[0:])
	height := binary.LittleEndian.Uint16(data[2:])
	left := int16(binary.LittleEndian.Uint16(data[4:])) //nolint:gosec // reinterpret as signed
	top := int16(binary.LittleEndian.Uint16(data[6:]))  //nolint:gosec // reinterpret as signed
	depth := data[8]
	rest := data[graphicHeaderSize:]

	palN := paletteEntries(depth)
	palBytes := palN * 2
	if len(rest) < palBytes {
		return nil, ErrTruncated{Want: palBytes, Got: len(rest)}
	}
	pal := make([]RGBA, palN)
	for i := 0; i < palN; i++ {
		pal[i] = Unpack16(binary.LittleEndian.Uint16(rest[i*2:]))
	}

	indices, err := unpackIndices(depth, int(width), int(height), rest[palBytes:])
	if err != nil {
		return nil, err
	}
	return &Graphic{
		Width: width, Height: height,
		LeftOffset: left, TopOffset: top,
		Depth: depth, Palette: pal, Indices: indices,
	}, nil
}

// ToBytes re-serializes the graphic to its on-disk form.
func (g *Graphic) ToBytes() []byte {
	palN := paletteEntries(g.Depth)
	out := make([]byte, graphicHeaderSize+palN*2)
	binary.LittleEndian.PutUint16(out[0:], g.Width)
	binary.LittleEndian.PutUint16(out[2:], g.Height)
	binary.LittleEndian.PutUint16(out[4:], uint16(g.LeftOffset)) //nolint:gosec // reinterpret as unsigned
	binary.LittleEndian.PutUint16(out[6:], uint16(g.TopOffset))  //nolint:gosec // reinterpret as unsigned
	out[8] = g.Depth
	for i := 0; i < palN && i < len(g.Palette); i++ {
		binary.LittleEndian.PutUint16(out[graphicHeaderSize+i*2:], PackRGBA16(g.Palette[i].R, g.Palette[i].G, g.Palette[i].B, g.Palette[i].A))
	}
	out = append(out, packIndices(g.Depth, g.Indices)...)
	return out
}
