package gfx

import "encoding/binary"

// Texture is the rectangular, palette-indexed bitmap shape used for both
// wall textures and floor/ceiling flats (spec.md §4.4): a 4-bit or 8-bit
// indexed pixel grid with its own embedded palette, no position offsets.
type Texture struct {
	Width, Height uint16
	Depth         uint8 // 4 or 8
	Palette       []RGBA
	Indices       []uint8 // one byte per pixel, row-major, pre-unpacked
}

const textureHeaderSize = 6 // width u16, height u16, depth u8, reserved u8

// ParseTexture decodes a Texture/Flat lump from its on-disk bytes.
func ParseTexture(data []byte) (*Texture, error) {
	if len(data) < textureHeaderSize {
		return nil, ErrTruncated{Want: textureHeaderSize, Got: len(data)}
	}
	width := binary.LittleEndian.Uint16(data[0:])
	height := binary.LittleEndian.Uint16(data[2:])
	depth := data[4]
	rest := data[textureHeaderSize:]

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
	return &Texture{Width: width, Height: height, Depth: depth, Palette: pal, Indices: indices}, nil
}

// ToBytes re-serializes the texture to its on-disk form.
func (t *Texture) ToBytes() []byte {
	palN := paletteEntries(t.Depth)
	out := make([]byte, textureHeaderSize+palN*2)
	binary.LittleEndian.PutUint16(out[0:], t.Width)
	binary.LittleEndian.PutUint16(out[2:], t.Height)
	out[4] = t.Depth
	for i := 0; i < palN && i < len(t.Palette); i++ {
		binary.LittleEndian.PutUint16(out[textureHeaderSize+i*2:], PackRGBA16(t.Palette[i].R, t.Palette[i].G, t.Palette[i].B, t.Palette[i].A))
	}
	out = append(out, packIndices(t.Depth, t.Indices)...)
	return out
}
