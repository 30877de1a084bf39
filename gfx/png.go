package gfx

import (
	"image"
	"image/color"
	"image/png"
	"io"
)

func paletteToColorPalette(pal []RGBA) color.Palette {
	cp := make(color.Palette, len(pal))
	for i, c := range pal {
		cp[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	}
	return cp
}

func colorPaletteToRGBA(cp color.Palette) []RGBA {
	out := make([]RGBA, len(cp))
	for i, c := range cp {
		r, g, b, a := c.RGBA()
		out[i] = RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
	}
	return out
}

func decodePaletted(r io.Reader) (width, height int, pal []RGBA, indices []uint8, err error) {
	img, err := png.Decode(r)
	if err != nil {
		return 0, 0, nil, nil, err
	}
	paletted, ok := img.(*image.Paletted)
	if !ok {
		return 0, 0, nil, nil, ErrNotIndexed{}
	}
	b := paletted.Bounds()
	width, height = b.Dx(), b.Dy()
	pal = colorPaletteToRGBA(paletted.Palette)
	indices = make([]uint8, width*height)
	for y := 0; y < height; y++ {
		row := paletted.Pix[y*paletted.Stride : y*paletted.Stride+width]
		copy(indices[y*width:(y+1)*width], row)
	}
	return width, height, pal, indices, nil
}

func encodePaletted(w io.Writer, width, height int, pal []RGBA, indices []uint8) error {
	img := image.NewPaletted(image.Rect(0, 0, width, height), paletteToColorPalette(pal))
	for y := 0; y < height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+width], indices[y*width:(y+1)*width])
	}
	return png.Encode(w, img)
}

// ErrNotIndexed indicates a PNG source was not an indexed-colour (palette
// mode) image, which is the only form this module round-trips exactly.
type ErrNotIndexed struct{}

func (ErrNotIndexed) Error() string { return "gfx: PNG source is not a palette-indexed image" }

// DecodeTexturePNG reads an indexed PNG into a Texture, inferring the bit
// depth from the palette size.
func DecodeTexturePNG(r io.Reader) (*Texture, error) {
	w, h, pal, idx, err := decodePaletted(r)
	if err != nil {
		return nil, err
	}
	return &Texture{
		Width: uint16(w), Height: uint16(h), //nolint:gosec // bounded by N64 asset dimensions
		Depth: depthForPalette(len(pal)), Palette: pal, Indices: idx,
	}, nil
}

// EncodeTexturePNG writes a Texture out as an indexed PNG.
func EncodeTexturePNG(w io.Writer, t *Texture) error {
	return encodePaletted(w, int(t.Width), int(t.Height), t.Palette, t.Indices)
}

// DecodeGraphicPNG reads an indexed PNG into a Graphic with zero
// screen-position offsets (PNG carries no such metadata).
func DecodeGraphicPNG(r io.Reader) (*Graphic, error) {
	w, h, pal, idx, err := decodePaletted(r)
	if err != nil {
		return nil, err
	}
	return &Graphic{
		Width: uint16(w), Height: uint16(h), //nolint:gosec // bounded by N64 asset dimensions
		Depth: depthForPalette(len(pal)), Palette: pal, Indices: idx,
	}, nil
}

// EncodeGraphicPNG writes a Graphic out as an indexed PNG.
func EncodeGraphicPNG(w io.Writer, g *Graphic) error {
	return encodePaletted(w, int(g.Width), int(g.Height), g.Palette, g.Indices)
}

// DecodeSpritePNG reads an indexed PNG into a Sprite carrying the PNG's
// own palette inline; callers wanting a cross-lump reference instead
// resolve that separately (see wad.Wad.Flatten).
func DecodeSpritePNG(r io.Reader) (*Sprite, error) {
	w, h, pal, idx, err := decodePaletted(r)
	if err != nil {
		return nil, err
	}
	return &Sprite{
		Width: uint16(w), Height: uint16(h), //nolint:gosec // bounded by N64 asset dimensions
		Depth: depthForPalette(len(pal)), Palette: PaletteRef{Inline: pal}, Indices: idx,
	}, nil
}

// EncodeSpritePNG writes a Sprite out as an indexed PNG. The sprite's
// palette must already be an inline table (resolve an Offset reference
// against its Wad first).
func EncodeSpritePNG(w io.Writer, s *Sprite) error {
	pal := s.Palette.Inline
	if pal == nil {
		return ErrUnresolvedPalette{}
	}
	return encodePaletted(w, int(s.Width), int(s.Height), pal, s.Indices)
}

// ErrUnresolvedPalette indicates a Sprite still carries an Offset
// reference where a concrete palette is required (e.g. PNG export).
type ErrUnresolvedPalette struct{}

func (ErrUnresolvedPalette) Error() string {
	return "gfx: sprite palette is an unresolved offset reference"
}

func depthForPalette(n int) uint8 {
	if n <= 16 {
		return 4
	}
	return 8
}
