// Package extract implements the extraction orchestrator of spec.md §4.8
// and §6: read an IWAD (loose file or sliced out of a known ROM dump),
// decode each non-marker entry back to an editable form (PNG for graphics,
// raw RGB triples for palettes, verbatim bytes for markers/maps/unknown
// lumps), and write the result to a directory tree or a single file.
package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/n64iwad/d64wad/gfx"
	"github.com/n64iwad/d64wad/rom"
	"github.com/n64iwad/d64wad/wad"
)

// Options controls one extract run, mirroring the extract subcommand's
// flags from spec.md §6.
type Options struct {
	Input   string
	OutDir  string // default "DOOM64"; ignored if OutFile is set
	OutFile string // extract only the first matched entry to this path
	Include []string
	Flat    bool // don't split entries into per-type subdirectories
	Raw     bool // keep entries in raw on-disk form, skip PNG/palette decode
}

// PaletteCache memoizes the palette resolved for each offset-referencing
// sprite: cache is keyed by the flat directory index of the palette source
// (mirroring the original's BTreeMap<usize, Vec<RGBA>>), and
// spriteToPalette maps each sprite's index to that source index.
type PaletteCache struct {
	cache           map[int][]gfx.RGBA
	spriteToPalette map[int]int
}

// NewPaletteCache returns an empty cache ready for repeated ExtractOne calls
// against the same FlatWad.
func NewPaletteCache() *PaletteCache {
	return &PaletteCache{cache: make(map[int][]gfx.RGBA), spriteToPalette: make(map[int]int)}
}

// extForType returns the file extension non-raw extraction writes for a
// lump type. Marker/Sample/SoundFont/Sequence never reach this function:
// markers are skipped by the caller, and the audio types are out of scope.
func extForType(t wad.LumpType) string {
	switch t {
	case wad.Sprite, wad.Texture, wad.Flat, wad.Graphic, wad.HudGraphic, wad.Sky, wad.Fire, wad.Cloud:
		return "PNG"
	case wad.Palette:
		return "PAL"
	case wad.Map:
		return "WAD"
	default:
		return "LMP"
	}
}

// subdirForType returns the per-type output subdirectory name, or "" for
// types that land directly in the output root.
func subdirForType(t wad.LumpType) string {
	switch t {
	case wad.Sprite:
		return "SPRITES"
	case wad.Palette:
		return "PALETTES"
	case wad.Texture:
		return "TEXTURES"
	case wad.Flat:
		return "FLATS"
	case wad.Graphic:
		return "GRAPHICS"
	case wad.HudGraphic:
		return "HUD"
	case wad.Sky, wad.Fire, wad.Cloud:
		return "SKIES"
	case wad.Map:
		return "MAPS"
	case wad.Demo:
		return "DEMOS"
	default:
		return ""
	}
}

// Read loads an IWAD from a loose WAD/PWAD file or slices one out of a
// known ROM dump (see rom.Read; KnownROMs ships empty, so real cartridge
// dumps require the caller to populate it).
func Read(path string) (*wad.FlatWad, error) {
	ext := filepath.Ext(path)
	switch ext {
	case ".z64", ".v64", ".n64", ".Z64", ".V64", ".N64":
		img, err := rom.Read(path)
		if err != nil {
			return nil, err
		}
		return wad.ParseFlatWad(img.Wad)
	default:
		data, err := os.ReadFile(path) //nolint:gosec // caller-supplied extract input
		if err != nil {
			return nil, err
		}
		return wad.ParseFlatWad(data)
	}
}

// ExtractOne decodes the flat entry at index back to an editable form,
// unless raw is true (in which case the on-disk bytes are returned
// unmodified). Sprite entries with an offset palette reference resolve
// and memoize the referenced palette/sprite's colors in cache.
func ExtractOne(fw *wad.FlatWad, index int, cache *PaletteCache, raw bool) ([]byte, error) {
	entry := fw.Entries[index]
	if raw {
		return entry.Entry.Data, nil
	}
	switch entry.Entry.Typ {
	case wad.Palette:
		colors, err := gfx.DecodePalette(entry.Entry.Data)
		if err != nil {
			return nil, err
		}
		return encodeRGBTriples(colors), nil
	case wad.Graphic, wad.Fire, wad.Cloud:
		g, err := gfx.ParseGraphic(entry.Entry.Data)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := gfx.EncodeGraphicPNG(&buf, g); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case wad.Texture, wad.Flat:
		tx, err := gfx.ParseTexture(entry.Entry.Data)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := gfx.EncodeTexturePNG(&buf, tx); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case wad.HudGraphic, wad.Sky:
		sp, err := gfx.ParseSprite(entry.Entry.Data)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := gfx.EncodeSpritePNG(&buf, sp); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case wad.Sprite:
		return extractSprite(fw, index, cache)
	default:
		return entry.Entry.Data, nil
	}
}

// extractSprite resolves a Sprite lump's palette (inline, or an offset
// reference resolved against an earlier Palette or Sprite lump) and
// encodes the result as an indexed PNG.
func extractSprite(fw *wad.FlatWad, index int, cache *PaletteCache) ([]byte, error) {
	entry := fw.Entries[index]
	sp, err := gfx.ParseSprite(entry.Entry.Data)
	if err != nil {
		return nil, err
	}
	if sp.Palette.IsOffset() {
		palIndex := index - sp.Palette.Offset
		if palIndex < 0 || palIndex >= len(fw.Entries) {
			return nil, fmt.Errorf("extract: palette offset out of range for %q", entry.Name)
		}
		cache.spriteToPalette[index] = palIndex
		colors, ok := cache.cache[palIndex]
		if !ok {
			colors, err = resolvePaletteSource(fw, palIndex)
			if err != nil {
				return nil, err
			}
			cache.cache[palIndex] = colors
		}
		sp.Palette = gfx.PaletteRef{Inline: colors}
	}
	var buf bytes.Buffer
	if err := gfx.EncodeSpritePNG(&buf, sp); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func resolvePaletteSource(fw *wad.FlatWad, index int) ([]gfx.RGBA, error) {
	palEntry := fw.Entries[index]
	switch palEntry.Entry.Typ {
	case wad.Palette:
		return gfx.DecodePalette(palEntry.Entry.Data)
	case wad.Sprite:
		pspr, err := gfx.ParseSprite(palEntry.Entry.Data)
		if err != nil {
			return nil, err
		}
		if pspr.Palette.IsOffset() {
			return nil, fmt.Errorf("extract: sprite %q does not contain an inline palette", palEntry.Name)
		}
		return pspr.Palette.Inline, nil
	default:
		return nil, fmt.Errorf("extract: lump %q is not a palette or sprite", palEntry.Name)
	}
}

func encodeRGBTriples(colors []gfx.RGBA) []byte {
	out := make([]byte, 0, len(colors)*3)
	for _, c := range colors {
		out = append(out, c.R, c.G, c.B)
	}
	return out
}

// Run executes one extraction: reading opts.Input, then writing every
// non-marker entry to opts.OutDir (or opts.OutFile, for the first match
// only) per the Include/Flat/Raw flags.
func Run(opts Options) error {
	fw, err := Read(opts.Input)
	if err != nil {
		return fmt.Errorf("extract: read %q: %w", opts.Input, err)
	}

	outDir := opts.OutDir
	if outDir == "" {
		outDir = "DOOM64"
	}
	if opts.OutFile == "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("extract: create %q: %w", outDir, err)
		}
	}

	cache := NewPaletteCache()
	for index, entry := range fw.Entries {
		if entry.Entry.Typ == wad.Marker {
			continue
		}
		path, ok, err := resolveOutputPath(opts, outDir, string(entry.Name), entry.Entry.Typ)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		data, err := ExtractOne(fw, index, cache, opts.Raw)
		if err != nil {
			return fmt.Errorf("extract: %q: %w", entry.Name, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // extracted asset is not sensitive
			return fmt.Errorf("extract: write %q: %w", path, err)
		}
		if opts.OutFile != "" {
			return nil
		}
	}
	return nil
}

// resolveOutputPath computes the destination path for one entry, applying
// the Include glob filter and the Flat/Raw extension rules. ok is false
// when the entry is filtered out by Include.
func resolveOutputPath(opts Options, outDir, name string, typ wad.LumpType) (string, bool, error) {
	if opts.OutFile != "" {
		return opts.OutFile, true, nil
	}
	if len(opts.Include) > 0 {
		matched := false
		for _, pat := range opts.Include {
			if ok, _ := doublestar.Match(pat, name); ok {
				matched = true
				break
			}
		}
		if !matched {
			return "", false, nil
		}
	}
	dir := outDir
	if !opts.Flat {
		if sub := subdirForType(typ); sub != "" {
			dir = filepath.Join(outDir, sub)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", false, err
			}
		}
	}
	ext := "LMP"
	if !opts.Raw {
		ext = extForType(typ)
	}
	return filepath.Join(dir, name+"."+ext), true, nil
}
