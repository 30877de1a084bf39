package wad

import (
	"fmt"
	"sort"

	"github.com/n64iwad/d64wad/diag"
	"github.com/n64iwad/d64wad/gfx"
	"github.com/n64iwad/d64wad/orders"
)

// Wad is the structured archive-in-progress: spec.md §3's bundle of
// per-type insertion-ordered tables. Unlike FlatWad, every entry here
// holds a decoded, editable representation.
type Wad struct {
	Maps        *EntryMap[WadEntry[*FlatWad]]
	Palettes    *EntryMap[WadEntry[[]gfx.RGBA]]
	Sprites     *EntryMap[WadEntry[*gfx.Sprite]]
	Textures    *EntryMap[WadEntry[*gfx.Texture]]
	Flats       *EntryMap[WadEntry[*gfx.Texture]]
	Graphics    *EntryMap[WadEntry[*gfx.Graphic]]
	HudGraphics *EntryMap[WadEntry[*gfx.Sprite]]
	Skies       *EntryMap[WadEntry[*gfx.Sprite]]
	// Other holds every type not given its own table (Demo, Sample,
	// SoundFont, Sequence, Unknown); the LumpType travels inside each
	// WadEntry so Sort can order this bucket by (type, name).
	Other *EntryMap[WadEntry[[]byte]]
}

// New returns an empty Wad.
func New() *Wad {
	return &Wad{
		Maps:        NewEntryMap[WadEntry[*FlatWad]](),
		Palettes:    NewEntryMap[WadEntry[[]gfx.RGBA]](),
		Sprites:     NewEntryMap[WadEntry[*gfx.Sprite]](),
		Textures:    NewEntryMap[WadEntry[*gfx.Texture]](),
		Flats:       NewEntryMap[WadEntry[*gfx.Texture]](),
		Graphics:    NewEntryMap[WadEntry[*gfx.Graphic]](),
		HudGraphics: NewEntryMap[WadEntry[*gfx.Sprite]](),
		Skies:       NewEntryMap[WadEntry[*gfx.Sprite]](),
		Other:       NewEntryMap[WadEntry[[]byte]](),
	}
}

// MergeOne decodes one flat (raw-bytes) entry and routes it into the
// matching per-type table, replacing any existing entry of the same name
// in place (spec.md §3 Lifecycle: "merge_one replaces in place on
// duplicate names"). Per-entry decode errors are reported via d and the
// offending entry is dropped, matching §4.8's "per-entry decode errors
// during structured-WAD merging are recovered" failure semantics.
func (w *Wad) MergeOne(d diag.Diagnostics, name EntryName, entry WadEntry[[]byte]) {
	switch entry.Typ {
	case Marker:
		// Markers are structural only; they never enter the Wad.
	case Map:
		nested, err := ParseFlatWad(entry.Data)
		if err != nil {
			d.Warn("failed to load map %s: %v", name, err)
			return
		}
		w.Maps.Set(name, WadEntry[*FlatWad]{Typ: entry.Typ, Data: nested})
	case Palette:
		pal, err := gfx.DecodePalette(entry.Data)
		if err != nil {
			d.Warn("invalid palette %s: %v", name, err)
			return
		}
		w.Palettes.Set(name, WadEntry[[]gfx.RGBA]{Typ: entry.Typ, Data: pal})
	case Sprite:
		sp, err := gfx.ParseSprite(entry.Data)
		if err != nil {
			d.Warn("invalid sprite %s: %v", name, err)
			return
		}
		w.Sprites.Set(name, WadEntry[*gfx.Sprite]{Typ: entry.Typ, Data: sp})
	case Texture:
		tex, err := gfx.ParseTexture(entry.Data)
		if err != nil {
			d.Warn("invalid texture %s: %v", name, err)
			return
		}
		w.Textures.Set(name, WadEntry[*gfx.Texture]{Typ: entry.Typ, Data: tex})
	case Flat:
		flat, err := gfx.ParseTexture(entry.Data)
		if err != nil {
			d.Warn("invalid flat %s: %v", name, err)
			return
		}
		w.Flats.Set(name, WadEntry[*gfx.Texture]{Typ: entry.Typ, Data: flat})
	case Graphic, Fire, Cloud:
		g, err := gfx.ParseGraphic(entry.Data)
		if err != nil {
			d.Warn("invalid graphic %s: %v", name, err)
			return
		}
		w.Graphics.Set(name, WadEntry[*gfx.Graphic]{Typ: entry.Typ, Data: g})
	case HudGraphic:
		sp, err := gfx.ParseSprite(entry.Data)
		if err != nil {
			d.Warn("invalid HUD graphic %s: %v", name, err)
			return
		}
		w.HudGraphics.Set(name, WadEntry[*gfx.Sprite]{Typ: entry.Typ, Data: sp})
	case Sky:
		sp, err := gfx.ParseSprite(entry.Data)
		if err != nil {
			d.Warn("invalid sky %s: %v", name, err)
			return
		}
		w.Skies.Set(name, WadEntry[*gfx.Sprite]{Typ: entry.Typ, Data: sp})
	default:
		w.Other.Set(name, entry)
	}
}

// MergeFlat decodes and merges every entry of a parsed FlatWad.
func (w *Wad) MergeFlat(d diag.Diagnostics, fw *FlatWad) {
	for _, e := range fw.Entries {
		w.MergeOne(d, e.Name, e.Entry)
	}
}

// mergeInto copies every entry of src into dst, replacing in place on
// name collisions so later sources override earlier ones (spec.md §4.8:
// "the final merge uses replacement semantics").
func mergeInto[T any](dst, src *EntryMap[T]) {
	for i := 0; i < src.Len(); i++ {
		name, value := src.At(i)
		dst.Set(name, value)
	}
}

// Merge folds other's tables into w, later-wins on duplicate names.
func (w *Wad) Merge(other *Wad) {
	mergeInto(w.Maps, other.Maps)
	mergeInto(w.Palettes, other.Palettes)
	mergeInto(w.Sprites, other.Sprites)
	mergeInto(w.Textures, other.Textures)
	mergeInto(w.Flats, other.Flats)
	mergeInto(w.Graphics, other.Graphics)
	mergeInto(w.HudGraphics, other.HudGraphics)
	mergeInto(w.Skies, other.Skies)
	mergeInto(w.Other, other.Other)
}

// Sort imposes the deterministic layout of spec.md §4.6: alphabetical
// order per table, overlaid with the fixed-order list for sprites,
// textures, and flats, and (type, name) ordering for the Other bucket.
func (w *Wad) Sort() {
	w.Maps.SortByName()
	w.Palettes.SortByName()

	w.Sprites.SortByName()
	w.Sprites.OrderFixedPrefix(orders.SpriteOrder())

	w.Textures.SortByName()
	w.Textures.OrderFixedExact(orders.TextureOrder())

	w.Flats.SortByName()
	w.Flats.OrderFixedExact(orders.FlatOrder())

	w.Graphics.SortByName()
	w.HudGraphics.SortByName()
	w.Skies.SortByName()

	names := w.Other.Names()
	sort.Slice(names, func(i, j int) bool {
		ei, _ := w.Other.Get(names[i])
		ej, _ := w.Other.Get(names[j])
		if ei.Typ != ej.Typ {
			return ei.Typ < ej.Typ
		}
		return names[i] < names[j]
	})
	w.Other.Reorder(names)
}

// sprite4BytePrefix returns the 4-byte grouping prefix used to match
// sprites to their shared palette (spec.md §4.4). Sprite names are
// ASCII uppercase monster/item/weapon codes followed by frame/rotation
// suffixes (e.g. "TROOA1"); entries already typed Palette never reach
// here, and names under 4 bytes have no group to join.
func sprite4BytePrefix(name EntryName) (string, bool) {
	if len(name) < 4 {
		return "", false
	}
	return string(name)[:4], true
}

// Flatten moves every table's entries into a FlatWad in the on-disk
// section order of spec.md §4.6, re-encoding each decoded representation
// back to bytes and reconstructing sprite-palette cross-references
// exactly as in the "interesting algorithm" of spec.md §4.4: sprites are
// walked in (already-sorted) order, and the first time a 4-byte name
// prefix is seen, every Palette entry whose name starts with "PAL"+prefix
// is drained from Palettes and emitted ahead of the sprite; later sprites
// sharing that prefix reference the recorded position instead of
// re-emitting the palette.
func (w *Wad) Flatten() *FlatWad {
	flat := &FlatWad{}
	push := func(name EntryName, typ LumpType, data []byte) {
		flat.Entries = append(flat.Entries, FlatEntry{
			Name:  name,
			Entry: WadEntry[[]byte]{Typ: typ, Compression: Compression{Kind: CompressionNone}, Data: data},
		})
	}
	marker := func(name string) { push(EntryName(name), Marker, nil) }

	prefixIndex := map[string]int{}

	marker("S_START")
	for i := 0; i < w.Sprites.Len(); i++ {
		name, entry := w.Sprites.At(i)
		sprite := entry.Data

		prefix, ok := sprite4BytePrefix(name)
		canGroup := ok && !name.HasPrefix("PAL")
		var palIndex int
		haveIndex := false
		if canGroup {
			if idx, seen := prefixIndex[prefix]; seen {
				palIndex, haveIndex = idx, true
			} else {
				index := len(flat.Entries)
				palPrefix := "PAL" + prefix
				hasPalette := false
				for {
					palName, palEntry, drained := takePaletteWithPrefix(w.Palettes, palPrefix)
					if !drained {
						break
					}
					hasPalette = true
					push(palName, Palette, gfx.EncodePalette(palEntry.Data))
				}
				if hasPalette {
					prefixIndex[prefix] = index
					palIndex, haveIndex = index, true
				}
			}
		}
		if haveIndex {
			sprite.Palette = gfx.PaletteRef{Offset: len(flat.Entries) - palIndex}
		}
		push(name, Sprite, sprite.ToBytes())
	}
	marker("S_END")

	marker("T_START")
	for i := 0; i < w.Textures.Len(); i++ {
		name, entry := w.Textures.At(i)
		push(name, entry.Typ, entry.Data.ToBytes())
	}
	for i := 0; i < w.Flats.Len(); i++ {
		name, entry := w.Flats.At(i)
		push(name, entry.Typ, entry.Data.ToBytes())
	}
	marker("T_END")

	for i := 0; i < w.HudGraphics.Len(); i++ {
		name, entry := w.HudGraphics.At(i)
		push(name, entry.Typ, entry.Data.ToBytes())
	}
	for i := 0; i < w.Graphics.Len(); i++ {
		name, entry := w.Graphics.At(i)
		push(name, entry.Typ, entry.Data.ToBytes())
	}
	for i := 0; i < w.Skies.Len(); i++ {
		name, entry := w.Skies.At(i)
		push(name, entry.Typ, entry.Data.ToBytes())
	}
	for i := 0; i < w.Maps.Len(); i++ {
		name, entry := w.Maps.At(i)
		data, err := entry.Data.Write()
		if err != nil {
			// A map that was itself produced by ParseFlatWad always
			// round-trips; this only fires on pathological hand-built
			// inputs (e.g. an entry count overflowing 32 bits).
			panic(fmt.Sprintf("wad: re-serializing map %s: %v", name, err))
		}
		push(name, entry.Typ, data)
	}
	for i := 0; i < w.Other.Len(); i++ {
		name, entry := w.Other.At(i)
		push(name, entry.Typ, entry.Data)
	}

	marker("ENDOFWAD")
	return flat
}

// takePaletteWithPrefix removes and returns the first remaining palette
// entry whose name starts with prefix, or ok=false if none remain.
func takePaletteWithPrefix(m *EntryMap[WadEntry[[]gfx.RGBA]], prefix string) (name EntryName, entry WadEntry[[]gfx.RGBA], ok bool) {
	for i := 0; i < m.Len(); i++ {
		n, e := m.At(i)
		if n.HasPrefix(prefix) {
			m.DeleteAt(i)
			return n, e, true
		}
	}
	return "", WadEntry[[]gfx.RGBA]{}, false
}
