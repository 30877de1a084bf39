package wad

import (
	"testing"

	"github.com/n64iwad/d64wad/diag"
	"github.com/n64iwad/d64wad/gfx"
)

// S3: a 32x32 sprite TROOA1 and a 16-colour palette PALTROO0. After
// flatten, the sequence between S_START and S_END is PALTROO0 (Palette),
// TROOA1 (Sprite, palette = Offset(1)).
func TestFlattenSpritePaletteReconstruction(t *testing.T) {
	w := New()
	w.Palettes.Set("PALTROO0", WadEntry[[]gfx.RGBA]{Typ: Palette, Data: make([]gfx.RGBA, 16)})
	w.Sprites.Set("TROOA1", WadEntry[*gfx.Sprite]{Typ: Sprite, Data: &gfx.Sprite{
		Width: 32, Height: 32, Depth: 4,
		Palette: gfx.PaletteRef{Inline: make([]gfx.RGBA, 16)},
		Indices: make([]uint8, 32*32),
	}})

	fw := w.Flatten()

	var names []string
	var start, end = -1, -1
	for i, e := range fw.Entries {
		names = append(names, string(e.Name))
		if e.Name == "S_START" {
			start = i
		}
		if e.Name == "S_END" {
			end = i
		}
	}
	if start == -1 || end == -1 || end != start+3 {
		t.Fatalf("unexpected sprite section bounds in %v", names)
	}
	if fw.Entries[start+1].Name != "PALTROO0" || fw.Entries[start+1].Entry.Typ != Palette {
		t.Fatalf("expected PALTROO0 right after S_START, got %+v", fw.Entries[start+1])
	}
	if fw.Entries[start+2].Name != "TROOA1" || fw.Entries[start+2].Entry.Typ != Sprite {
		t.Fatalf("expected TROOA1 next, got %+v", fw.Entries[start+2])
	}

	// Invariant: the Sprite's Offset(k) must point back k positions to
	// the Palette entry.
	parsedSprite, err := gfx.ParseSprite(fw.Entries[start+2].Entry.Data)
	if err != nil {
		t.Fatalf("ParseSprite: %v", err)
	}
	if !parsedSprite.Palette.IsOffset() {
		t.Fatal("expected an offset reference")
	}
	k := parsedSprite.Palette.Offset
	if start+2-k != start+1 {
		t.Fatalf("offset %d does not point at the palette entry (sprite at %d, palette at %d)", k, start+2, start+1)
	}
}

func TestFlattenSharedPrefixReusesPalette(t *testing.T) {
	w := New()
	w.Palettes.Set("PALTROO0", WadEntry[[]gfx.RGBA]{Typ: Palette, Data: make([]gfx.RGBA, 16)})
	for _, n := range []EntryName{"TROOA1", "TROOA2"} {
		w.Sprites.Set(n, WadEntry[*gfx.Sprite]{Typ: Sprite, Data: &gfx.Sprite{
			Width: 1, Height: 1, Depth: 4,
			Palette: gfx.PaletteRef{Inline: make([]gfx.RGBA, 16)},
			Indices: []uint8{0},
		}})
	}

	fw := w.Flatten()

	paletteCount := 0
	for _, e := range fw.Entries {
		if e.Entry.Typ == Palette {
			paletteCount++
		}
	}
	if paletteCount != 1 {
		t.Fatalf("expected the palette to be emitted once and shared, got %d palette entries", paletteCount)
	}
}

func TestMergeOneDecodesPalette(t *testing.T) {
	w := New()
	// 8/16/24 are multiples of 8 whose 5-bit values have zero top bits, so
	// they survive the RGB5A1 pack/unpack unchanged.
	data := gfx.EncodePalette([]gfx.RGBA{{R: 8, G: 16, B: 24, A: 255}})
	w.MergeOne(diag.Nop{}, "MYPAL", WadEntry[[]byte]{Typ: Palette, Data: data})

	got, ok := w.Palettes.Get("MYPAL")
	if !ok {
		t.Fatal("expected MYPAL in Palettes table")
	}
	if len(got.Data) != 1 || got.Data[0].R != 8 {
		t.Fatalf("got %+v", got.Data)
	}
}

// S5: MAPS/MAP01.WAD loaded with typ Map, nested FlatWad.
func TestMergeOneDecodesNestedMap(t *testing.T) {
	nested := &FlatWad{Entries: []FlatEntry{plainEntry("ENDOFWAD", Marker, nil)}}
	raw, err := nested.Write()
	if err != nil {
		t.Fatalf("Write nested: %v", err)
	}

	w := New()
	w.MergeOne(diag.Nop{}, "MAP01", WadEntry[[]byte]{Typ: Map, Data: raw})

	got, ok := w.Maps.Get("MAP01")
	if !ok {
		t.Fatal("expected MAP01 in Maps table")
	}
	if len(got.Data.Entries) != 1 {
		t.Fatalf("got %d nested entries, want 1", len(got.Data.Entries))
	}
}

func TestMergeLaterOverridesEarlier(t *testing.T) {
	a := New()
	a.Other.Set("FOO", WadEntry[[]byte]{Typ: Demo, Data: []byte{1}})
	b := New()
	b.Other.Set("FOO", WadEntry[[]byte]{Typ: Demo, Data: []byte{2}})

	a.Merge(b)

	got, _ := a.Other.Get("FOO")
	if got.Data[0] != 2 {
		t.Fatalf("expected later merge to win, got %v", got.Data)
	}
}

// S6: name canonicalisation.
func TestNewEntryNameCanonicalisation(t *testing.T) {
	cases := map[string]EntryName{
		"FOO^BAR": "FOO\\BAR",
		"Q@X":     "Q?X",
	}
	for in, want := range cases {
		if got := NewEntryName(in); got != want {
			t.Errorf("NewEntryName(%q) = %q, want %q", in, got, want)
		}
	}
}
