package extract

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/n64iwad/d64wad/gfx"
	"github.com/n64iwad/d64wad/wad"
)

// fixturePalette uses channel values that survive packing into RGB5A1 and
// unpacking with bit replication unchanged, letting tests assert exact color
// equality rather than just "non-empty output".
func fixturePalette() []gfx.RGBA {
	colors := make([]gfx.RGBA, 16)
	colors[0] = gfx.RGBA{R: 140, G: 74, B: 206, A: 255}
	colors[1] = gfx.RGBA{R: 0, G: 255, B: 16, A: 255}
	return colors
}

func buildFixtureWAD(t *testing.T) string {
	t.Helper()
	pal := gfx.EncodePalette(fixturePalette())
	sprite := &gfx.Sprite{
		Width: 2, Height: 2, Depth: 4,
		Palette: gfx.PaletteRef{Offset: 1},
		Indices: []uint8{0, 0, 0, 0},
	}
	fw := &wad.FlatWad{Entries: []wad.FlatEntry{
		{Name: "S_START", Entry: wad.WadEntry[[]byte]{Typ: wad.Marker}},
		{Name: "PALTROO0", Entry: wad.WadEntry[[]byte]{Typ: wad.Palette, Data: pal}},
		{Name: "TROOA1", Entry: wad.WadEntry[[]byte]{Typ: wad.Sprite, Data: sprite.ToBytes()}},
		{Name: "S_END", Entry: wad.WadEntry[[]byte]{Typ: wad.Marker}},
	}}
	data, err := fw.Write()
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	path := filepath.Join(t.TempDir(), "DOOM64.WAD")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunExtractsToSubdirectories(t *testing.T) {
	input := buildFixtureWAD(t)
	outDir := filepath.Join(t.TempDir(), "out")
	if err := Run(Options{Input: input, OutDir: outDir}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	palPath := filepath.Join(outDir, "PALETTES", "PALTROO0.PAL")
	palData, err := os.ReadFile(palPath)
	if err != nil {
		t.Fatalf("expected palette file: %v", err)
	}
	want := fixturePalette()
	if len(palData) != len(want)*3 {
		t.Fatalf("got %d palette bytes, want %d (RGB triples)", len(palData), len(want)*3)
	}
	for i, c := range want {
		gotR, gotG, gotB := palData[i*3], palData[i*3+1], palData[i*3+2]
		if gotR != c.R || gotG != c.G || gotB != c.B {
			t.Errorf("color %d: got (%d,%d,%d), want (%d,%d,%d)", i, gotR, gotG, gotB, c.R, c.G, c.B)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "SPRITES", "TROOA1.PNG")); err != nil {
		t.Errorf("expected sprite PNG: %v", err)
	}
}

func TestRunFlatSkipsSubdirectories(t *testing.T) {
	input := buildFixtureWAD(t)
	outDir := filepath.Join(t.TempDir(), "out")
	if err := Run(Options{Input: input, OutDir: outDir, Flat: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "TROOA1.PNG")); err != nil {
		t.Errorf("expected sprite PNG directly in outdir: %v", err)
	}
}

func TestExtractOneResolvesOffsetPalette(t *testing.T) {
	input := buildFixtureWAD(t)
	fw, err := Read(input)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	cache := NewPaletteCache()
	var spriteIndex int
	for i, e := range fw.Entries {
		if e.Name == "TROOA1" {
			spriteIndex = i
		}
	}
	data, err := ExtractOne(fw, spriteIndex, cache, false)
	if err != nil {
		t.Fatalf("ExtractOne: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty PNG output")
	}
	if _, ok := cache.spriteToPalette[spriteIndex]; !ok {
		t.Fatal("expected sprite-to-palette mapping to be recorded")
	}

	decoded, err := gfx.DecodeSpritePNG(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeSpritePNG: %v", err)
	}
	want := fixturePalette()
	if len(decoded.Palette.Inline) < 2 {
		t.Fatalf("got %d resolved colors, want at least 2", len(decoded.Palette.Inline))
	}
	for i := 0; i < 2; i++ {
		got := decoded.Palette.Inline[i]
		if got.R != want[i].R || got.G != want[i].G || got.B != want[i].B {
			t.Errorf("resolved color %d: got %+v, want %+v", i, got, want[i])
		}
	}
}

func TestRunIncludeFilter(t *testing.T) {
	input := buildFixtureWAD(t)
	outDir := filepath.Join(t.TempDir(), "out")
	if err := Run(Options{Input: input, OutDir: outDir, Include: []string{"PAL*"}}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "SPRITES", "TROOA1.PNG")); err == nil {
		t.Error("sprite should have been filtered out by Include")
	}
	if _, err := os.Stat(filepath.Join(outDir, "PALETTES", "PALTROO0.PAL")); err != nil {
		t.Errorf("expected palette file to survive Include filter: %v", err)
	}
}
