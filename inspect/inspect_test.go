package inspect

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/n64iwad/d64wad/gfx"
	"github.com/n64iwad/d64wad/wad"
)

func TestWalkReportsPaletteOffset(t *testing.T) {
	sprite := &gfx.Sprite{
		Width: 1, Height: 1, Depth: 4,
		Palette: gfx.PaletteRef{Offset: 2},
		Indices: []uint8{0},
	}
	fw := &wad.FlatWad{Entries: []wad.FlatEntry{
		{Name: "S_START", Entry: wad.WadEntry[[]byte]{Typ: wad.Marker}},
		{Name: "PALTROO0", Entry: wad.WadEntry[[]byte]{Typ: wad.Palette, Data: gfx.EncodePalette(make([]gfx.RGBA, 16))}},
		{Name: "TROOA1", Entry: wad.WadEntry[[]byte]{Typ: wad.Sprite, Data: sprite.ToBytes()}},
	}}
	rows := Walk(fw)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 (markers included)", len(rows))
	}
	if rows[2].PaletteOffset != 2 {
		t.Errorf("got palette offset %d, want 2", rows[2].PaletteOffset)
	}
	if rows[0].Type != wad.Marker {
		t.Errorf("expected first row to be the marker entry, got %v", rows[0].Type)
	}
}

func TestRunWritesOneLinePerEntry(t *testing.T) {
	fw := &wad.FlatWad{Entries: []wad.FlatEntry{
		{Name: "MYFLAT", Entry: wad.WadEntry[[]byte]{Typ: wad.Flat, Data: []byte{1, 2, 3}}},
	}}
	data, err := fw.Write()
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	path := writeTemp(t, data)

	var buf bytes.Buffer
	if err := Run(&buf, path); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(buf.String(), "MYFLAT") {
		t.Errorf("expected output to mention MYFLAT, got %q", buf.String())
	}
}

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := dir + "/DOOM64.WAD"
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
