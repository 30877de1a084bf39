// Package inspect implements the read-only inspection operation of
// spec.md §6: walk a parsed FlatWad and summarize each entry without
// extracting or rewriting anything. It was reconstructed from the CLI
// surface table and the FlatWad/Wad types it walks, since the `inspect`
// module itself was filtered from the retrieved source.
package inspect

import (
	"fmt"
	"io"

	"github.com/n64iwad/d64wad/extract"
	"github.com/n64iwad/d64wad/gfx"
	"github.com/n64iwad/d64wad/wad"
)

// Row is one entry's inspection summary.
type Row struct {
	Index          int
	Name           string
	Type           wad.LumpType
	Compression    wad.CompressionKind
	// CompressedSize is the length of the entry's data as held in the
	// FlatWad; ParseFlatWad has already decoded compressed entries, so it
	// equals DecodedSize.
	CompressedSize int
	DecodedSize    uint32

	// PaletteOffset is only meaningful for Sprite entries with a
	// cross-lump palette reference: the number of entries back to the
	// palette/sprite that supplies it. Zero for every other entry.
	PaletteOffset int
}

// Walk produces one Row per entry of fw, including markers (unlike
// extract.Run, inspection is read-only and never skips anything).
func Walk(fw *wad.FlatWad) []Row {
	rows := make([]Row, 0, len(fw.Entries))
	for i, e := range fw.Entries {
		row := Row{
			Index:          i,
			Name:           string(e.Name),
			Type:           e.Entry.Typ,
			Compression:    e.Entry.Compression.Kind,
			CompressedSize: len(e.Entry.Data),
			DecodedSize:    decodedSize(e),
		}
		if e.Entry.Typ == wad.Sprite {
			if sp, err := gfx.ParseSprite(e.Entry.Data); err == nil && sp.Palette.IsOffset() {
				row.PaletteOffset = sp.Palette.Offset
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func decodedSize(e wad.FlatEntry) uint32 {
	if e.Entry.Compression.Kind != wad.CompressionNone {
		return e.Entry.Compression.OriginalSize
	}
	return uint32(len(e.Entry.Data)) //nolint:gosec // flat entries are bounded by a 32-bit size field
}

// Run reads input (loose WAD/PWAD or ROM-sliced IWAD, via the same
// extract.Read path the extract subcommand uses) and writes one summary
// line per entry to w.
func Run(w io.Writer, input string) error {
	fw, err := extract.Read(input)
	if err != nil {
		return fmt.Errorf("inspect: read %q: %w", input, err)
	}
	for _, row := range Walk(fw) {
		if row.PaletteOffset != 0 {
			fmt.Fprintf(w, "%5d  %-8s %-10s %8d %8d  palette=-%d\n",
				row.Index, row.Name, row.Type, row.CompressedSize, row.DecodedSize, row.PaletteOffset)
		} else {
			fmt.Fprintf(w, "%5d  %-8s %-10s %8d %8d\n",
				row.Index, row.Name, row.Type, row.CompressedSize, row.DecodedSize)
		}
	}
	return nil
}
