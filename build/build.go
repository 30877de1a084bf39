// Package build implements the build-pipeline orchestrator of spec.md §4.8
// and §6: walk one or more directory/archive/ROM inputs, classify and
// decode each entry, accumulate them into a structured Wad per input
// (sorted, then merged later-wins into the running IWAD), flatten the
// result to on-disk shape, optionally compress it, and write the IWAD plus
// its WDD/WMD/WSD sidecars.
package build

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/n64iwad/d64wad/archive"
	"github.com/n64iwad/d64wad/classify"
	"github.com/n64iwad/d64wad/diag"
	"github.com/n64iwad/d64wad/gfx"
	"github.com/n64iwad/d64wad/rom"
	"github.com/n64iwad/d64wad/sound"
	"github.com/n64iwad/d64wad/wad"
)

// Options controls one build run, mirroring the build subcommand's flags
// from spec.md §6.
type Options struct {
	Inputs        []string
	Output        string // default "DOOM64.WAD"
	Exclude       []string
	NoCompress    bool
	NoSound       bool
	WDD, WMD, WSD string // default derived from Output's stem

	// Sound is the caller's sidecar-generation collaborator. A nil Sound
	// falls back to sound.Empty{}, matching the out-of-scope MIDI/SF2/
	// DLS/WAV ingestion this module does not implement.
	Sound sound.Data
}

// Run executes one build: walking Options.Inputs, accumulating entries into
// an IWAD, and writing it (plus sidecars, unless NoSound) to disk. Per-file
// read/classify errors are logged via d and the offending file is skipped;
// errors assembling or writing the output IWAD or the sound sidecars are
// returned.
func Run(d diag.Diagnostics, opts Options) error {
	output := opts.Output
	if output == "" {
		output = "DOOM64.WAD"
	}
	snd := opts.Sound
	if snd == nil {
		snd = sound.Empty{}
	}

	iwad := wad.New()
	for _, input := range opts.Inputs {
		if err := loadInput(d, iwad, snd, input, opts.Exclude); err != nil {
			d.Warn("skipping input %q: %v", input, err)
		}
	}

	flat := iwad.Flatten()
	d.Info("writing %q with %d entries", output, len(flat.Entries))
	if !opts.NoCompress {
		flat.Compress()
	}
	data, err := flat.Write()
	if err != nil {
		return fmt.Errorf("build: assemble %q: %w", output, err)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil { //nolint:gosec // IWAD output is not sensitive
		return fmt.Errorf("build: write %q: %w", output, err)
	}

	if opts.NoSound {
		return nil
	}
	if err := snd.Compress(); err != nil {
		return fmt.Errorf("build: compress sound data: %w", err)
	}
	stem := strings.TrimSuffix(output, filepath.Ext(output))
	if err := writeSidecar(opts.WDD, stem+".WDD", snd.WriteWDD); err != nil {
		return err
	}
	if err := writeSidecar(opts.WMD, stem+".WMD", snd.WriteWMD); err != nil {
		return err
	}
	if err := writeSidecar(opts.WSD, stem+".WSD", snd.WriteWSD); err != nil {
		return err
	}
	return nil
}

func writeSidecar(explicit, fallback string, write func(io.Writer) error) error {
	path := explicit
	if path == "" {
		path = fallback
	}
	f, err := os.Create(path) //nolint:gosec // sidecar output path is caller-controlled
	if err != nil {
		return fmt.Errorf("build: create %q: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("build: write %q: %w", path, err)
	}
	return nil
}

// isMapWad reports whether path's stem upper-cases to start with "MAP",
// distinguishing a loose per-map PWAD input from a full IWAD/ROM input.
func isMapWad(path string) bool {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.HasPrefix(strings.ToUpper(stem), "MAP")
}

// loadInput dispatches one top-level build input: a ROM/IWAD is merged
// directly into iwad (flattened form), everything else (a directory, a
// loose file, or a supported archive) is walked, classified, and merged
// into a fresh per-input Wad that is sorted before folding into iwad.
func loadInput(d diag.Diagnostics, iwad *wad.Wad, snd sound.Data, input string, excludes []string) error {
	ext := strings.ToLower(filepath.Ext(input))
	if ext == ".z64" || ext == ".v64" || ext == ".n64" || (ext == ".wad" && !isMapWad(input)) {
		return loadROMOrIWAD(d, iwad, input)
	}

	d.Info("reading %q", input)
	pwad := wad.New()
	if archive.IsArchiveExtension(ext) {
		if err := walkArchive(d, pwad, snd, input, excludes); err != nil {
			return err
		}
	} else {
		if err := walkFS(d, pwad, snd, input, excludes); err != nil {
			return err
		}
	}
	pwad.Sort()
	iwad.Merge(pwad)
	return nil
}

// loadROMOrIWAD loads a full ROM dump or a previously-built IWAD file and
// merges its flat directory straight into iwad. ROM cartridge-layout
// identification is intentionally limited to rom.KnownROMs (empty by
// default): this module ships no proprietary retail hashes/offsets.
func loadROMOrIWAD(d diag.Diagnostics, iwad *wad.Wad, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".z64" || ext == ".v64" || ext == ".n64" {
		img, err := rom.Read(path)
		if err != nil {
			return fmt.Errorf("read ROM: %w", err)
		}
		fw, err := wad.ParseFlatWad(img.Wad)
		if err != nil {
			return fmt.Errorf("parse IWAD slice: %w", err)
		}
		iwad.MergeFlat(d, fw)
		return nil
	}
	raw, err := os.ReadFile(path) //nolint:gosec // caller-supplied build input
	if err != nil {
		return fmt.Errorf("read %q: %w", path, err)
	}
	fw, err := wad.ParseFlatWad(raw)
	if err != nil {
		return fmt.Errorf("parse %q: %w", path, err)
	}
	iwad.MergeFlat(d, fw)
	return nil
}

// walkFS walks a directory tree (or a single loose file) on disk, applying
// the same directory/extension/name-override classification layering as
// the archive walker.
func walkFS(d diag.Diagnostics, w *wad.Wad, snd sound.Data, root string, excludes []string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		data, err := os.ReadFile(root) //nolint:gosec // caller-supplied build input
		if err != nil {
			return err
		}
		loadOne(d, w, snd, filepath.Base(root), excludes, classify.BaseTypeForPath(""), data)
		return nil
	}
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			d.Warn("walk %q: %v", path, err)
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		data, err := os.ReadFile(path) //nolint:gosec // caller-supplied build input
		if err != nil {
			d.Warn("read %q: %v", path, err)
			return nil
		}
		loadOne(d, w, snd, rel, excludes, classify.BaseTypeForPath(filepath.ToSlash(rel)), data)
		return nil
	})
}

// walkArchive iterates every member of a ZIP/PK3/7z/RAR archive, applying
// the same classification rules as a loose directory tree would.
func walkArchive(d diag.Diagnostics, w *wad.Wad, snd sound.Data, path string, excludes []string) error {
	r, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	entries, err := r.List()
	if err != nil {
		return err
	}
	for _, e := range entries {
		rc, _, err := r.Open(e.Name)
		if err != nil {
			d.Warn("open %q in %q: %v", e.Name, path, err)
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			d.Warn("read %q in %q: %v", e.Name, path, err)
			continue
		}
		loadOne(d, w, snd, e.Name, excludes, classify.BaseTypeForPath(filepath.ToSlash(e.Name)), data)
	}
	return nil
}

// loadOne classifies, decodes (PNG/PAL-to-wire, or verbatim), and merges
// one file's bytes into w; loose audio/SoundFont stems are logged and
// skipped. relPath is the path relative to the input root, used only for
// the directory-context base type (classify.BaseTypeForPath) and glob
// matching against name; it is not itself the entry name.
func loadOne(d diag.Diagnostics, w *wad.Wad, snd sound.Data, relPath string, excludes []string, dirBase wad.LumpType, data []byte) {
	ext := filepath.Ext(relPath)
	stem := strings.TrimSuffix(filepath.Base(relPath), ext)
	g := classify.Globs{Exclude: excludes}
	if !g.NameAllowed(stem) {
		return
	}
	typ := classify.ApplyExtensionOverride(dirBase, stem, ext)
	typ = classify.ApplyNameOverride(typ, stem)

	upperExt := strings.ToUpper(ext)
	encoded, name, err := encodeEntry(typ, upperExt, stem, data)
	if err != nil {
		d.Warn("decode %q: %v", relPath, err)
		return
	}
	switch typ {
	case wad.Sample, wad.SoundFont, wad.Sequence:
		d.Debug("skipping audio stem %q: MIDI/SF2/DLS/WAV ingestion is out of scope", stem)
		_ = snd
	default:
		w.MergeOne(d, name, wad.WadEntry[[]byte]{Typ: typ, Data: encoded})
	}
}

// encodeEntry converts a source file's bytes into the on-disk wire shape
// MergeOne expects: PNG sources are decoded and re-serialized through the
// matching gfx codec, .PAL sources (256 RGB triples) are repacked into an
// 8-byte palette header plus 16-bit RGB5A1 entries, and everything else (already-wire-shaped .LMP files, nested map WADs)
// passes through untouched.
func encodeEntry(typ wad.LumpType, ext, stem string, data []byte) ([]byte, wad.EntryName, error) {
	name := classify.CanonicalName(stem)
	isPNG := ext == ".PNG"
	switch {
	case typ == wad.Palette && ext == ".PAL":
		if len(data) < 256*3 {
			return nil, name, fmt.Errorf("palette %q has fewer than 256 RGB entries", stem)
		}
		colors := gfx.DecodeRawPalette(data)
		return gfx.EncodePalette(colors), name, nil
	case (typ == wad.Graphic || typ == wad.Fire || typ == wad.Cloud) && isPNG:
		gr, err := gfx.DecodeGraphicPNG(newReader(data))
		if err != nil {
			return nil, name, err
		}
		return gr.ToBytes(), name, nil
	case (typ == wad.Texture || typ == wad.Flat) && isPNG:
		tx, err := gfx.DecodeTexturePNG(newReader(data))
		if err != nil {
			return nil, name, err
		}
		return tx.ToBytes(), name, nil
	case (typ == wad.Sprite || typ == wad.HudGraphic || typ == wad.Sky) && isPNG:
		sp, err := gfx.DecodeSpritePNG(newReader(data))
		if err != nil {
			return nil, name, err
		}
		return sp.ToBytes(), name, nil
	default:
		return data, name, nil
	}
}

func newReader(data []byte) io.Reader { return bytes.NewReader(data) }
