// Package classify implements the typed-entry naming and classification
// rules of spec.md §4.5: name canonicalisation, the directory/extension/
// name-override layering used when walking a file tree, and the purely
// positional classifier used when parsing an already-flat sequence.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/n64iwad/d64wad/wad"
)

// CanonicalName applies the two reserved substitutions and upper-cases a
// filename stem into an EntryName, per spec.md §4.5 layer 6 / §3.
func CanonicalName(stem string) wad.EntryName {
	return wad.NewEntryName(stem)
}

// dirBaseTypes maps a case-insensitive directory name to the base
// LumpType descendants of that directory inherit (spec.md §4.5 layer 1).
var dirBaseTypes = map[string]wad.LumpType{
	"SPRITES":  wad.Sprite,
	"PALETTES": wad.Palette,
	"TEXTURES": wad.Texture,
	"FLATS":    wad.Flat,
	"GRAPHICS": wad.Graphic,
	"HUD":      wad.HudGraphic,
	"SKIES":    wad.Sky,
	"MAPS":     wad.Map,
	"SOUNDS":   wad.Sample,
	"MUSIC":    wad.Sequence,
	"DEMOS":    wad.Demo,
}

// BaseTypeForPath inspects up to the first two path components (depth <= 2
// per spec) relative to a walk root and returns the directory-context
// base type, or Unknown if no recognised directory name is present.
func BaseTypeForPath(relPath string) wad.LumpType {
	dir := filepath.ToSlash(filepath.Dir(relPath))
	parts := strings.Split(dir, "/")
	for i, p := range parts {
		if i >= 2 {
			break
		}
		if typ, ok := dirBaseTypes[strings.ToUpper(p)]; ok {
			return typ
		}
	}
	return wad.Unknown
}

// ApplyExtensionOverride implements spec.md §4.5 layer 2.
func ApplyExtensionOverride(base wad.LumpType, stem, ext string) wad.LumpType {
	ext = strings.ToUpper(ext)
	stem = strings.ToUpper(stem)
	switch {
	case base == wad.Sprite && (ext == ".LMP" || ext == ".PAL"):
		return wad.Palette
	case base == wad.Sequence && (ext == ".SF2" || ext == ".DLS"):
		return wad.SoundFont
	case base == wad.Unknown && ext == ".PNG":
		return wad.Graphic
	case base == wad.Unknown && ext == ".WAD":
		return wad.Map
	case base == wad.Unknown:
		switch {
		case strings.HasPrefix(stem, "MAP"):
			return wad.Map
		case strings.HasPrefix(stem, "DEMO"):
			return wad.Demo
		}
	}
	return base
}

// ApplyNameOverride implements spec.md §4.5 layer 3: under a Sky base
// type, the exact stems FIRE and CLOUD refine to their own LumpTypes.
func ApplyNameOverride(base wad.LumpType, stem string) wad.LumpType {
	if base != wad.Sky {
		return base
	}
	switch strings.ToUpper(stem) {
	case "FIRE":
		return wad.Fire
	case "CLOUD":
		return wad.Cloud
	}
	return base
}

// Globs holds the --include/--exclude patterns used by NameAllowed,
// matched with doublestar so both simple and ** patterns work.
type Globs struct {
	Include []string
	Exclude []string
}

// NameAllowed implements spec.md §4.5 layer 4: stems starting with '.',
// longer than 8 bytes, or failing the include/exclude glob set are
// skipped. An empty Include list means "include everything".
func (g Globs) NameAllowed(stem string) bool {
	if strings.HasPrefix(stem, ".") || len(stem) > 8 {
		return false
	}
	for _, pat := range g.Exclude {
		if ok, _ := doublestar.Match(pat, stem); ok {
			return false
		}
	}
	if len(g.Include) == 0 {
		return true
	}
	for _, pat := range g.Include {
		if ok, _ := doublestar.Match(pat, stem); ok {
			return true
		}
	}
	return false
}

// ClassifyWalk runs the full file-walk classification layering (§4.5
// layers 1-4) for one file and returns the resulting type and canonical
// name, or ok=false if the entry should be skipped.
func ClassifyWalk(g Globs, relPath string) (typ wad.LumpType, name wad.EntryName, ok bool) {
	ext := filepath.Ext(relPath)
	stem := strings.TrimSuffix(filepath.Base(relPath), ext)
	if !g.NameAllowed(stem) {
		return 0, "", false
	}
	base := BaseTypeForPath(relPath)
	base = ApplyExtensionOverride(base, stem, ext)
	base = ApplyNameOverride(base, stem)
	return base, CanonicalName(stem), true
}
