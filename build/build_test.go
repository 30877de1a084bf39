package build

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/n64iwad/d64wad/diag"
	"github.com/n64iwad/d64wad/sound"
	"github.com/n64iwad/d64wad/wad"
)

func TestIsMapWad(t *testing.T) {
	cases := map[string]bool{
		"MAPS/MAP01.WAD": true,
		"map02.wad":      true,
		"DOOM64.WAD":     false,
	}
	for path, want := range cases {
		if got := isMapWad(path); got != want {
			t.Errorf("isMapWad(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestRunBuildsFromDirectory(t *testing.T) {
	dir := t.TempDir()
	// A directory name that selects no lump type keeps the .LMP verbatim;
	// under SPRITES the classifier would treat it as a palette.
	if err := os.MkdirAll(filepath.Join(dir, "LUMPS"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "LUMPS", "TROOA1.LMP"), []byte{1, 2, 3, 4}, 0o644); err != nil {
		t.Fatal(err)
	}

	output := filepath.Join(t.TempDir(), "DOOM64.WAD")
	err := Run(diag.Nop{}, Options{
		Inputs:     []string{dir},
		Output:     output,
		NoSound:    true,
		NoCompress: true,
		Sound:      sound.Empty{},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	fw, err := wad.ParseFlatWad(data)
	if err != nil {
		t.Fatalf("ParseFlatWad: %v", err)
	}
	var found bool
	for _, e := range fw.Entries {
		if e.Name == "TROOA1" {
			found = true
			if !bytes.Equal(e.Entry.Data, []byte{1, 2, 3, 4}) {
				t.Errorf("got data %v, want [1 2 3 4]", e.Entry.Data)
			}
		}
	}
	if !found {
		t.Fatal("expected TROOA1 entry in built IWAD")
	}
}

func TestRunWritesSoundSidecarsWhenEnabled(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(t.TempDir(), "DOOM64.WAD")
	err := Run(diag.Nop{}, Options{
		Inputs: []string{dir},
		Output: output,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, ext := range []string{".WDD", ".WMD", ".WSD"} {
		path := output[:len(output)-len(".WAD")] + ext
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected sidecar %q: %v", path, err)
		}
	}
}
