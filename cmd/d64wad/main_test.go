package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func buildBinary(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "d64wad")
	cmd := exec.Command("go", "build", "-o", binPath, "github.com/n64iwad/d64wad/cmd/d64wad")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, out)
	}
	return binPath
}

func TestCLIVersion(t *testing.T) {
	bin := buildBinary(t)
	out, err := exec.Command(bin, "version").CombinedOutput()
	if err != nil {
		t.Fatalf("version command failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "d64wad version") {
		t.Errorf("version output incorrect: %s", out)
	}
}

func TestCLIBuildExtractInspectRoundTrip(t *testing.T) {
	bin := buildBinary(t)

	// A directory name that selects no lump type keeps the .LMP verbatim;
	// under SPRITES the classifier would treat it as a palette.
	srcDir := filepath.Join(t.TempDir(), "src", "LUMPS")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "TROOA1.LMP"), []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}

	output := filepath.Join(t.TempDir(), "DOOM64.WAD")
	out, err := exec.Command(bin, "build", "-no-sound", "-no-compress", "-output", output, filepath.Dir(srcDir)).CombinedOutput()
	if err != nil {
		t.Fatalf("build command failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output IWAD: %v", err)
	}

	out, err = exec.Command(bin, "inspect", output).CombinedOutput()
	if err != nil {
		t.Fatalf("inspect command failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "TROOA1") {
		t.Errorf("expected inspect output to mention TROOA1, got %s", out)
	}
}
