// Command d64wad builds, extracts, and inspects Doom 64 IWAD archives and
// their WDD/WMD/WSD sound sidecars.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/n64iwad/d64wad/build"
	"github.com/n64iwad/d64wad/diag"
	"github.com/n64iwad/d64wad/extract"
	"github.com/n64iwad/d64wad/inspect"
)

const appVersion = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		runBuild(os.Args[2:])
	case "extract":
		runExtract(os.Args[2:])
	case "inspect":
		runInspect(os.Args[2:])
	case "-version", "--version", "version":
		fmt.Printf("d64wad version %s\n", appVersion)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  build    assemble a directory/archive tree into an IWAD\n")
	fmt.Fprintf(os.Stderr, "  extract  decode an IWAD's entries back to editable files\n")
	fmt.Fprintf(os.Stderr, "  inspect  print a one-line summary of every entry\n\n")
	fmt.Fprintf(os.Stderr, "Run `%s <command> -h` for command-specific options.\n", os.Args[0])
}

func runBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	output := fs.String("output", "DOOM64.WAD", "IWAD file to output to")
	exclude := fs.String("exclude", "", "comma-separated glob patterns to exclude entry names")
	noCompress := fs.Bool("no-compress", false, "do not recompress WAD data")
	noSound := fs.Bool("no-sound", false, "do not generate WDD/WMD/WSD files")
	wdd := fs.String("wdd", "", "path to output WDD to [default: <output>.WDD]")
	wmd := fs.String("wmd", "", "path to output WMD to [default: <output>.WMD]")
	wsd := fs.String("wsd", "", "path to output WSD to [default: <output>.WSD]")
	debug := fs.Bool("v", false, "print debug-level progress")
	fs.Parse(args) //nolint:errcheck // flag.ExitOnError already terminates on failure

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: at least one input directory/archive/ROM is required")
		fs.Usage()
		os.Exit(1)
	}

	d := diag.NewWriter(os.Stderr, *debug)
	err := build.Run(d, build.Options{
		Inputs:     fs.Args(),
		Output:     *output,
		Exclude:    splitCSV(*exclude),
		NoCompress: *noCompress,
		NoSound:    *noSound,
		WDD:        *wdd,
		WMD:        *wmd,
		WSD:        *wsd,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	outdir := fs.String("outdir", "", "directory to output WAD data into [default: DOOM64]")
	outfile := fs.String("outfile", "", "extract only the first matched entry to this path")
	include := fs.String("include", "", "comma-separated glob patterns to include entry names")
	flatOut := fs.Bool("flat", false, "don't extract lumps to subfolders")
	raw := fs.Bool("raw", false, "keep lumps in raw N64 format")
	fs.Parse(args) //nolint:errcheck // flag.ExitOnError already terminates on failure

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one input WAD/ROM file is required")
		fs.Usage()
		os.Exit(1)
	}

	err := extract.Run(extract.Options{
		Input:   fs.Arg(0),
		OutDir:  *outdir,
		OutFile: *outfile,
		Include: splitCSV(*include),
		Flat:    *flatOut,
		Raw:     *raw,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	fs.Parse(args) //nolint:errcheck // flag.ExitOnError already terminates on failure

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one input WAD/ROM file is required")
		fs.Usage()
		os.Exit(1)
	}

	if err := inspect.Run(os.Stdout, fs.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
