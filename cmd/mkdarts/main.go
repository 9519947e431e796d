// Command mkdarts builds a double-array trie dictionary from a
// newline-separated key file and writes the frozen unit array (plus tail
// region, if any) to an output file, alongside a JSON build manifest.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/codewanderer/darts"
	"github.com/codewanderer/darts/diag"
	"github.com/codewanderer/darts/manifest"
)

func main() {
	variant := flag.String("variant", "v1", "unit layout: v0, v1 or huge")
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: mkdarts [-variant v0|v1|huge] KEY_FILE INDEX_FILE")
		os.Exit(1)
	}
	if err := run(args[0], args[1], *variant); err != nil {
		diag.DropError("mkdarts", err)
		os.Exit(1)
	}
}

func run(keyFile, indexFile, variant string) error {
	keys, err := readKeys(keyFile)
	if err != nil {
		return err
	}

	var dict *darts.Dictionary
	switch variant {
	case "v0":
		dict, err = darts.BuildV0(keys, nil, progressReporter)
	case "v1":
		dict, err = darts.Build(keys, nil, progressReporter)
	case "huge":
		dict, err = darts.BuildHuge(keys, nil, progressReporter)
	default:
		return fmt.Errorf("unknown variant %q", variant)
	}
	if err != nil {
		return fmt.Errorf("building dictionary: %w", err)
	}

	if err := dict.SaveFile(indexFile); err != nil {
		return fmt.Errorf("saving %s: %w", indexFile, err)
	}

	m, err := manifest.New(variant, keys, dict.NumUnits(), dict.TailBytes(), time.Now())
	if err != nil {
		return err
	}
	if err := manifest.Save(manifest.SidecarPath(indexFile), m); err != nil {
		return err
	}

	diag.DropMessage("mkdarts", fmt.Sprintf("wrote %d keys to %s", len(keys), indexFile))
	return nil
}

func progressReporter(leaves, total int) {
	if total > 0 && leaves%4096 == 0 {
		diag.DropMessage("mkdarts", fmt.Sprintf("%d/%d leaves", leaves, total))
	}
}

// readKeys reads newline-separated keys from path (or stdin if path is
// "-"), sorting them ascending since Build requires strictly ascending
// input — mkdarts accepts keys in any order for convenience.
func readKeys(path string) ([][]byte, error) {
	var f *os.File
	if path == "-" {
		f = os.Stdin
	} else {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
	}

	var keys [][]byte
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		keys = append(keys, []byte(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	sort.Slice(keys, func(i, j int) bool { return string(keys[i]) < string(keys[j]) })
	return keys, nil
}
