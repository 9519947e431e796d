// Command query opens a dictionary file built by mkdarts and answers
// common-prefix lookups read from stdin, one query per line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/codewanderer/darts"
	"github.com/codewanderer/darts/bytesx"
	"github.com/codewanderer/darts/diag"
	"github.com/codewanderer/darts/mmapfile"
)

func main() {
	variant := flag.String("variant", "v1", "unit layout: v0, v1 or huge")
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: query [-variant v0|v1|huge] INDEX_FILE")
		os.Exit(1)
	}
	if err := run(args[0], *variant); err != nil {
		diag.DropError("query", err)
		os.Exit(1)
	}
}

func run(indexFile, variant string) error {
	m, err := mmapfile.Open(indexFile)
	if err != nil {
		return err
	}
	defer m.Close()

	var dict *darts.Dictionary
	switch variant {
	case "v0":
		dict, err = darts.LoadV0(m.Bytes())
	case "v1":
		dict, err = darts.Load(m.Bytes())
	case "huge":
		dict, err = darts.LoadHuge(m.Bytes())
	default:
		return fmt.Errorf("unknown variant %q", variant)
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", indexFile, err)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	results := make([]darts.Result, 64)
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		lineBytes := sc.Bytes()
		line := bytesx.B2s(lineBytes)
		if line == "" {
			continue
		}
		n := dict.CommonPrefix(lineBytes, results)
		if n == 0 {
			fmt.Fprintf(out, "%s: not found\n", line)
			continue
		}
		parts := make([]string, 0, n)
		for i := 0; i < n && i < len(results); i++ {
			parts = append(parts, fmt.Sprintf("%d:%d", results[i].Value, results[i].Length))
		}
		fmt.Fprintf(out, "%s: found, num = %d %s\n", line, n, strings.Join(parts, " "))
	}
	return sc.Err()
}
