package main

// main.go implements the internarena-inspect CLI: it reads a newline
// delimited corpus of strings (a file or stdin), interns every line into a
// Rodeo, and reports how much the interner saved versus naive storage.
// The version variable is set by GoReleaser-style ldflags.
//
// © 2025 internarena authors. MIT License.

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Voskan/internarena/pkg/internarena"
	"github.com/Voskan/internarena/pkg/key"
	"github.com/dustin/go-humanize"
)

var version = "dev"

type options struct {
	input    string
	jsonOut  bool
	showVer  bool
	maxBytes int64
}

type report struct {
	Lines           int    `json:"lines"`
	DistinctStrings int    `json:"distinct_strings"`
	ArenaBytes      int64  `json:"arena_bytes"`
	ArenaBytesHuman string `json:"arena_bytes_human"`
	RawBytes        int64  `json:"raw_bytes_if_uninterned"`
	RawBytesHuman   string `json:"raw_bytes_if_uninterned_human"`
}

func main() {
	opts := parseFlags()

	if opts.showVer {
		fmt.Println(version)
		return
	}

	if err := run(opts); err != nil {
		fatal(err)
	}
}

func parseFlags() *options {
	opts := &options{}
	flag.StringVar(&opts.input, "input", "-", "path to a newline-delimited string corpus, or - for stdin")
	flag.BoolVar(&opts.jsonOut, "json", false, "print the report as JSON instead of text")
	flag.BoolVar(&opts.showVer, "version", false, "print version and exit")
	flag.Int64Var(&opts.maxBytes, "max-bytes", 0, "optional arena byte ceiling (0 means unbounded)")
	flag.Parse()
	return opts
}

func run(opts *options) error {
	var in io.Reader = os.Stdin
	if opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	rodeoOpts := []internarena.Option{}
	if opts.maxBytes > 0 {
		rodeoOpts = append(rodeoOpts, internarena.WithMaxByteLimit(opts.maxBytes))
	}
	ia, err := internarena.New[key.KeyPtr, *key.KeyPtr](rodeoOpts...)
	if err != nil {
		return err
	}

	var lines, rawBytes int
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		lines++
		rawBytes += len(line)
		if _, err := ia.TryIntern(line); err != nil {
			return fmt.Errorf("line %d: %w", lines, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	rep := report{
		Lines:           lines,
		DistinctStrings: ia.Len(),
		ArenaBytes:      ia.ArenaBytes(),
		RawBytes:        int64(rawBytes),
	}
	rep.ArenaBytesHuman = humanize.Bytes(uint64(rep.ArenaBytes))
	rep.RawBytesHuman = humanize.Bytes(uint64(rep.RawBytes))

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return prettyPrint(rep)
}

func prettyPrint(rep report) error {
	fmt.Printf("Lines read:       %d\n", rep.Lines)
	fmt.Printf("Distinct strings: %d\n", rep.DistinctStrings)
	fmt.Printf("Arena bytes:      %s\n", rep.ArenaBytesHuman)
	fmt.Printf("Raw bytes:        %s\n", rep.RawBytesHuman)
	if rep.Lines > 0 {
		savedPct := 100 * (1 - float64(rep.DistinctStrings)/float64(rep.Lines))
		fmt.Printf("Dedup ratio:      %.1f%% of lines were repeats\n", savedPct)
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "internarena-inspect:", err)
	os.Exit(1)
}
