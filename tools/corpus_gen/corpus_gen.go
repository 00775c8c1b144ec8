package main

// corpus_gen.go is a tiny helper utility to generate deterministic string
// corpora for standalone benchmarking of internarena (outside `go test`).
// It emits newline-separated identifier-shaped strings which can later be
// fed to internarena-inspect, internarena-snapshot, or external load
// generators.
//
// Usage:
//   go run ./tools/corpus_gen -n 1000000 -dist=zipf -seed=42 -out corpus.txt
//
// Flags:
//   -n        number of lines to generate (default 1e6)
//   -distinct upper bound on distinct identifiers (default 65536)
//   -dist     distribution: "uniform" or "zipf" (default uniform)
//   -zipfs    Zipf s parameter (>1)  (default 1.2)
//   -zipfv    Zipf v parameter (>0)  (default 1.0)
//   -seed     RNG seed (default current time)
//   -out      output file (default stdout)
//
// The program is *embarrassingly simple* but placed under version control so
// that any contributor can regenerate the exact corpus used in performance
// regressions hunting.
//
// © 2025 internarena authors. MIT License.

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"
)

func main() {
	var (
		n        = flag.Int("n", 1_000_000, "number of lines to generate")
		distinct = flag.Uint64("distinct", 1<<16, "upper bound on distinct identifiers")
		dist     = flag.String("dist", "uniform", "distribution: uniform or zipf")
		zipfS    = flag.Float64("zipfs", 1.2, "zipf s parameter (>1)")
		zipfV    = flag.Float64("zipfv", 1.0, "zipf v parameter (>0)")
		seedVal  = flag.Int64("seed", time.Now().UnixNano(), "PRNG seed")
		outPath  = flag.String("out", "", "output file (default stdout)")
	)
	flag.Parse()

	rnd := rand.New(rand.NewSource(*seedVal))

	var gen func() uint64
	switch *dist {
	case "uniform":
		gen = func() uint64 { return rnd.Uint64() % *distinct }
	case "zipf":
		if *zipfS <= 1.0 || *zipfV <= 0 {
			fmt.Fprintln(os.Stderr, "zipfs must be >1 and zipfv >0")
			os.Exit(1)
		}
		z := rand.NewZipf(rnd, *zipfS, *zipfV, *distinct-1)
		gen = z.Uint64
	default:
		fmt.Fprintln(os.Stderr, "unknown dist:", *dist)
		os.Exit(1)
	}

	var out *os.File
	var err error
	if *outPath == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(*outPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot create file:", err)
			os.Exit(1)
		}
		defer out.Close()
	}

	w := bufio.NewWriterSize(out, 1<<20)
	defer w.Flush()

	for i := 0; i < *n; i++ {
		fmt.Fprintf(w, "identifier_%d\n", gen())
	}
}
