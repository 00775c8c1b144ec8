package main

// main.go demonstrates persisting a frozen interner to disk via BadgerDB:
// a durable snapshot of an already-frozen ResolverView, so a process can
// intern once, persist the result, and later resolve keys in a separate
// process without re-reading the original corpus or re-running TryIntern.
//
// Usage:
//
//	internarena-snapshot -mode snapshot -input words.txt -db ./snap.badger
//	internarena-snapshot -mode resolve  -db ./snap.badger -index 42
//
// © 2025 internarena authors. MIT License.

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/Voskan/internarena/pkg/internarena"
	"github.com/Voskan/internarena/pkg/key"
)

func main() {
	mode := flag.String("mode", "snapshot", "snapshot | resolve")
	input := flag.String("input", "", "newline-delimited string corpus (snapshot mode)")
	dbPath := flag.String("db", "./internarena.badger", "badger directory")
	index := flag.Uint64("index", 0, "zero-based index to resolve (resolve mode)")
	flag.Parse()

	switch *mode {
	case "snapshot":
		if err := runSnapshot(*input, *dbPath); err != nil {
			log.Fatalf("internarena-snapshot: %v", err)
		}
	case "resolve":
		if err := runResolve(*dbPath, *index); err != nil {
			log.Fatalf("internarena-snapshot: %v", err)
		}
	default:
		log.Fatalf("internarena-snapshot: unknown -mode %q", *mode)
	}
}

// runSnapshot interns every line of input, freezes the result into a
// ResolverView, and writes it to a fresh Badger database keyed by the
// big-endian-encoded zero-based index of each string.
func runSnapshot(inputPath, dbPath string) error {
	if inputPath == "" {
		return fmt.Errorf("-input is required in snapshot mode")
	}
	f, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	rodeo, err := internarena.New[key.KeyPtr, *key.KeyPtr]()
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if _, err := rodeo.TryIntern(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	resolver := rodeo.IntoResolver()

	opts := badger.DefaultOptions(dbPath).WithLogger(nil)
	bdb, err := badger.Open(opts)
	if err != nil {
		return err
	}
	defer bdb.Close()

	it := resolver.Strings()
	idx := uint64(0)
	return bdb.Update(func(txn *badger.Txn) error {
		for {
			s, ok := it.Next()
			if !ok {
				break
			}
			if err := txn.Set(indexKeyBytes(idx), []byte(s)); err != nil {
				return err
			}
			idx++
		}
		log.Printf("internarena-snapshot: wrote %d strings to %s", idx, dbPath)
		return nil
	})
}

// runResolve reads a single string back out of a previously written Badger
// snapshot by its zero-based index, without reconstructing any interner.
func runResolve(dbPath string, idx uint64) error {
	opts := badger.DefaultOptions(dbPath).WithLogger(nil)
	bdb, err := badger.Open(opts)
	if err != nil {
		return err
	}
	defer bdb.Close()

	return bdb.View(func(txn *badger.Txn) error {
		item, err := txn.Get(indexKeyBytes(idx))
		if err != nil {
			return fmt.Errorf("index %d: %w", idx, err)
		}
		return item.Value(func(b []byte) error {
			fmt.Println(string(b))
			return nil
		})
	})
}

func indexKeyBytes(idx uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, idx)
	return b
}
