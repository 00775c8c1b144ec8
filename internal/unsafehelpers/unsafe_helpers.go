// Package unsafehelpers centralises **all** unavoidable usage of the
// `unsafe` standard-library package so that the rest of internarena stays
// clean and easier to audit. Every helper is documented with clear
// pre-/post-conditions.
//
// ⚠️ DISCLAIMER These helpers deliberately break the Go memory-safety model
// for the sake of zero-allocation conversions between arena-owned bytes and
// the strings/keys handed back to callers. Use ONLY inside this repository;
// they are not part of the public API and may change without notice.
// Misuse will lead to subtle data races or garbage-collector corruption.
//
// All functions are go:linkname-free, cgo-free and pure Go 1.24.
//
// © 2025 internarena authors. MIT License.
package unsafehelpers

import "unsafe"

// BytesToString converts a byte slice to a string without allocating. The
// caller must guarantee that b is never written to again for the lifetime
// of the resulting string; this is exactly how the arena hands out interned
// strings backed by its own bucket storage.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// StringToBytes re-interprets string data as a byte slice without copying.
// The slice MUST remain read-only: writing through it mutates memory the Go
// runtime assumes is immutable. Used when interning a caller's string, to
// avoid one extra allocation before the bytes are copied into the arena.
func StringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
