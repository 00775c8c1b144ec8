//go:build linux || darwin

// Package memprotect optionally hardens a frozen interner's backing memory
// by mprotecting it read-only, so an accidental write-after-freeze faults
// immediately instead of silently corrupting already-resolved strings.
//
// ⚠️ The mmap-then-mprotect trick is only fully sound when the protected
// page belongs exclusively to one allocation. Protect here mprotects the
// page under an ordinary make()-allocated arena bucket, which the Go
// allocator may have packed onto the same page as other, unrelated live
// objects for small bucket sizes — write-protecting it can fault on those
// neighbors too, not just on a stray write through a stale interned
// string. A stricter version would give the bucket its own dedicated,
// page-aligned mmap region instead; this package does not do that. This is
// why the option is opt-in (WithProtectFrozenMemory), off by default, and
// documented as a diagnostic aid rather than a safety guarantee.
//
// © 2025 internarena authors. MIT License.
package memprotect

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// pageSize is resolved once at package initialization via unix.Getpagesize.
var pageSize = unix.Getpagesize()

// Protect attempts to mark the memory pages backing data as read-only. It is
// best-effort: failures are returned but callers are expected to log and
// continue rather than treat protection as load-bearing.
func Protect(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&data[0]))
	pageStart := addr &^ (uintptr(pageSize) - 1)
	end := addr + uintptr(len(data))
	length := end - pageStart

	page := unsafe.Slice((*byte)(unsafe.Pointer(pageStart)), length)
	return unix.Mprotect(page, unix.PROT_READ)
}

// Supported reports whether Protect can do anything useful on this platform.
func Supported() bool { return true }
