//go:build !linux && !darwin

package memprotect

// Protect is a no-op on platforms without a wired mprotect equivalent.
func Protect(data []byte) error { return nil }

// Supported reports whether Protect can do anything useful on this platform.
func Supported() bool { return false }
