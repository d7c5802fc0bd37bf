//go:build !linux && !windows
// +build !linux,!windows

// File: heap/alloc_other.go
// Author: momentics <momentics@gmail.com>
//
// Fallback allocator for platforms without a first-class backend. Regions
// come from the Go heap; the handle's slice reference pins them, and raw
// addresses stay valid because the collector does not move heap objects.

package heap

func osAlloc(n int) ([]byte, error) {
	return make([]byte, n), nil
}

func osResize(data []byte, n int) ([]byte, error) {
	next := make([]byte, n)
	copy(next, data)
	return next, nil
}

// osFree drops nothing: the region is reclaimed by the GC once the handle
// releases its slice reference.
func osFree([]byte) error {
	return nil
}
