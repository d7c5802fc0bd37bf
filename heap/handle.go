// File: heap/handle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-owner handle over a region of unmanaged memory. The handle is the
// unit managed by pool.HandleCache; it is never cached itself.

// Package heap allocates and resizes blocks of native memory outside the
// Go-managed heap. Platform allocators live in the alloc_* files.
package heap

import (
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/momentics/nativebuf/api"
)

// maxAlloc is the largest request the platform can address through a
// single region. Requests above it fail with api.ErrSizeOverflow.
const maxAlloc uint64 = math.MaxInt

// Handle owns one native allocation. The zero value is not usable; create
// handles with Alloc. A live handle always has a non-zero length, and a
// freed handle always reports zero: absence of memory and zero length are
// the same state.
//
// A Handle is owned by exactly one party at a time. It is not safe for
// concurrent use; hand it between goroutines through a HandleCache.
type Handle struct {
	data  []byte
	freed atomic.Bool
}

var _ api.Handle = (*Handle)(nil)

// Alloc requests n bytes from the OS heap. n must be positive; zero-length
// native allocations are disallowed by design.
func Alloc(n uint64) (*Handle, error) {
	if n == 0 {
		return nil, api.ErrInvalidSize
	}
	if n > maxAlloc {
		return nil, fmt.Errorf("heap: alloc %d bytes: %w", n, api.ErrSizeOverflow)
	}
	data, err := osAlloc(int(n))
	if err != nil {
		return nil, err
	}
	return &Handle{data: data}, nil
}

// Len returns the current allocated size in bytes.
func (h *Handle) Len() uint64 {
	return uint64(len(h.data))
}

// Resize reallocates the region to n bytes, preserving the common prefix.
// The underlying address may change. On failure the previous allocation is
// left valid and unaltered.
func (h *Handle) Resize(n uint64) error {
	if h.freed.Load() {
		return api.ErrHandleDisposed
	}
	if n == 0 {
		return api.ErrInvalidSize
	}
	if n > maxAlloc {
		return fmt.Errorf("heap: resize %d bytes: %w", n, api.ErrSizeOverflow)
	}
	data, err := osResize(h.data, int(n))
	if err != nil {
		return err
	}
	h.data = data
	return nil
}

// Free returns the memory to the OS heap. Only the first call releases;
// later calls are no-ops so destructor/finalizer races stay harmless.
func (h *Handle) Free() error {
	if !h.freed.CompareAndSwap(false, true) {
		return nil
	}
	data := h.data
	h.data = nil
	return osFree(data)
}

// Freed reports whether the handle has been released to the OS.
func (h *Handle) Freed() bool {
	return h.freed.Load()
}

// Uintptr returns the raw address of the region for native calls, or 0 for
// a freed handle. The caller must keep the handle's owner alive for the
// full duration any native code holds the address.
func (h *Handle) Uintptr() uintptr {
	if len(h.data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(h.data)))
}

// Bytes returns a mutable view over the whole region. Resize and Free
// invalidate the view.
func (h *Handle) Bytes() []byte {
	return h.data
}
