// File: api/handle.go
// Author: momentics <momentics@gmail.com>
//
// Owned native-memory handle abstraction. A handle is the indirect owned
// reference to a block of unmanaged memory, distinct from the raw address,
// carrying length and validity state. Every handle has exactly one owner at
// any instant: the buffer using it, a cache slot holding it idle, or nobody
// once it has been freed.

package api

// Handle describes an owned, resizable region of unmanaged memory.
//
// A handle is not safe for concurrent use; ownership transfer between
// goroutines must go through a HandleCache.
type Handle interface {
	// Len returns the current allocated size in bytes. Zero iff the
	// handle has been freed.
	Len() uint64

	// Resize reallocates the region to n bytes. The underlying address
	// may change. On failure the previous allocation remains valid and
	// unaltered.
	Resize(n uint64) error

	// Free returns the memory to the OS heap. Safe to call more than
	// once; only the first call releases.
	Free() error

	// Uintptr returns the raw address for native calls. The address is
	// valid only while the handle's owner is alive and the handle has
	// not been freed.
	Uintptr() uintptr

	// Bytes returns a mutable view over the full region. The view is
	// invalidated by Resize and Free.
	Bytes() []byte
}

// LeakReclaimer is implemented by caches that accept handles recovered by
// a finalizer safety net. Reclaimed handles are routed back into the pool
// off the hot path instead of being freed on the finalizer goroutine.
type LeakReclaimer interface {
	ReclaimLeak(h Handle)
}
