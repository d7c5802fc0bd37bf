// File: buffer/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Caller-facing resizable native byte region. A Buffer wraps at most one
// heap handle, grows it on demand through the shared cache, and returns
// it to the cache exactly once when freed.

// Package buffer provides resizable blocks of unmanaged memory for
// native-interop call sites, backed by the pool handle cache.
package buffer

import (
	"runtime"

	"github.com/momentics/nativebuf/api"
	"github.com/momentics/nativebuf/pool"
)

// Buffer is a resizable region of native memory. Capacity grows
// monotonically via EnsureByteCapacity; Free releases the underlying
// handle back to the cache and resets capacity to zero.
//
// A Buffer is not safe for concurrent use. Only the shared cache behind
// it is designed for concurrent access from many buffers.
type Buffer struct {
	cache  api.HandleCache
	handle api.Handle
}

// New creates a buffer backed by the process-wide cache. A non-zero
// initialMinCapacity pre-grows the buffer.
func New(initialMinCapacity uint64) (*Buffer, error) {
	return NewWithCache(pool.Default(), initialMinCapacity)
}

// NewWithCache creates a buffer backed by an explicit cache.
func NewWithCache(cache api.HandleCache, initialMinCapacity uint64) (*Buffer, error) {
	b := &Buffer{cache: cache}
	if initialMinCapacity > 0 {
		if err := b.EnsureByteCapacity(initialMinCapacity); err != nil {
			return nil, err
		}
	}
	// Safety net against leaked buffers. Never relied on for
	// correctness; callers are expected to Free deterministically.
	runtime.SetFinalizer(b, finalize)
	return b, nil
}

func finalize(b *Buffer) {
	if b.handle == nil {
		return
	}
	if rc, ok := b.cache.(api.LeakReclaimer); ok {
		rc.ReclaimLeak(b.handle)
	} else {
		b.cache.Release(b.handle)
	}
	b.handle = nil
}

// ByteCapacity returns the current capacity in bytes. Zero iff no handle
// is held.
func (b *Buffer) ByteCapacity() uint64 {
	if b.handle == nil {
		return 0
	}
	return b.handle.Len()
}

// EnsureByteCapacity grows the buffer to at least minCapacity bytes. A
// request at or below the current capacity is a no-op; capacity never
// shrinks implicitly. The resulting capacity may exceed the request when
// the cache returns an oversized idle handle.
//
// On failure the buffer keeps its prior capacity and stays usable.
func (b *Buffer) EnsureByteCapacity(minCapacity uint64) error {
	if minCapacity <= b.ByteCapacity() {
		return nil
	}
	if b.handle == nil {
		h, err := b.cache.Acquire(minCapacity)
		if err != nil {
			return err
		}
		b.handle = h
		return nil
	}
	// The handle is already exclusively owned; growing it in place is
	// cheaper than a round trip through the pool.
	return b.handle.Resize(minCapacity)
}

// ByteAt returns the byte at offset i.
func (b *Buffer) ByteAt(i uint64) (byte, error) {
	if i >= b.ByteCapacity() {
		return 0, api.ErrOutOfRange
	}
	return b.handle.Bytes()[i], nil
}

// SetByteAt stores v at offset i.
func (b *Buffer) SetByteAt(i uint64, v byte) error {
	if i >= b.ByteCapacity() {
		return api.ErrOutOfRange
	}
	b.handle.Bytes()[i] = v
	return nil
}

// Bytes returns a mutable view over the buffer's full capacity, or nil
// when empty. EnsureByteCapacity and Free invalidate the view.
func (b *Buffer) Bytes() []byte {
	if b.handle == nil {
		return nil
	}
	return b.handle.Bytes()
}

// Uintptr returns the raw address of the region for native calls, or 0
// when empty. The caller must keep the Buffer reachable and unfreed for
// the full duration any native code holds the address; use
// runtime.KeepAlive(b) after the last native use.
func (b *Buffer) Uintptr() uintptr {
	if b.handle == nil {
		return 0
	}
	return b.handle.Uintptr()
}

// Free releases the held handle back to the cache and clears capacity to
// zero. This is also the shrink-to-zero path: zero-length native
// allocations are disallowed, absence of a handle models zero capacity.
// Safe to call repeatedly, and the buffer may grow again afterwards.
func (b *Buffer) Free() {
	if b.handle == nil {
		return
	}
	h := b.handle
	b.handle = nil
	b.cache.Release(h)
}
