// File: pool/cache.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded handle-reuse cache over a fixed array of atomically swapped
// slots. Acquire takes the first non-empty slot in a single linear pass;
// release pushes onto slot 0 and cascades the displaced occupant toward
// the end. First available, not best available: the approximate policy
// keeps every slot operation a single atomic exchange with no retries and
// no global lock.

// Package pool implements the shared handle cache that amortizes native
// heap allocation across many buffers.
package pool

import (
	"runtime"
	"sync/atomic"

	"github.com/momentics/nativebuf/api"
	"github.com/momentics/nativebuf/heap"
)

// Default cache tuning.
const (
	DefaultMinSize     = 64   // floor in bytes applied to every acquisition
	DefaultMaxSize     = 2048 // ceiling in bytes above which a handle is not retained
	DefaultSlotsPerCPU = 4
)

// Config holds cache parameters, immutable after New.
//
// SlotCount bounds the pool both ways: worst-case idle footprint is
// SlotCount*MaxSize bytes, and a burst of more than SlotCount concurrent
// releases pushes the excess off the end of the array and frees it. Size
// SlotCount for the expected release burst, not just for footprint.
type Config struct {
	MinSize   uint64 // acquisition floor; zero means DefaultMinSize
	MaxSize   uint64 // retention ceiling; zero means DefaultMaxSize
	SlotCount int    // slot array length; zero means DefaultSlotsPerCPU*NumCPU
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		MinSize:   DefaultMinSize,
		MaxSize:   DefaultMaxSize,
		SlotCount: DefaultSlotsPerCPU * runtime.NumCPU(),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MinSize == 0 {
		c.MinSize = d.MinSize
	}
	if c.MaxSize == 0 {
		c.MaxSize = d.MaxSize
	}
	if c.MaxSize < c.MinSize {
		c.MaxSize = c.MinSize
	}
	if c.SlotCount <= 0 {
		c.SlotCount = d.SlotCount
	}
	return c
}

// HandleCache is a bounded pool of idle heap handles. All methods are safe
// for concurrent use; operations on different slots never block each other
// and the only point of contention is the atomic exchange on one slot.
type HandleCache struct {
	cfg   Config
	slots []atomic.Pointer[heap.Handle]
	leaks reclaimQueue

	closed atomic.Bool

	hits      atomic.Int64
	misses    atomic.Int64
	grown     atomic.Int64
	discarded atomic.Int64
	displaced atomic.Int64
	reclaimed atomic.Int64
}

var (
	_ api.HandleCache   = (*HandleCache)(nil)
	_ api.LeakReclaimer = (*HandleCache)(nil)
)

// New creates a cache from cfg. Zero-valued fields fall back to defaults.
func New(cfg Config) *HandleCache {
	cfg = cfg.withDefaults()
	return &HandleCache{
		cfg:   cfg,
		slots: make([]atomic.Pointer[heap.Handle], cfg.SlotCount),
	}
}

// Acquire returns a handle of at least minSize bytes (clamped up to the
// configured floor). A pooled handle smaller than the request is resized
// up before it is returned; on a miss a fresh handle of exactly the
// requested size is allocated. The caller becomes the exclusive owner.
func (c *HandleCache) Acquire(minSize uint64) (api.Handle, error) {
	if c.closed.Load() {
		return nil, api.ErrCacheClosed
	}
	c.drainLeaks()
	if minSize < c.cfg.MinSize {
		minSize = c.cfg.MinSize
	}
	for i := range c.slots {
		h := c.slots[i].Swap(nil)
		if h == nil {
			continue
		}
		if h.Len() < minSize {
			if err := h.Resize(minSize); err != nil {
				// Still valid after a failed resize; keep it pooled.
				c.push(h)
				return nil, err
			}
			c.grown.Add(1)
		}
		c.hits.Add(1)
		return h, nil
	}
	c.misses.Add(1)
	return heap.Alloc(minSize)
}

// Release transfers ownership of h back to the cache. Handles above the
// size ceiling are freed immediately instead of pooled, bounding the
// footprint regardless of churn in large-buffer callers.
func (c *HandleCache) Release(h api.Handle) {
	hh, ok := h.(*heap.Handle)
	if !ok {
		// Foreign implementations cannot occupy slots; ownership was
		// transferred, so free rather than leak.
		if h != nil {
			_ = h.Free()
		}
		return
	}
	if hh == nil || hh.Freed() {
		return
	}
	if c.closed.Load() || hh.Len() > c.cfg.MaxSize {
		_ = hh.Free()
		c.discarded.Add(1)
		return
	}
	c.push(hh)
}

// push cascades h from slot 0 forward. The incoming handle always lands
// on top, so slot 0 holds the most recently released eligible handle and
// displaced occupants migrate toward the end. Whatever falls off the last
// slot is freed.
func (c *HandleCache) push(h *heap.Handle) {
	cur := h
	for i := range c.slots {
		cur = c.slots[i].Swap(cur)
		if cur == nil {
			return
		}
	}
	_ = cur.Free()
	c.displaced.Add(1)
}

// ReclaimLeak accepts a handle recovered by a buffer finalizer. The handle
// is queued and folded back into the pool on the next Acquire or Flush so
// the finalizer goroutine never frees to the OS. Leak mitigation only.
func (c *HandleCache) ReclaimLeak(h api.Handle) {
	hh, ok := h.(*heap.Handle)
	if !ok || hh == nil || hh.Freed() {
		return
	}
	c.leaks.push(hh)
	c.reclaimed.Add(1)
}

func (c *HandleCache) drainLeaks() {
	for {
		h := c.leaks.pop()
		if h == nil {
			return
		}
		if h.Len() > c.cfg.MaxSize {
			_ = h.Free()
			c.discarded.Add(1)
			continue
		}
		c.push(h)
	}
}

// Flush frees every pooled and queued handle. The cache stays usable.
func (c *HandleCache) Flush() {
	for {
		h := c.leaks.pop()
		if h == nil {
			break
		}
		_ = h.Free()
	}
	for i := range c.slots {
		if h := c.slots[i].Swap(nil); h != nil {
			_ = h.Free()
		}
	}
}

// Close flushes the pool and rejects further acquisitions. Idempotent:
// later calls find every slot empty. Callers must release or abandon
// outstanding handles before teardown.
func (c *HandleCache) Close() {
	c.closed.Store(true)
	c.Flush()
}

// Stats reports activity counters.
func (c *HandleCache) Stats() api.CacheStats {
	return api.CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Grown:     c.grown.Load(),
		Discarded: c.discarded.Load(),
		Displaced: c.displaced.Load(),
		Reclaimed: c.reclaimed.Load(),
		Slots:     c.cfg.SlotCount,
	}
}
