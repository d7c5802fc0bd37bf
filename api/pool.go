// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines the abstract handle-reuse cache API: a bounded pool of idle
// native-memory handles shared by many buffers.

package api

// HandleCache amortizes native heap allocation through a bounded pool of
// reusable handles. All methods are safe for concurrent use.
type HandleCache interface {
	// Acquire returns a handle of at least minSize bytes, reusing a
	// pooled handle when one is available. The caller becomes the
	// handle's exclusive owner.
	Acquire(minSize uint64) (Handle, error)

	// Release transfers ownership of h back to the cache. The handle
	// may be pooled for reuse or freed outright; either way the caller
	// must not touch it afterwards.
	Release(h Handle)

	// Flush frees every pooled handle. The cache stays usable.
	Flush()

	// Close flushes the pool and rejects further acquisitions.
	// Idempotent.
	Close()

	// Stats reports cache activity counters.
	Stats() CacheStats
}

// CacheStats carries activity counters for a HandleCache.
type CacheStats struct {
	Hits      int64 // acquisitions satisfied from a slot
	Misses    int64 // acquisitions that fell back to a fresh allocation
	Grown     int64 // pooled handles resized up on acquire
	Discarded int64 // released handles freed for exceeding the size ceiling
	Displaced int64 // handles pushed off the end of a full slot array
	Reclaimed int64 // handles recovered by the finalizer safety net
	Slots     int   // configured slot count
}
