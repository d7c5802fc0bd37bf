package pool_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/momentics/nativebuf/api"
	"github.com/momentics/nativebuf/pool"
)

func TestAcquireReleaseReuse(t *testing.T) {
	c := pool.New(pool.Config{SlotCount: 8})
	defer c.Close()

	h, err := c.Acquire(128)
	if err != nil {
		t.Fatal(err)
	}
	c.Release(h)

	h2, err := c.Acquire(64)
	if err != nil {
		t.Fatal(err)
	}
	if h2 != h {
		t.Error("single-threaded release/acquire did not reuse the pooled handle")
	}
	if h2.Len() < 64 {
		t.Errorf("reused handle len = %d, want >= 64", h2.Len())
	}
	if s := c.Stats(); s.Hits != 1 || s.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit / 1 miss", s)
	}
	c.Release(h2)
}

func TestAcquireClampsToFloor(t *testing.T) {
	c := pool.New(pool.DefaultConfig())
	defer c.Close()

	h, err := c.Acquire(1)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release(h)
	if h.Len() < pool.DefaultMinSize {
		t.Errorf("len = %d, want >= floor %d", h.Len(), pool.DefaultMinSize)
	}
}

func TestGrowOnAcquire(t *testing.T) {
	c := pool.New(pool.Config{SlotCount: 4, MaxSize: 4096})
	defer c.Close()

	small, err := c.Acquire(64)
	if err != nil {
		t.Fatal(err)
	}
	c.Release(small)

	big, err := c.Acquire(1024)
	if err != nil {
		t.Fatal(err)
	}
	if big != small {
		t.Fatal("expected the pooled handle back")
	}
	if big.Len() < 1024 {
		t.Errorf("len = %d, want >= 1024", big.Len())
	}
	if s := c.Stats(); s.Grown != 1 {
		t.Errorf("Grown = %d, want 1", s.Grown)
	}
	c.Release(big)
}

func TestOversizeReleaseDiscards(t *testing.T) {
	c := pool.New(pool.Config{MaxSize: 256, SlotCount: 4})
	defer c.Close()

	h, err := c.Acquire(512)
	if err != nil {
		t.Fatal(err)
	}
	c.Release(h) // above ceiling: freed, never pooled

	h2, err := c.Acquire(64)
	if err != nil {
		t.Fatal(err)
	}
	if h2 == h {
		t.Error("oversized handle came back from the pool")
	}
	if s := c.Stats(); s.Discarded != 1 || s.Hits != 0 {
		t.Errorf("stats = %+v, want 1 discard and no hits", s)
	}
	c.Release(h2)
}

func TestPoolBoundedBySlotCount(t *testing.T) {
	const slots = 4
	const handles = 10
	c := pool.New(pool.Config{SlotCount: slots})
	defer c.Close()

	owned := make([]api.Handle, 0, handles)
	for i := 0; i < handles; i++ {
		h, err := c.Acquire(64)
		if err != nil {
			t.Fatal(err)
		}
		owned = append(owned, h)
	}
	for _, h := range owned {
		c.Release(h)
	}
	if s := c.Stats(); s.Displaced != handles-slots {
		t.Fatalf("Displaced = %d, want %d", s.Displaced, handles-slots)
	}

	for i := 0; i < handles; i++ {
		h, err := c.Acquire(64)
		if err != nil {
			t.Fatal(err)
		}
		defer c.Release(h)
	}
	// Exactly slotCount of the re-acquisitions can be cache hits.
	if s := c.Stats(); s.Hits != slots {
		t.Errorf("Hits = %d, want %d", s.Hits, slots)
	}
}

func TestFlushAndClose(t *testing.T) {
	c := pool.New(pool.Config{SlotCount: 4})

	h, err := c.Acquire(64)
	if err != nil {
		t.Fatal(err)
	}
	c.Release(h)
	c.Flush()
	h2, err := c.Acquire(64)
	if err != nil {
		t.Fatal(err)
	}
	if s := c.Stats(); s.Hits != 0 {
		t.Errorf("acquire after flush hit the pool, stats = %+v", s)
	}

	c.Close()
	c.Close() // idempotent
	if _, err := c.Acquire(64); !errors.Is(err, api.ErrCacheClosed) {
		t.Errorf("Acquire after Close = %v, want ErrCacheClosed", err)
	}
	before := c.Stats().Discarded
	c.Release(h2) // late release must free, not pool
	if c.Stats().Discarded != before+1 {
		t.Error("release after close did not free the handle")
	}
}

func TestReclaimLeak(t *testing.T) {
	c := pool.New(pool.Config{SlotCount: 4})
	defer c.Close()

	h, err := c.Acquire(64)
	if err != nil {
		t.Fatal(err)
	}
	c.ReclaimLeak(h)
	h2, err := c.Acquire(64)
	if err != nil {
		t.Fatal(err)
	}
	if h2 != h {
		t.Error("reclaimed handle was not folded back into the pool")
	}
	if s := c.Stats(); s.Reclaimed != 1 {
		t.Errorf("Reclaimed = %d, want 1", s.Reclaimed)
	}
	c.Release(h2)
}

// TestConcurrentExclusiveOwnership hammers acquire/release from many
// goroutines. Each owner stamps its id across the region and verifies it
// before releasing; a handle concurrently owned by two callers corrupts
// the stamp.
func TestConcurrentExclusiveOwnership(t *testing.T) {
	c := pool.New(pool.Config{SlotCount: 8})
	defer c.Close()

	const workers = 8
	const iters = 2000

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id byte) {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				h, err := c.Acquire(64)
				if err != nil {
					t.Error(err)
					return
				}
				data := h.Bytes()
				for j := range data {
					data[j] = id
				}
				for j := range data {
					if data[j] != id {
						t.Errorf("worker %d: stamp corrupted, handle owned twice", id)
						c.Release(h)
						return
					}
				}
				c.Release(h)
			}
		}(byte(w + 1))
	}
	wg.Wait()
}

func BenchmarkAcquireRelease(b *testing.B) {
	c := pool.New(pool.DefaultConfig())
	defer c.Close()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			h, err := c.Acquire(256)
			if err != nil {
				b.Fatal(err)
			}
			c.Release(h)
		}
	})
}
