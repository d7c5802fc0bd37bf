// File: pool/reclaim.go
// Author: momentics <momentics@gmail.com>
//
// FIFO of handles recovered by the finalizer safety net. The eapache
// queue is not goroutine-safe, so a mutex guards it; the atomic length
// lets the Acquire hot path skip the lock when nothing is pending.

package pool

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"

	"github.com/momentics/nativebuf/heap"
)

type reclaimQueue struct {
	mu sync.Mutex
	n  atomic.Int64
	q  *queue.Queue
}

func (r *reclaimQueue) push(h *heap.Handle) {
	r.mu.Lock()
	if r.q == nil {
		r.q = queue.New()
	}
	r.q.Add(h)
	r.mu.Unlock()
	r.n.Add(1)
}

func (r *reclaimQueue) pop() *heap.Handle {
	if r.n.Load() == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.q == nil || r.q.Length() == 0 {
		return nil
	}
	h := r.q.Remove().(*heap.Handle)
	r.n.Add(-1)
	return h
}
