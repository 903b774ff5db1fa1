// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    RejectEvery: 10, // sample logs: ~every 10th rejection
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	users := codec.NewJSON(userCodec, codec.Options{Hooks: hooks})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/jsoncodec"
)

// Hooks forwards events to inner on a small worker pool. Events are dropped,
// never blocked on, when the queue is full.
type Hooks struct {
	inner   jsoncodec.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // guards closed and sends on q
	closed  bool
	dropped atomic.Uint64
}

var _ jsoncodec.Hooks = (*Hooks)(nil)

func New(inner jsoncodec.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events sent after
// Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded because the queue was full
// or already closed.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

// try never blocks: the send under the read lock is a non-blocking select.
func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) DecodeRejected(c string, k jsoncodec.Kind) {
	h.try(func() { h.inner.DecodeRejected(c, k) })
}
func (h *Hooks) PayloadRejected(c string, size, limit int) {
	h.try(func() { h.inner.PayloadRejected(c, size, limit) })
}
func (h *Hooks) ParseFailed(c string, size int, err error) {
	h.try(func() { h.inner.ParseFailed(c, size, err) })
}
func (h *Hooks) StoreSelfHeal(k, r string) { h.try(func() { h.inner.StoreSelfHeal(k, r) }) }
