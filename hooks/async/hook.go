// Package asynchook moves relcache.Hooks calls off the hot path.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{DecodeFailedEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	c, _ := relcache.New(relcache.Options{
//	    Prefix: "poetry",
//	    URL:    "redis://localhost:6379/0",
//	    Hooks:  hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/relcache"
)

type Hooks struct {
	inner   relcache.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Uint64
}

var _ relcache.Hooks = (*Hooks)(nil)

func New(inner relcache.Hooks, workers, qlen int) *Hooks {
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

// Close drains queued events and stops the workers. Events sent after Close
// are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded because the queue was full.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	defer func() {
		// send on closed queue after Close
		if recover() != nil {
			h.dropped.Add(1)
		}
	}()
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) Invalidated(e relcache.EntityType, id string, n int) {
	h.try(func() { h.inner.Invalidated(e, id, n) })
}
func (h *Hooks) InvalidateFailed(e relcache.EntityType, id string, s relcache.Stage, err error) {
	h.try(func() { h.inner.InvalidateFailed(e, id, s, err) })
}
func (h *Hooks) Evicted(pattern string, n int) { h.try(func() { h.inner.Evicted(pattern, n) }) }
func (h *Hooks) DecodeFailed(k string, err error) {
	h.try(func() { h.inner.DecodeFailed(k, err) })
}
