package revstore

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type localEntry struct {
	Rev       uint64
	UpdatedAt time.Time
}

// Local keeps revisions in-process (default).
// Optional cleanup loop to prune long-inactive entries.
//
// Pruning drops the counter back to 0, which makes any surviving entry for
// that key stale. Pick a retention longer than the provider TTL.
type Local struct {
	mu     sync.RWMutex
	revs   map[string]localEntry
	clock  clockwork.Clock
	ticker *time.Ticker
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

var _ Store = (*Local)(nil)

func NewLocal(cleanupInterval, retention time.Duration) *Local {
	s := &Local{
		revs:  make(map[string]localEntry),
		clock: clockwork.NewRealClock(),
	}
	if cleanupInterval > 0 && retention > 0 {
		s.ticker = time.NewTicker(cleanupInterval)
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-s.ticker.C:
					s.Cleanup(retention)
				case <-s.stopCh:
					return
				}
			}
		}()
	}
	return s
}

func (s *Local) Snapshot(_ context.Context, k string) (uint64, error) {
	s.mu.RLock()
	e := s.revs[k]
	s.mu.RUnlock()
	return e.Rev, nil
}

func (s *Local) Bump(_ context.Context, k string) (uint64, error) {
	now := s.clock.Now()
	s.mu.Lock()
	e := s.revs[k]
	e.Rev++
	e.UpdatedAt = now
	s.revs[k] = e
	s.mu.Unlock()
	return e.Rev, nil
}

func (s *Local) Observe(_ context.Context, k string, rev uint64) (uint64, error) {
	now := s.clock.Now()
	s.mu.Lock()
	e := s.revs[k]
	if e.Rev < rev {
		e.Rev = rev
		e.UpdatedAt = now
		s.revs[k] = e
	}
	s.mu.Unlock()
	return e.Rev, nil
}

func (s *Local) Cleanup(retention time.Duration) {
	if retention <= 0 {
		return
	}
	cutoff := s.clock.Now().Add(-retention)

	s.mu.Lock()
	for k, e := range s.revs {
		if !e.UpdatedAt.IsZero() && e.UpdatedAt.Before(cutoff) {
			delete(s.revs, k)
		}
	}
	s.mu.Unlock()
}

// Close stops the cleanup loop. Safe to call more than once.
func (s *Local) Close(_ context.Context) error {
	s.once.Do(func() {
		if s.stopCh != nil {
			close(s.stopCh)
			s.ticker.Stop()
			s.wg.Wait()
		}
	})
	return nil
}
