// Package memory is an in-process Provider backed by a map. It is the
// default for tests and single-process tools; nothing is evicted except by
// TTL.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	pr "github.com/unkn0wn-root/jsoncodec/provider"
)

type entry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

type Provider struct {
	mu    sync.RWMutex
	m     map[string]entry
	clock clockwork.Clock
}

var _ pr.Provider = (*Provider)(nil)

func New() *Provider {
	return &Provider{m: make(map[string]entry), clock: clockwork.NewRealClock()}
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.RLock()
	e, ok := p.m[key]
	p.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && p.clock.Now().After(e.exp) {
		p.mu.Lock()
		if cur, ok := p.m[key]; ok && cur.exp.Equal(e.exp) {
			delete(p.m, key)
		}
		p.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), e.v...), true, nil
}

// Set keeps its own copy of value; Get hands out copies too.
func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	var exp time.Time
	if ttl > 0 {
		exp = p.clock.Now().Add(ttl)
	}
	cp := append([]byte(nil), value...)
	p.mu.Lock()
	p.m[key] = entry{v: cp, exp: exp}
	p.mu.Unlock()
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.mu.Lock()
	delete(p.m, key)
	p.mu.Unlock()
	return nil
}

func (p *Provider) Close(context.Context) error { return nil }

// Len reports the number of stored keys, expired or not.
func (p *Provider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.m)
}
