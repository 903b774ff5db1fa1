// Package file is a Provider that keeps its entries in memory and persists
// them to a single JSON-lines file, rewritten atomically after every change.
// It suits small, single-process data sets such as a local todo list.
package file

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/google/renameio/v2"
	"github.com/jonboulle/clockwork"

	pr "github.com/unkn0wn-root/jsoncodec/provider"
)

var ErrClosed = errors.New("file provider: closed")

// line is one persisted entry. Value is base64 in the file.
type line struct {
	Key     string `json:"k"`
	Value   []byte `json:"v"`
	Expires int64  `json:"exp,omitempty"` // unix nanos; 0 => no TTL
}

type Provider struct {
	mu     sync.Mutex
	path   string
	m      map[string]line
	clock  clockwork.Clock
	closed bool
}

var _ pr.Provider = (*Provider)(nil)

// Open loads path if it exists. A missing file is an empty store; the file
// is created on the first write.
func Open(path string) (*Provider, error) {
	p := &Provider{path: path, m: make(map[string]line), clock: clockwork.NewRealClock()}
	if err := p.load(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Provider) load() error {
	f, err := os.Open(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 64<<20)
	n := 0
	for sc.Scan() {
		n++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var l line
		if err := gojson.Unmarshal(b, &l); err != nil {
			return fmt.Errorf("file provider: %s line %d: %w", p.path, n, err)
		}
		p.m[l.Key] = l
	}
	return sc.Err()
}

func (p *Provider) expired(l line) bool {
	return l.Expires != 0 && p.clock.Now().UnixNano() > l.Expires
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, false, ErrClosed
	}
	l, ok := p.m[key]
	if !ok || p.expired(l) {
		return nil, false, nil
	}
	return append([]byte(nil), l.Value...), true, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	l := line{Key: key, Value: append([]byte(nil), value...)}
	if ttl > 0 {
		l.Expires = p.clock.Now().Add(ttl).UnixNano()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false, ErrClosed
	}
	prev, had := p.m[key]
	p.m[key] = l
	if err := p.flush(); err != nil {
		if had {
			p.m[key] = prev
		} else {
			delete(p.m, key)
		}
		return false, err
	}
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if _, ok := p.m[key]; !ok {
		return nil
	}
	delete(p.m, key)
	return p.flush()
}

func (p *Provider) Close(context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// flush rewrites the whole file atomically (temp file + rename). Expired
// entries are dropped. Lines are sorted by key so the file diffs cleanly.
// Caller holds mu.
func (p *Provider) flush() error {
	keys := make([]string, 0, len(p.m))
	for k, l := range p.m {
		if p.expired(l) {
			delete(p.m, k)
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		b, err := gojson.Marshal(p.m[k])
		if err != nil {
			return err
		}
		buf.Write(b)
		buf.WriteByte('\n')
	}

	return renameio.WriteFile(p.path, buf.Bytes(), 0o600)
}
