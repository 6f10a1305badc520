package pool

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/http2"

	"github.com/agentflow/agentcore/agentcoreerr"
)

// Entry is a reusable HTTP client bound to a (host, port, scheme) triple.
// An entry is either idle or in use; an in-use entry is never evicted.
type Entry struct {
	Client   *http.Client
	key      Key
	inUse    bool
	lastUsed time.Time
}

// Key returns the entry's binding.
func (e *Entry) Key() Key { return e.key }

// Stats summarizes the pool's current entry population.
type Stats struct {
	Total   int
	Active  int
	Idle    int
	Expired int
}

// MetricsSink receives pool lifecycle counters; nil is valid.
type MetricsSink interface {
	PoolEntries(idle, inUse int)
	PoolEviction()
	PoolAcquireFailure()
}

// Pool hands out entries keyed by (host, port, scheme), reusing idle
// entries, creating fresh ones under capacity, and evicting the
// least-recently-used idle entry once at capacity. Acquisition never
// blocks waiting for another caller's in-use entry — saturation fails
// fast with an agentcoreerr CodePoolExhaustion error.
type Pool struct {
	mu      sync.Mutex
	cfg     Config
	entries []*Entry
	metrics MetricsSink
}

// New constructs a Pool with cfg, defaulting zero fields.
func New(cfg Config, metrics MetricsSink) *Pool {
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = 10
	}
	if cfg.MaxIdle <= 0 {
		cfg.MaxIdle = 5 * time.Minute
	}
	if cfg.ConnectionTimeout <= 0 {
		cfg.ConnectionTimeout = 30 * time.Second
	}
	return &Pool{cfg: cfg, metrics: metrics}
}

// KeyFromURL derives a pool Key from a request URL.
func KeyFromURL(rawURL string) (Key, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Key{}, fmt.Errorf("pool: parse url: %w", err)
	}
	host := u.Hostname()
	port := 0
	if p := u.Port(); p != "" {
		fmt.Sscanf(p, "%d", &port)
	}
	return NewKey(host, port, u.Scheme), nil
}

func (p *Pool) newClientFor(key Key) *http.Client {
	transport := &http.Transport{
		DisableKeepAlives:   !p.cfg.KeepAlive,
		IdleConnTimeout:     p.cfg.MaxIdle,
		TLSHandshakeTimeout: p.cfg.ConnectionTimeout,
	}
	if key.Scheme == "https" {
		_ = http2.ConfigureTransport(transport)
	}
	return &http.Client{
		Transport: transport,
		Timeout:   p.cfg.ConnectionTimeout,
	}
}

// pruneExpiredLocked removes idle entries whose last use exceeds MaxIdle.
// Must be called with p.mu held.
func (p *Pool) pruneExpiredLocked(now time.Time) {
	kept := p.entries[:0]
	for _, e := range p.entries {
		if !e.inUse && now.Sub(e.lastUsed) > p.cfg.MaxIdle {
			continue
		}
		kept = append(kept, e)
	}
	p.entries = kept
}

// Acquire returns an entry bound to key: an idle matching entry if one
// exists, else a fresh entry under capacity, else the LRU idle entry
// reinitialized for key. Fails with an agentcoreerr CodePoolExhaustion error
// when every entry is in use.
func (p *Pool) Acquire(key Key) (*Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	p.pruneExpiredLocked(now)

	for _, e := range p.entries {
		if !e.inUse && e.key == key {
			e.inUse = true
			p.reportLocked()
			return e, nil
		}
	}

	if len(p.entries) < p.cfg.MaxConnections {
		e := &Entry{Client: p.newClientFor(key), key: key, inUse: true, lastUsed: now}
		p.entries = append(p.entries, e)
		p.reportLocked()
		return e, nil
	}

	var lru *Entry
	for _, e := range p.entries {
		if e.inUse {
			continue
		}
		if lru == nil || e.lastUsed.Before(lru.lastUsed) {
			lru = e
		}
	}
	if lru == nil {
		if p.metrics != nil {
			p.metrics.PoolAcquireFailure()
		}
		return nil, agentcoreerr.New(agentcoreerr.CodePoolExhaustion, "no available connections")
	}

	lru.key = key
	lru.Client = p.newClientFor(key)
	lru.inUse = true
	if p.metrics != nil {
		p.metrics.PoolEviction()
	}
	p.reportLocked()
	return lru, nil
}

// Release returns e to the idle set, stamping last-use to now.
func (p *Pool) Release(e *Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e.inUse = false
	e.lastUsed = time.Now()
	p.reportLocked()
}

// Stats reports the pool's current entry population.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	var s Stats
	s.Total = len(p.entries)
	for _, e := range p.entries {
		if e.inUse {
			s.Active++
			continue
		}
		if now.Sub(e.lastUsed) > p.cfg.MaxIdle {
			s.Expired++
		} else {
			s.Idle++
		}
	}
	return s
}

func (p *Pool) reportLocked() {
	if p.metrics == nil {
		return
	}
	idle, inUse := 0, 0
	for _, e := range p.entries {
		if e.inUse {
			inUse++
		} else {
			idle++
		}
	}
	p.metrics.PoolEntries(idle, inUse)
}
