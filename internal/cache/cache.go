// Package cache memoizes the expensive per-process lookups (owner name,
// command line, executable architecture, binary status) across ticks.
//
// Entries are keyed by pid and generation. A generation change means the
// pid was reused and the entry is discarded. Entries for pids missing from
// the latest sample are dropped when the sample is swept.
package cache

import (
	"sync"
	"time"

	"github.com/Dicklesworthstone/proctop/internal/logger"
	"github.com/Dicklesworthstone/proctop/internal/model"
)

const (
	// DefaultMaxFailures is how many consecutive failed probes an entry
	// survives before it is evicted.
	DefaultMaxFailures = 3
	// DefaultRefreshAfter is how long a successful probe is trusted.
	DefaultRefreshAfter = 30 * time.Second
)

// Details are the enriched fields for one process.
type Details struct {
	Owner          string
	Command        string
	ExePath        string
	Arch           string
	BinaryModified bool
}

// Prober fetches every enriched field of a process in one batched call.
type Prober interface {
	Probe(rec *model.ProcRecord) (Details, error)
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(rec *model.ProcRecord) (Details, error)

func (f ProberFunc) Probe(rec *model.ProcRecord) (Details, error) { return f(rec) }

// Stats counts cache activity since creation.
type Stats struct {
	Hits      int
	Misses    int
	Failures  int
	Evictions int
}

type entry struct {
	generation uint64
	details    Details
	valid      bool
	probedAt   time.Time
	failures   int
}

// Cache is owned by the tick loop. The mutex makes each entry's
// probe-and-store atomic should sampling ever move off that goroutine.
type Cache struct {
	mu           sync.Mutex
	prober       Prober
	entries      map[int32]*entry
	maxFailures  int
	refreshAfter time.Duration
	log          logger.Logger
	stats        Stats
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxFailures sets how many consecutive failures evict an entry.
func WithMaxFailures(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxFailures = n
		}
	}
}

// WithRefreshAfter sets how long successful probes are trusted. Zero
// disables refreshing.
func WithRefreshAfter(d time.Duration) Option {
	return func(c *Cache) { c.refreshAfter = d }
}

// WithLogger sets the logger used for probe failures and evictions.
func WithLogger(l logger.Logger) Option {
	return func(c *Cache) { c.log = l }
}

// New creates a cache in front of p.
func New(p Prober, opts ...Option) *Cache {
	c := &Cache{
		prober:       p,
		entries:      make(map[int32]*entry),
		maxFailures:  DefaultMaxFailures,
		refreshAfter: DefaultRefreshAfter,
		log:          logger.Noop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Enrich returns the enriched fields of rec, probing only on a miss, on a
// generation change or when a successful entry has aged past the refresh
// interval. The boolean is false when no usable details exist; callers
// should then show sentinels.
func (c *Cache) Enrich(rec *model.ProcRecord, now time.Time) (Details, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[rec.PID]
	if ok && e.generation != rec.Generation {
		c.log.Debug("pid %d reused (generation %d -> %d), dropping entry", rec.PID, e.generation, rec.Generation)
		delete(c.entries, rec.PID)
		c.stats.Evictions++
		e, ok = nil, false
	}

	if ok && !c.due(e, now) {
		c.stats.Hits++
		return e.details, e.valid
	}

	c.stats.Misses++
	d, err := c.prober.Probe(rec)
	if err == nil {
		c.entries[rec.PID] = &entry{generation: rec.Generation, details: d, valid: true, probedAt: now}
		return d, true
	}

	c.stats.Failures++
	if !ok {
		e = &entry{generation: rec.Generation}
		c.entries[rec.PID] = e
	}
	e.failures++
	e.probedAt = now
	c.log.Debug("probe pid %d failed (%d in a row): %v", rec.PID, e.failures, err)
	if e.failures >= c.maxFailures && e.valid {
		c.log.Debug("evicting pid %d after %d failures", rec.PID, e.failures)
		e.details, e.valid = Details{}, false
		c.stats.Evictions++
	}
	return e.details, e.valid
}

// due reports whether e should be probed again. Failed entries are retried
// every tick until they reach the failure limit; after that they are left
// alone until the pid's generation changes.
func (c *Cache) due(e *entry, now time.Time) bool {
	if e.failures > 0 {
		return e.failures < c.maxFailures
	}
	return c.refreshAfter > 0 && now.Sub(e.probedAt) >= c.refreshAfter
}

// EnrichSample fills the enriched fields of every process in raw and then
// drops entries for pids that are no longer present.
func (c *Cache) EnrichSample(raw *model.RawSample) {
	for pid, rec := range raw.Procs {
		d, ok := c.Enrich(&rec, raw.Timestamp)
		if ok {
			if d.Owner != "" {
				rec.Owner = d.Owner
			}
			rec.Command = d.Command
			rec.ExePath = d.ExePath
			rec.Arch = d.Arch
			rec.BinaryModified = d.BinaryModified
		}
		raw.Procs[pid] = rec
	}
	c.Sweep(raw.Procs)
}

// Sweep evicts entries whose pid is absent from present.
func (c *Cache) Sweep(present map[int32]model.ProcRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for pid := range c.entries {
		if _, ok := present[pid]; !ok {
			delete(c.entries, pid)
			c.stats.Evictions++
		}
	}
}

// Len returns the number of entries held.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a copy of the activity counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
