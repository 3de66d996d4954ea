package observability

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Counters is a [Hooks] implementation that tallies events with atomics.
type Counters struct {
	probes          atomic.Int64
	probesReachable atomic.Int64
	cacheHits       atomic.Int64
	overrides       atomic.Int64
	overridesStale  atomic.Int64
	resolved        atomic.Int64
	unresolved      atomic.Int64
	skipped         atomic.Int64
	downloads       atomic.Int64
	downloadErrors  atomic.Int64
	bytes           atomic.Int64
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters { return &Counters{} }

func (c *Counters) OnProbe(_ context.Context, _ string, reachable bool, _ time.Duration) {
	c.probes.Add(1)
	if reachable {
		c.probesReachable.Add(1)
	}
}

func (c *Counters) OnCacheHit(context.Context, string) { c.cacheHits.Add(1) }

func (c *Counters) OnOverride(_ context.Context, _ string, accepted bool) {
	if accepted {
		c.overrides.Add(1)
	} else {
		c.overridesStale.Add(1)
	}
}

func (c *Counters) OnResolved(_ context.Context, _, repo string, _ time.Duration) {
	if repo == "" {
		c.unresolved.Add(1)
		return
	}
	c.resolved.Add(1)
}

func (c *Counters) OnSkip(context.Context, string, string) { c.skipped.Add(1) }

func (c *Counters) OnDownload(_ context.Context, _ string, bytes int64, _ time.Duration, err error) {
	if err != nil {
		c.downloadErrors.Add(1)
		return
	}
	c.downloads.Add(1)
	c.bytes.Add(bytes)
}

// Summary is a point-in-time copy of [Counters].
type Summary struct {
	Probes          int64
	ProbesReachable int64
	CacheHits       int64
	Overrides       int64
	OverridesStale  int64
	Resolved        int64
	Unresolved      int64
	Skipped         int64
	Downloads       int64
	DownloadErrors  int64
	Bytes           int64
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() Summary {
	return Summary{
		Probes:          c.probes.Load(),
		ProbesReachable: c.probesReachable.Load(),
		CacheHits:       c.cacheHits.Load(),
		Overrides:       c.overrides.Load(),
		OverridesStale:  c.overridesStale.Load(),
		Resolved:        c.resolved.Load(),
		Unresolved:      c.unresolved.Load(),
		Skipped:         c.skipped.Load(),
		Downloads:       c.downloads.Load(),
		DownloadErrors:  c.downloadErrors.Load(),
		Bytes:           c.bytes.Load(),
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("%d downloaded (%d bytes), %d up to date, %d resolved, %d probes",
		s.Downloads, s.Bytes, s.Skipped, s.Resolved, s.Probes)
}
