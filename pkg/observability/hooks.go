// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Hooks are passed
// explicitly to the components that emit them (the prober, the resolver
// and the downloader); there is no process-wide registry.
//
// # Architecture
//
//   - Hook interfaces per event category
//   - No-op default implementations
//   - [Counters], an in-memory implementation used by the CLI run summary
//
// # Usage
//
//	counters := observability.NewCounters()
//	r := resolver.New(enquirers, resolver.Options{Hooks: counters})
//	d := download.New(layout, r, download.Options{Hooks: counters})
//	// ... run
//	fmt.Println(counters.Snapshot())
//
// Hook implementations must be safe for concurrent use and must not block:
// the resolver calls them from parallel repository queries.
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Probe Hooks
// =============================================================================

// ProbeHooks receives events from availability probes.
type ProbeHooks interface {
	// OnProbe records one reachability check.
	OnProbe(ctx context.Context, url string, reachable bool, duration time.Duration)
}

// =============================================================================
// Resolve Hooks
// =============================================================================

// ResolveHooks receives events from the caching resolver.
type ResolveHooks interface {
	// OnCacheHit records a coordinate answered from the per-run cache.
	OnCacheHit(ctx context.Context, coord string)

	// OnOverride records a coordinate answered from the pre-resolution table.
	OnOverride(ctx context.Context, coord string, accepted bool)

	// OnResolved records a completed live resolution. repo is empty when
	// no repository produced an outcome.
	OnResolved(ctx context.Context, coord, repo string, duration time.Duration)
}

// =============================================================================
// Download Hooks
// =============================================================================

// DownloadHooks receives events from the downloader.
type DownloadHooks interface {
	// OnSkip records a fetch satisfied without network access.
	// reason is "verified" or "aggregator".
	OnSkip(ctx context.Context, coord, reason string)

	// OnDownload records a completed (or failed) artifact transfer.
	OnDownload(ctx context.Context, coord string, bytes int64, duration time.Duration, err error)
}

// Hooks bundles every hook category. Components accept the narrow interface
// they emit; Hooks is convenient for implementations that observe all of them.
type Hooks interface {
	ProbeHooks
	ResolveHooks
	DownloadHooks
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopProbeHooks is a no-op implementation of ProbeHooks.
type NoopProbeHooks struct{}

func (NoopProbeHooks) OnProbe(context.Context, string, bool, time.Duration) {}

// NoopResolveHooks is a no-op implementation of ResolveHooks.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnCacheHit(context.Context, string)                       {}
func (NoopResolveHooks) OnOverride(context.Context, string, bool)                 {}
func (NoopResolveHooks) OnResolved(context.Context, string, string, time.Duration) {}

// NoopDownloadHooks is a no-op implementation of DownloadHooks.
type NoopDownloadHooks struct{}

func (NoopDownloadHooks) OnSkip(context.Context, string, string)                          {}
func (NoopDownloadHooks) OnDownload(context.Context, string, int64, time.Duration, error) {}

// Noop implements every hook category as a no-op.
type Noop struct {
	NoopProbeHooks
	NoopResolveHooks
	NoopDownloadHooks
}
