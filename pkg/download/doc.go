// Package download materializes resolved coordinates as local files.
//
// # Store layout
//
// Artifacts and their checksum sidecars live under one root directory:
//
//	<root>/<group path>/<artifact>/<version>[-<snapshot>]/<artifact>-<version>[-<snapshot>].jar
//	<root>/<group path>/<artifact>/<version>[-<snapshot>]/<artifact>-<version>[-<snapshot>].jar.<alg>
//
// A coordinate that resolved to an aggregator is recorded by writing
// [AggregatorSentinel] at its artifact path; later runs return immediately
// without resolving.
//
// # Verification
//
// [ChecksumVerifier] compares the file digest with the sidecar. When no
// sidecar exists yet it obtains the digest the repository publishes (via the
// resolver's checksum URL) and persists it. When the repository publishes
// none, the local digest is persisted on first use. [ExistsVerifier] only
// checks that the file exists.
//
// # Fetch
//
//	d := download.New(layout, resolver, verifier, download.Options{Logger: logger})
//	path, err := d.Fetch(ctx, coord)
//	if path == "" && err == nil {
//	    // aggregator: nothing to place
//	}
package download
