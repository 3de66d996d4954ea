// Package dependency defines the value types shared by the resolution and
// fetch pipeline.
//
// # Coordinates
//
// A [Coordinate] names a library as group, artifact and version, plus an
// optional snapshot qualifier and the transitive children it declares:
//
//	c, err := dependency.ParseCoordinate("com.google.guava:guava:32.1.3-jre")
//	fmt.Println(c.Key())    // identity used for caching
//	fmt.Println(c.String()) // lookup key for pre-resolution tables
//
// Identity ([Coordinate.Key]) ignores the snapshot qualifier and children.
//
// # Repositories and Mirrors
//
// [Repository] is a comparable value (URL and name). [Mirror] redirects an
// original repository URL to a mirroring URL; see package mirror.
//
// # Outcomes
//
// [Outcome] is what a repository answered for a coordinate. Use
// [NewOutcome] and [NewAggregator] to construct values that satisfy the
// aggregator invariant.
package dependency
