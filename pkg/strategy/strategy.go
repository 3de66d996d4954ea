// Package strategy maps a (repository, coordinate) pair onto candidate URLs.
//
// Strategies are composable:
//
//	jar := strategy.Mediating(prober, strategy.Snapshot(), strategy.Release())
//	sum := strategy.Checksum("SHA-1", jar)
//	pom := strategy.POM()
//
// Every strategy returns at least one candidate for a well-formed coordinate.
// Only [Mediating] performs I/O (through its prober); the others are pure.
package strategy

import (
	"context"
	"strings"

	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/probe"
)

// PathStrategy produces ordered candidate URLs for a coordinate.
type PathStrategy interface {
	PathsTo(ctx context.Context, repo dependency.Repository, c dependency.Coordinate) []string
}

// Func adapts an ordinary function to [PathStrategy].
type Func func(ctx context.Context, repo dependency.Repository, c dependency.Coordinate) []string

// PathsTo calls f.
func (f Func) PathsTo(ctx context.Context, repo dependency.Repository, c dependency.Coordinate) []string {
	return f(ctx, repo, c)
}

// join concatenates the repository base URL and path segments with exactly
// one slash between each.
func join(repo dependency.Repository, segments ...string) string {
	var b strings.Builder
	b.WriteString(repo.BaseURL())
	for i, s := range segments {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(strings.Trim(s, "/"))
	}
	return b.String()
}

// Release returns base/group/path/artifact/version/artifact-version.jar.
func Release() PathStrategy {
	return Func(func(_ context.Context, repo dependency.Repository, c dependency.Coordinate) []string {
		return []string{join(repo, c.GroupPath(), c.Artifact, c.Version, c.Artifact+"-"+c.Version+".jar")}
	})
}

// POM returns the descriptor candidate base/group/path/artifact/version/artifact-version.pom.
func POM() PathStrategy {
	return Func(func(_ context.Context, repo dependency.Repository, c dependency.Coordinate) []string {
		return []string{join(repo, c.GroupPath(), c.Artifact, c.Version, c.Artifact+"-"+c.Version+".pom")}
	})
}

// Snapshot returns, for a snapshot coordinate, the flat layout candidate
// followed by the timestamped sub-directory candidate:
//
//	base/g/a/1.0-SNAPSHOT/a-1.0-<qualifier>.jar
//	base/g/a/1.0-SNAPSHOT/1.0-<qualifier>/a-1.0-<qualifier>.jar
//
// For a snapshot version without a qualifier the literal SNAPSHOT file is
// used. Non-snapshot coordinates fall back to the release layout.
func Snapshot() PathStrategy {
	release := Release()
	return Func(func(ctx context.Context, repo dependency.Repository, c dependency.Coordinate) []string {
		if !c.IsSnapshot() {
			return release.PathsTo(ctx, repo, c)
		}
		if !c.HasSnapshotQualifier() {
			return []string{join(repo, c.GroupPath(), c.Artifact, c.Version, c.Artifact+"-"+c.Version+".jar")}
		}
		stamped := c.BaseVersion() + "-" + c.Snapshot
		file := c.Artifact + "-" + stamped + ".jar"
		return []string{
			join(repo, c.GroupPath(), c.Artifact, c.Version, file),
			join(repo, c.GroupPath(), c.Artifact, c.Version, stamped, file),
		}
	})
}

// Mediating tries each strategy in order and returns the first candidate
// list whose first entry is reachable. When no first entry is reachable the
// last non-empty list is returned, so callers still get candidates to probe.
// Only the leading candidate of each list is probed here.
func Mediating(prober probe.Prober, strategies ...PathStrategy) PathStrategy {
	return Func(func(ctx context.Context, repo dependency.Repository, c dependency.Coordinate) []string {
		var last []string
		for _, s := range strategies {
			paths := s.PathsTo(ctx, repo, c)
			if len(paths) == 0 {
				continue
			}
			if prober.Reachable(ctx, paths[0]) {
				return paths
			}
			last = paths
		}
		return last
	})
}

// Checksum appends ".<alg>" to every candidate of inner. The algorithm name
// is normalized: "SHA-1" becomes "sha1".
func Checksum(algorithm string, inner PathStrategy) PathStrategy {
	return Func(func(ctx context.Context, repo dependency.Repository, c dependency.Coordinate) []string {
		paths := inner.PathsTo(ctx, repo, c)
		out := make([]string, len(paths))
		for i, p := range paths {
			out[i] = ChecksumURL(algorithm, p)
		}
		return out
	})
}

// ChecksumURL returns the sidecar URL of artifactURL for algorithm.
func ChecksumURL(algorithm, artifactURL string) string {
	return artifactURL + "." + NormalizeAlgorithm(algorithm)
}

// NormalizeAlgorithm lowercases a digest name and strips dashes and spaces.
func NormalizeAlgorithm(name string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(strings.ToLower(name))
}
