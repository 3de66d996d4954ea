// Package pkg holds the depfetch libraries.
//
// # Overview
//
// depfetch resolves library coordinates (group:artifact:version) against
// Maven-style repositories, downloads the artifacts into a local store, and
// verifies them against published checksums. The packages split the work:
//
//  1. Model: [dependency] (coordinates, repositories, outcomes)
//  2. Locate: [strategy], [probe], [mirror], [enquirer]
//  3. Decide: [resolver], with pre-resolved [overrides]
//  4. Materialize: [download], [inject]
//  5. Inputs and outputs: [manifest], [config], [render]
//  6. Support: [errors], [httputil], [observability], [buildinfo]
//
// # Data Flow
//
//	manifest (JSON, TOML or pom.xml)
//	         ↓
//	    [mirror] selects repositories
//	         ↓
//	    [enquirer] per repository, probing [strategy] candidates
//	         ↓
//	    [resolver] caches one outcome per coordinate
//	         ↓
//	    [download] fetches and verifies into the store
//	         ↓
//	    [inject] walks the tree and hands paths to a Sink
//
// # Quick Start
//
//	set, _ := manifest.Load("small.json")
//	prober := probe.NewHTTP(probe.Options{})
//	repos := mirror.New(nil).Select(set.Repositories, set.Mirrors)
//	res := resolver.New(enquirer.NewFactory(prober, "SHA-1", nil).All(repos), resolver.Options{Prober: prober})
//
//	layout := download.NewLayout(dir)
//	alg, _ := download.ParseAlgorithm("SHA-1")
//	dl := download.New(layout, res, download.NewChecksumVerifier(layout, alg, res, nil, nil), download.Options{})
//
//	sink := inject.NewClasspathSink()
//	err := inject.New(dl, sink, nil).Materialize(ctx, set.Dependencies)
//
// [dependency]: github.com/matzehuels/depfetch/pkg/dependency
// [strategy]: github.com/matzehuels/depfetch/pkg/strategy
// [probe]: github.com/matzehuels/depfetch/pkg/probe
// [mirror]: github.com/matzehuels/depfetch/pkg/mirror
// [enquirer]: github.com/matzehuels/depfetch/pkg/enquirer
// [resolver]: github.com/matzehuels/depfetch/pkg/resolver
// [overrides]: github.com/matzehuels/depfetch/pkg/overrides
// [download]: github.com/matzehuels/depfetch/pkg/download
// [inject]: github.com/matzehuels/depfetch/pkg/inject
// [manifest]: github.com/matzehuels/depfetch/pkg/manifest
// [config]: github.com/matzehuels/depfetch/pkg/config
// [render]: github.com/matzehuels/depfetch/pkg/render
// [errors]: github.com/matzehuels/depfetch/pkg/errors
// [httputil]: github.com/matzehuels/depfetch/pkg/httputil
// [observability]: github.com/matzehuels/depfetch/pkg/observability
// [buildinfo]: github.com/matzehuels/depfetch/pkg/buildinfo
package pkg
