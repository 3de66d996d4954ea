// Package render draws a declared dependency tree as a Graphviz diagram.
//
// [ToDOT] emits DOT source with one box per unique coordinate and one edge
// per declared transitive relation. When resolver results are supplied,
// nodes show the answering repository; aggregator nodes are dashed and
// unresolved nodes are greyed out. [RenderSVG] lays the DOT out in-process:
//
//	dot := render.ToDOT(set.Dependencies, res.Results())
//	svg, err := render.RenderSVG(dot)
//
// This package uses [github.com/goccy/go-graphviz], which embeds Graphviz as
// WebAssembly, so no system Graphviz install is needed.
package render
