package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/errors"
)

// ToDOT converts the tree below roots to DOT. outcomes is keyed by
// coordinate string form, as returned by the resolver's Results; a nil map
// renders the declared tree without resolution state.
func ToDOT(roots []dependency.Coordinate, outcomes map[string]*dependency.Outcome) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, c := range dependency.Unique(roots) {
		fmt.Fprintf(&buf, "  %q [%s];\n", c.String(), strings.Join(fmtAttrs(c, outcomes), ", "))
	}

	buf.WriteString("\n")
	seen := make(map[[2]string]bool)
	var edges func(parent dependency.Coordinate)
	edges = func(parent dependency.Coordinate) {
		for _, child := range parent.Transitive {
			e := [2]string{parent.String(), child.String()}
			if seen[e] {
				continue
			}
			seen[e] = true
			fmt.Fprintf(&buf, "  %q -> %q;\n", e[0], e[1])
			edges(child)
		}
	}
	for _, r := range roots {
		edges(r)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(c dependency.Coordinate, outcomes map[string]*dependency.Outcome) []string {
	label := c.String()
	if outcomes == nil {
		return []string{fmt.Sprintf("label=%q", label)}
	}

	o, ok := outcomes[c.String()]
	if !ok {
		return []string{fmt.Sprintf("label=%q", label), "fillcolor=lightgrey", "fontcolor=gray40"}
	}

	attrs := []string{fmt.Sprintf("label=%q", label+"\n"+o.Repository.Name)}
	if o.Aggregator {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

// RenderSVG lays out DOT source and returns SVG bytes.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element to a zero-origin viewBox with
// matching pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
