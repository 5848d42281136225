package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/schemline/schemline/pkg/placer"
	"github.com/schemline/schemline/pkg/schema"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed appends solved coordinates to node labels when a placement
	// is available. When false, only the node ID is shown.
	Detailed bool

	// Scale converts layout units to Graphviz points when pinning nodes.
	// Zero means the default of 72 (one layout unit per inch).
	Scale float64
}

// ToDOT converts a constraint document to Graphviz DOT format. Fixed
// constraints become solid labelled edges, stretchy ones dashed edges, and
// links dotted undirected edges. If pl is non-nil every node is pinned to
// its solved position and the graph requests the neato engine, so the
// rendering reflects the placement instead of an automatic layout.
//
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
func ToDOT(doc *schema.Document, pl *placer.Placement, opts Options) string {
	scale := opts.Scale
	if scale == 0 {
		scale = 72
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	if doc.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", doc.Title)
	}
	if pl != nil {
		buf.WriteString("  layout=neato;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12, fixedsize=true, width=0.6];\n")
	buf.WriteString("\n")

	for _, id := range nodeOrder(doc) {
		attrs := fmt.Sprintf("label=%q", nodeLabel(id, pl, opts.Detailed))
		if pl != nil {
			if pt, ok := pl.Positions[id]; ok {
				// Graphviz y grows upward, matching the solver.
				attrs += fmt.Sprintf(", pos=\"%.2f,%.2f!\"", pt.X*scale, pt.Y*scale)
			}
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, attrs)
	}

	buf.WriteString("\n")
	for _, l := range doc.Links {
		for _, n := range l.Nodes[1:] {
			fmt.Fprintf(&buf, "  %q -- %q [style=dotted];\n", l.Nodes[0], n)
		}
	}
	for _, c := range doc.Constraints {
		style := "solid"
		if c.Stretch {
			style = "dashed"
		}
		fmt.Fprintf(&buf, "  %q -- %q [style=%s, label=\"%s %.2g\"];\n",
			c.From, c.To, style, c.Axis, c.Size)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeOrder collects every node mentioned by the document, links first,
// in first-seen order.
func nodeOrder(doc *schema.Document) []string {
	seen := make(map[string]bool)
	var order []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	for _, l := range doc.Links {
		for _, n := range l.Nodes {
			add(n)
		}
	}
	for _, c := range doc.Constraints {
		add(c.From)
		add(c.To)
	}
	return order
}

func nodeLabel(id string, pl *placer.Placement, detailed bool) string {
	if !detailed || pl == nil {
		return id
	}
	pt, ok := pl.Positions[id]
	if !ok {
		return id
	}
	return fmt.Sprintf("%s\n(%.2g, %.2g)", id, pt.X, pt.Y)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if format == graphviz.SVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
