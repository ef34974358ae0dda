// Package nodelink renders trees as node-link diagrams through Graphviz.
//
// This is the alternative view to the dendrogram: every node becomes a
// shape, every branch an edge labeled with its length. [ToDOT] produces the
// DOT source; the Render functions run it through the embedded Graphviz
// engine.
package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/cladeviz/clade/pkg/render"
	"github.com/cladeviz/clade/pkg/tree"
)

// Options configures node-link diagram generation.
type Options struct {
	// ShowLengths labels each edge with its five-decimal branch length.
	ShowLengths bool
}

// ToDOT converts a tree to Graphviz DOT format. Leaves are drawn as boxes
// with their taxon names; internal nodes as small points. The outgroup leaf
// is highlighted, and collapsed subtrees are emitted as a single triangle
// node in place of their children.
func ToDOT(t *tree.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph clade {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=12];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	if t != nil && t.Root != nil {
		nextID := 0
		writeNode(&buf, t.Root, &nextID, opts)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, n *tree.Node, nextID *int, opts Options) string {
	id := fmt.Sprintf("n%d", *nextID)
	*nextID++

	fmt.Fprintf(buf, "  %s [%s];\n", id, strings.Join(nodeAttrs(n), ", "))
	if n.Collapsed {
		return id
	}
	for _, c := range n.Children {
		childID := writeNode(buf, c, nextID, opts)
		attrs := ""
		if opts.ShowLengths {
			attrs = fmt.Sprintf(" [label=\"%.5f\", fontsize=9]", c.Dist)
		}
		fmt.Fprintf(buf, "  %s -> %s%s;\n", id, childID, attrs)
	}
	return id
}

func nodeAttrs(n *tree.Node) []string {
	switch {
	case n.Collapsed:
		label := n.Name
		if label == "" {
			label = fmt.Sprintf("%d taxa", n.LeafCount())
		}
		return []string{fmt.Sprintf("label=%q", label), "shape=triangle", "style=filled", "fillcolor=lightgrey"}
	case n.IsLeaf():
		attrs := []string{fmt.Sprintf("label=%q", n.Name), "shape=box", "style=\"rounded,filled\"", "fillcolor=white"}
		if n.Outgroup {
			attrs = append(attrs, "color=red", "penwidth=2")
		}
		return attrs
	default:
		return []string{"label=\"\"", "shape=point", "width=0.05"}
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
