package dendro

import (
	"github.com/cladeviz/clade/pkg/render/canvas"
	"github.com/cladeviz/clade/pkg/tree"
)

const (
	// strokeWidth is the connector line width.
	strokeWidth = 1.0
	// outgroupStroke widens the edge to the outgroup node for emphasis.
	outgroupStroke = 2.0
	// labelPad is the gap between a node tip and its label.
	labelPad = 4.0
)

// Paint lays the tree out and draws it onto c.
//
// The canvas is driven in a fixed recursive order: for each internal node
// the vertical connector spanning its children, then per child (in storage
// order) the horizontal connector followed by the child's own subtree, with
// leaf and collapsed labels drawn at the terminals. The frame is sized from
// the layout bounds plus the widest label, so no draw call falls outside
// Init's extents.
func Paint(t *tree.Tree, c canvas.Canvas, opts Options) {
	if t == nil || t.Root == nil {
		return
	}
	o := opts.withDefaults()
	if o.YScale < c.FontHeight() {
		o.YScale = c.FontHeight() + 2
	}
	Compute(t, o)

	width, height := Bounds(t, o)
	width += labelPad + maxLabelWidth(t.Root, c) + labelPad

	c.Init(width, height+o.YScale)
	paintNode(t.Root, c)
	c.Finish()
}

func paintNode(n *tree.Node, c canvas.Canvas) {
	if n.IsLeaf() || n.Collapsed {
		c.Text(labelFor(n), n.X+labelPad, n.Y+c.FontHeight()/2)
		return
	}

	first, last := n.Children[0], n.Children[len(n.Children)-1]
	c.Line(n.X, first.Y, n.X, last.Y, strokeWidth)
	for _, child := range n.Children {
		c.Line(n.X, child.Y, child.X, child.Y, edgeStroke(child))
		paintNode(child, c)
	}
}

// edgeStroke picks the connector width for the edge into child.
func edgeStroke(child *tree.Node) float64 {
	if child.Outgroup {
		return outgroupStroke
	}
	return strokeWidth
}

// labelFor returns the drawn label: the node name, or a cluster marker for
// an unnamed collapsed subtree.
func labelFor(n *tree.Node) string {
	if n.Name != "" {
		return n.Name
	}
	if n.Collapsed {
		return "[+]"
	}
	return ""
}

func maxLabelWidth(n *tree.Node, c canvas.Canvas) float64 {
	maxW := 0.0
	visible(n, func(m *tree.Node) {
		if m.IsLeaf() || m.Collapsed {
			if w := c.StringWidth(labelFor(m)); w > maxW {
				maxW = w
			}
		}
	})
	return maxW
}
