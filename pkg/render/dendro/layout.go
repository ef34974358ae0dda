// Package dendro lays out and paints rooted trees as rectangular
// dendrograms: leaves stacked on evenly spaced rows, internal nodes centered
// between their children, branch lengths mapped to horizontal distance.
//
// [Compute] assigns X/Y coordinates to every drawable node; [Paint] drives
// an injected [canvas.Canvas] in a deterministic recursive order, so the
// same tree and canvas implementation always produce identical output.
package dendro

import "github.com/cladeviz/clade/pkg/tree"

// Default layout scales in user units.
const (
	// DefaultXScale maps one unit of branch length to horizontal distance.
	DefaultXScale = 500.0
	// DefaultYScale is the vertical distance between leaf rows.
	DefaultYScale = 18.0
	// DefaultMinCollapsed keeps zero-length collapsed clusters visible.
	DefaultMinCollapsed = 6.0
)

// Options controls coordinate assignment.
type Options struct {
	XScale       float64 // horizontal units per branch-length unit
	YScale       float64 // vertical units per leaf row
	MinCollapsed float64 // minimum horizontal extent of a collapsed subtree
	OffsetX      float64 // left margin added to every X
	OffsetY      float64 // top margin added to every Y
}

// withDefaults fills zero fields with the package defaults.
func (o Options) withDefaults() Options {
	if o.XScale == 0 {
		o.XScale = DefaultXScale
	}
	if o.YScale == 0 {
		o.YScale = DefaultYScale
	}
	if o.MinCollapsed == 0 {
		o.MinCollapsed = DefaultMinCollapsed
	}
	return o
}

// Compute assigns X and Y coordinates to every drawable node of the tree.
//
// X of a node is its parent's X plus its scaled branch length; a collapsed
// node additionally extends by the maximum leaf distance under it, floored
// to MinCollapsed. Y of a leaf (or collapsed node) is the running leaf row
// times YScale; Y of an internal node is the midpoint of its children's Y
// values. Traversal is depth-first in storage order, with the row counter
// advanced by each child's effective leaf count (a collapsed subtree counts
// as one row, and its descendants are not positioned).
//
// Compute touches only the X/Y fields; topology is never modified.
func Compute(t *tree.Tree, opts Options) {
	if t == nil || t.Root == nil {
		return
	}
	o := opts.withDefaults()
	row := 0
	layoutNode(t.Root, o.OffsetX, &row, o)
}

func layoutNode(n *tree.Node, parentX float64, row *int, o Options) {
	n.X = parentX + n.Dist*o.XScale
	if n.Collapsed {
		bump := n.MaxLeafDist() * o.XScale
		if bump < o.MinCollapsed {
			bump = o.MinCollapsed
		}
		n.X += bump
	}

	if n.IsLeaf() || n.Collapsed {
		n.Y = o.OffsetY + float64(*row)*o.YScale
		*row++
		return
	}

	for _, c := range n.Children {
		layoutNode(c, n.X, row, o)
	}
	first, last := n.Children[0], n.Children[len(n.Children)-1]
	n.Y = (first.Y + last.Y) / 2
}

// Bounds returns the frame extents of a laid-out tree: the maximum X over
// all drawable nodes and the total height implied by the leaf rows.
func Bounds(t *tree.Tree, opts Options) (width, height float64) {
	if t == nil || t.Root == nil {
		return 0, 0
	}
	o := opts.withDefaults()
	maxX := 0.0
	visible(t.Root, func(n *tree.Node) {
		if n.X > maxX {
			maxX = n.X
		}
	})
	rows := t.Root.EffectiveLeafCount()
	return maxX, o.OffsetY + float64(rows)*o.YScale
}

// visible walks the drawable part of the subtree: collapsed subtrees are
// treated as terminals and their descendants are skipped.
func visible(n *tree.Node, fn func(*tree.Node)) {
	fn(n)
	if n.Collapsed {
		return
	}
	for _, c := range n.Children {
		visible(c, fn)
	}
}
