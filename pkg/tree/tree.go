// Package tree implements the mutable rooted-tree model at the core of
// clade: a parent/child node graph with branch lengths, plus the topology
// operations (rerooting, leaf removal, binary normalization) and the
// structural/metric comparator used to test two trees for equivalence.
//
// Trees are built by the newick package or composed programmatically with
// [Node.AddChild]. All operations mutate in place and assume exclusive
// access for their duration; the package offers no internal synchronization.
package tree

// Tree owns exactly one root node. The node graph below the root is strictly
// tree-shaped: every node is owned by exactly one parent and no operation
// attaches a node that has not been detached first.
type Tree struct {
	Root *Node
}

// New returns a tree owning the given root node.
func New(root *Node) *Tree {
	return &Tree{Root: root}
}

// Find returns the first node with the given name, or nil.
func (t *Tree) Find(name string) *Node {
	if t.Root == nil {
		return nil
	}
	return t.Root.Find(name)
}

// Leaves returns all leaves in storage order.
func (t *Tree) Leaves() []*Node {
	if t.Root == nil {
		return nil
	}
	return t.Root.Leaves()
}

// LeafCount returns the number of leaves in the tree.
func (t *Tree) LeafCount() int {
	if t.Root == nil {
		return 0
	}
	return t.Root.LeafCount()
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	if t.Root == nil {
		return &Tree{}
	}
	return &Tree{Root: t.Root.Clone()}
}

// PathLength returns the summed branch length between two named leaves, or
// -1 if either name is missing. The path runs through the nearest common
// ancestor.
func (t *Tree) PathLength(a, b string) float64 {
	na, nb := t.Find(a), t.Find(b)
	if na == nil || nb == nil {
		return -1
	}

	ancestors := map[*Node]float64{}
	dist := 0.0
	for m := na; m != nil; m = m.Parent {
		ancestors[m] = dist
		dist += m.Dist
	}
	dist = 0.0
	for m := nb; m != nil; m = m.Parent {
		if up, ok := ancestors[m]; ok {
			return up + dist
		}
		dist += m.Dist
	}
	return -1
}

// Validate collapses any internal node left with exactly one child by
// merging it into that child, summing their distances. Such unary nodes are
// invalid in the model and can appear transiently after topology mutation.
// Validate runs opportunistically (the parser calls it, and callers should
// run it before serialization when they have mutated the tree by hand).
func (t *Tree) Validate() {
	if t.Root == nil {
		return
	}
	t.Root = collapseUnary(t.Root)
}

// collapseUnary returns the subtree rooted at n with all unary internal
// nodes spliced out. When n itself is unary its single child takes its
// place, absorbing n's distance.
func collapseUnary(n *Node) *Node {
	for i, c := range n.Children {
		n.Children[i] = collapseUnary(c)
		n.Children[i].Parent = n
	}
	if len(n.Children) != 1 {
		return n
	}
	child := n.Children[0]
	child.Dist += n.Dist
	child.Parent = nil
	n.Children = nil
	return child
}
