package tree

import "slices"

// Node is a single vertex in a rooted phylogenetic tree. A node owns its
// children and holds a non-owning back pointer to its parent, which is nil
// exactly on the root.
//
// The zero value is a usable unnamed node with no children.
// Node is not safe for concurrent use without external synchronization.
type Node struct {
	// Name is the taxon label. It is meaningful only on leaves, where it is
	// used for lookup; internal nodes are typically unnamed.
	Name string

	// Dist is the branch length to the parent. It is always >= 0 and carries
	// no meaning on the root.
	Dist float64

	// Parent is a non-owning back reference, nil exactly for the root.
	Parent *Node

	// Children holds the owned child nodes in storage order. Order is not
	// semantically significant for comparison but is preserved for
	// serialization.
	Children []*Node

	// Outgroup is set on the node most recently rerooted to.
	Outgroup bool

	// Collapsed marks the subtree to be drawn as a single unit. It is a
	// rendering hint only and does not affect topology or comparison.
	Collapsed bool

	// X and Y are derived layout coordinates, valid only after a layout pass.
	// They are never persisted.
	X, Y float64
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.Parent == nil }

// AddChild appends child to the node's children and sets its parent pointer.
// The child must already be detached; attaching a node owned elsewhere
// without detaching it first would break the single-ownership invariant.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// RemoveChild removes child from the node's children and clears its parent
// pointer. It is a no-op if child is not a direct child of n.
func (n *Node) RemoveChild(child *Node) {
	i := slices.Index(n.Children, child)
	if i < 0 {
		return
	}
	n.Children = slices.Delete(n.Children, i, i+1)
	child.Parent = nil
}

// ReplaceChild swaps old for replacement in place, preserving child order.
// It is a no-op if old is not a direct child of n.
func (n *Node) ReplaceChild(old, replacement *Node) {
	i := slices.Index(n.Children, old)
	if i < 0 {
		return
	}
	n.Children[i] = replacement
	replacement.Parent = n
	old.Parent = nil
}

// Find returns the first node in the subtree whose name matches, searching
// depth-first in storage order, or nil if no such node exists.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if m := c.Find(name); m != nil {
			return m
		}
	}
	return nil
}

// Leaves appends all leaves of the subtree, depth-first in storage order.
func (n *Node) Leaves() []*Node {
	var leaves []*Node
	n.Walk(func(m *Node) {
		if m.IsLeaf() {
			leaves = append(leaves, m)
		}
	})
	return leaves
}

// Walk visits every node in the subtree depth-first in storage order,
// calling fn on each.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// LeafCount returns the number of leaves in the subtree.
func (n *Node) LeafCount() int {
	if n.IsLeaf() {
		return 1
	}
	count := 0
	for _, c := range n.Children {
		count += c.LeafCount()
	}
	return count
}

// EffectiveLeafCount returns the number of drawable leaf rows in the subtree.
// A collapsed subtree occupies a single row regardless of its leaf count.
func (n *Node) EffectiveLeafCount() int {
	if n.Collapsed || n.IsLeaf() {
		return 1
	}
	count := 0
	for _, c := range n.Children {
		count += c.EffectiveLeafCount()
	}
	return count
}

// MaxLeafDist returns the maximum summed branch length from the node down to
// any leaf of its subtree. Returns 0 for a leaf.
func (n *Node) MaxLeafDist() float64 {
	maxDist := 0.0
	for _, c := range n.Children {
		if d := c.Dist + c.MaxLeafDist(); d > maxDist {
			maxDist = d
		}
	}
	return maxDist
}

// Depth returns the number of edges between the node and the root.
func (n *Node) Depth() int {
	depth := 0
	for p := n.Parent; p != nil; p = p.Parent {
		depth++
	}
	return depth
}

// PathLength returns the summed branch length from the node up to the root.
func (n *Node) PathLength() float64 {
	total := 0.0
	for m := n; m.Parent != nil; m = m.Parent {
		total += m.Dist
	}
	return total
}

// Clone returns a deep copy of the subtree. The copy's root has a nil parent
// and carries no layout coordinates.
func (n *Node) Clone() *Node {
	c := &Node{
		Name:      n.Name,
		Dist:      n.Dist,
		Outgroup:  n.Outgroup,
		Collapsed: n.Collapsed,
	}
	for _, child := range n.Children {
		c.AddChild(child.Clone())
	}
	return c
}
