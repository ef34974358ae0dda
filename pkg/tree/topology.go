package tree

// Topology operations. All three mutate the tree in place while preserving
// the single-root, single-ownership invariants. Calls whose preconditions
// are not met are permissive no-ops; callers that care must check
// post-conditions. See DESIGN.md for the rationale behind keeping the
// permissive contract.

// Reroot repositions the root adjacent to target and flags target as the
// outgroup, clearing any previous outgroup flag. The edge between target and
// its old parent is split evenly: target keeps half as its distance to the
// new root, and the old parent is attached on the other side with the same
// half. Distances along the former ancestor chain shift one position toward
// the old root, and the old root itself is spliced out, its remaining
// children reattached to the last chain node with the shifted amount added.
//
// Rerooting is a no-op when target is nil, not part of this tree, or already
// the root.
func (t *Tree) Reroot(target *Node) {
	if t.Root == nil || target == nil || target.Parent == nil {
		return
	}

	t.Root.Walk(func(n *Node) { n.Outgroup = false })
	target.Outgroup = true

	root := &Node{}
	oldParent := target.Parent
	half := target.Dist / 2

	oldParent.RemoveChild(target)
	root.AddChild(target)
	target.Dist = half

	// Walk the former ancestor chain. Each node is re-parented under the
	// node that replaced it one step closer to target, taking over the
	// distance its former child carried before the shift.
	prev := root
	carry := half
	for cur := oldParent; cur != nil; {
		parent := cur.Parent
		if parent == nil {
			// cur is the old root: splice it out and hang its remaining
			// children off the last constructed chain node, each gaining
			// the shifted distance.
			for _, c := range append([]*Node(nil), cur.Children...) {
				cur.RemoveChild(c)
				prev.AddChild(c)
				c.Dist += carry
			}
			break
		}
		next := cur.Dist
		parent.RemoveChild(cur)
		prev.AddChild(cur)
		cur.Dist = carry
		prev, carry, cur = cur, next, parent
	}

	t.Root = root
}

// RemoveLeaf removes the named leaf and splices out its now-unary parent,
// adding the parent's branch length to the leaf's sibling so that total path
// length between surviving leaves is preserved.
//
// The operation assumes a binary tree: it is a no-op when the name is not
// found, names a non-leaf or the root, or the leaf's parent does not have
// exactly two children.
func (t *Tree) RemoveLeaf(name string) {
	if t.Root == nil {
		return
	}
	leaf := t.Root.Find(name)
	if leaf == nil || !leaf.IsLeaf() || leaf.Parent == nil {
		return
	}
	parent := leaf.Parent
	if len(parent.Children) != 2 {
		return
	}

	parent.RemoveChild(leaf)
	sibling := parent.Children[0]
	sibling.Dist += parent.Dist

	if parent.Parent == nil {
		parent.RemoveChild(sibling)
		t.Root = sibling
		return
	}
	grand := parent.Parent
	parent.RemoveChild(sibling)
	grand.ReplaceChild(parent, sibling)
}

// MakeBinary normalizes the tree so that every internal node has at most two
// children. For each polytomy, all children after the first are detached
// into a new zero-distance intermediate node that becomes the second child;
// this repeats until the invariant holds throughout.
func (t *Tree) MakeBinary() {
	if t.Root == nil {
		return
	}
	makeBinary(t.Root)
}

func makeBinary(n *Node) {
	for len(n.Children) > 2 {
		rest := append([]*Node(nil), n.Children[1:]...)
		inter := &Node{}
		for _, c := range rest {
			n.RemoveChild(c)
			inter.AddChild(c)
		}
		n.AddChild(inter)
	}
	for _, c := range n.Children {
		makeBinary(c)
	}
}
