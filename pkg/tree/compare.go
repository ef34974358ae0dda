package tree

import (
	"math"
	"strings"
)

// Epsilon is the tolerance used for branch-length comparison. Rerooting and
// serialization both introduce floating-point noise well below this bound.
const Epsilon = 1e-6

// Compare performs a structural and metric equivalence test between two
// trees. It returns 0 iff the trees are equivalent modulo child ordering and
// root-local distance redistribution; a nonzero result gives an arbitrary
// but consistent ordering, not a meaningful magnitude.
//
// The comparison key per node is, in order:
//
//  1. Node name, reverse lexical order.
//  2. Branch length: skipped when both nodes are roots; when both parents
//     are roots, the SUM of each parent's children's distances is compared
//     instead (rerooting may redistribute the root's neighboring distances
//     arbitrarily among root children while preserving their sum);
//     otherwise the node's own distance. All within [Epsilon].
//  3. Each child matched greedily against the first equivalent child of the
//     other node.
//
// The greedy child match is non-bijective and can mis-report equality for
// trees with repeated identical substructure; see the comparator notes in
// DESIGN.md. Compare is reflexive and symmetric in zero-ness but exact
// transitivity is not guaranteed.
func Compare(a, b *Tree) int {
	if a.Root == nil || b.Root == nil {
		if a.Root == b.Root {
			return 0
		}
		if a.Root == nil {
			return -1
		}
		return 1
	}
	return compareNodes(a.Root, b.Root)
}

func compareNodes(x, y *Node) int {
	if c := strings.Compare(y.Name, x.Name); c != 0 {
		return c
	}

	if !x.IsRoot() || !y.IsRoot() {
		dx, dy := x.Dist, y.Dist
		if x.Parent != nil && x.Parent.IsRoot() && y.Parent != nil && y.Parent.IsRoot() {
			dx, dy = childDistSum(x.Parent), childDistSum(y.Parent)
		}
		if diff := dx - dy; math.Abs(diff) > Epsilon {
			if diff < 0 {
				return -1
			}
			return 1
		}
	}

	if c := len(x.Children) - len(y.Children); c != 0 {
		return c
	}

	for _, cx := range x.Children {
		c := -1
		for _, cy := range y.Children {
			if c = compareNodes(cx, cy); c == 0 {
				break
			}
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// childDistSum returns the sum of the distances of all direct children.
func childDistSum(n *Node) float64 {
	sum := 0.0
	for _, c := range n.Children {
		sum += c.Dist
	}
	return sum
}
