package tree

import (
	"math"
	"testing"
)

// chain builds a small hand-assembled tree:
//
//	root ── a:0.1 ── (c:0.3, d:0.4)
//	     └─ b:0.2
func chain() (*Tree, *Node, *Node, *Node, *Node) {
	root := &Node{}
	a := &Node{Name: "a", Dist: 0.1}
	b := &Node{Name: "b", Dist: 0.2}
	c := &Node{Name: "c", Dist: 0.3}
	d := &Node{Name: "d", Dist: 0.4}
	root.AddChild(a)
	root.AddChild(b)
	a.AddChild(c)
	a.AddChild(d)
	return New(root), a, b, c, d
}

func TestAddRemoveChild(t *testing.T) {
	_, a, b, c, _ := chain()

	if c.Parent != a {
		t.Error("AddChild should set the parent back-reference")
	}
	a.RemoveChild(c)
	if c.Parent != nil {
		t.Error("RemoveChild should clear the parent back-reference")
	}
	if len(a.Children) != 1 {
		t.Errorf("a has %d children after removal, want 1", len(a.Children))
	}

	// Removing a non-child is a no-op.
	a.RemoveChild(b)
	if len(a.Children) != 1 {
		t.Error("removing a non-child should not change the child list")
	}
}

func TestReplaceChild(t *testing.T) {
	_, a, _, c, _ := chain()
	e := &Node{Name: "e", Dist: 0.9}

	a.ReplaceChild(c, e)
	if a.Children[0] != e {
		t.Error("ReplaceChild should keep the replaced child's position")
	}
	if e.Parent != a {
		t.Error("ReplaceChild should set the new child's parent")
	}
	if c.Parent != nil {
		t.Error("ReplaceChild should clear the old child's parent")
	}
}

func TestFindAndLeaves(t *testing.T) {
	tr, _, _, _, d := chain()

	if got := tr.Find("d"); got != d {
		t.Errorf("Find(d) = %v, want the d node", got)
	}
	if got := tr.Find("missing"); got != nil {
		t.Errorf("Find(missing) = %v, want nil", got)
	}

	leaves := tr.Leaves()
	got := names(leaves)
	want := []string{"c", "d", "b"} // depth-first in storage order
	if len(got) != len(want) {
		t.Fatalf("Leaves() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Leaves() = %v, want %v", got, want)
		}
	}
	if got := tr.LeafCount(); got != 3 {
		t.Errorf("LeafCount() = %d, want 3", got)
	}
}

func TestDepthAndMaxLeafDist(t *testing.T) {
	tr, _, _, c, _ := chain()

	if got := tr.Root.Depth(); got != 2 {
		t.Errorf("Depth() = %d, want 2", got)
	}
	if got := c.Depth(); got != 0 {
		t.Errorf("leaf Depth() = %d, want 0", got)
	}
	// Deepest path by distance: a(0.1) + d(0.4).
	if got, want := tr.Root.MaxLeafDist(), 0.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("MaxLeafDist() = %v, want %v", got, want)
	}
}

func TestPathLength(t *testing.T) {
	tr, _, _, _, _ := chain()

	tests := []struct {
		name string
		x, y string
		want float64
	}{
		{"siblings", "c", "d", 0.7},
		{"cross subtree", "c", "b", 0.6},
		{"same node", "c", "c", 0},
		{"missing leaf", "c", "zz", -1},
	}
	for _, tt := range tests {
		if got := tr.PathLength(tt.x, tt.y); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: PathLength = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEffectiveLeafCount(t *testing.T) {
	tr, a, _, _, _ := chain()

	if got := tr.Root.EffectiveLeafCount(); got != 3 {
		t.Errorf("EffectiveLeafCount() = %d, want 3", got)
	}
	a.Collapsed = true
	if got := tr.Root.EffectiveLeafCount(); got != 2 {
		t.Errorf("EffectiveLeafCount() with collapsed subtree = %d, want 2", got)
	}
}

func TestValidateCollapsesUnary(t *testing.T) {
	root := &Node{}
	wrapper := &Node{Dist: 0.3}
	leaf := &Node{Name: "x", Dist: 0.2}
	other := &Node{Name: "y", Dist: 0.1}
	root.AddChild(wrapper)
	root.AddChild(other)
	wrapper.AddChild(leaf)

	tr := New(root)
	tr.Validate()

	if leaf.Parent != root {
		t.Fatal("Validate should splice out the unary wrapper")
	}
	if got, want := leaf.Dist, 0.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("merged distance = %v, want %v", got, want)
	}
}

func TestClone(t *testing.T) {
	tr, _, _, c, _ := chain()
	cp := tr.Clone()

	if Compare(tr, cp) != 0 {
		t.Error("clone should compare equal to the original")
	}
	// Mutating the clone must not touch the original.
	cp.Find("c").Dist = 9
	if c.Dist == 9 {
		t.Error("clone shares nodes with the original")
	}
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}
