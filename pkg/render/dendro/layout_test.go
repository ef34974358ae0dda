package dendro_test

import (
	"math"
	"testing"

	"github.com/cladeviz/clade/pkg/newick"
	"github.com/cladeviz/clade/pkg/render/dendro"
	"github.com/cladeviz/clade/pkg/tree"
)

func mustParse(t *testing.T, s string) *tree.Tree {
	t.Helper()
	tr, err := newick.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", s, err)
	}
	return tr
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestComputeCoordinates(t *testing.T) {
	tr := mustParse(t, "((A:0.1,B:0.2):0.3,C:0.4);")
	opts := dendro.Options{XScale: 10, YScale: 2}
	dendro.Compute(tr, opts)

	inner := tr.Root.Children[0]
	a, b, c := tr.Find("A"), tr.Find("B"), tr.Find("C")

	// X: parent X plus scaled branch length.
	if !approx(tr.Root.X, 0) {
		t.Errorf("root.X = %v, want 0", tr.Root.X)
	}
	if !approx(inner.X, 3) {
		t.Errorf("inner.X = %v, want 3", inner.X)
	}
	if !approx(a.X, 4) || !approx(b.X, 5) || !approx(c.X, 4) {
		t.Errorf("leaf X = %v/%v/%v, want 4/5/4", a.X, b.X, c.X)
	}

	// Y: leaves on consecutive rows, internals at their children's midpoint.
	if !approx(a.Y, 0) || !approx(b.Y, 2) || !approx(c.Y, 4) {
		t.Errorf("leaf Y = %v/%v/%v, want 0/2/4", a.Y, b.Y, c.Y)
	}
	if !approx(inner.Y, 1) {
		t.Errorf("inner.Y = %v, want midpoint 1", inner.Y)
	}
	if !approx(tr.Root.Y, 2.5) {
		t.Errorf("root.Y = %v, want midpoint 2.5", tr.Root.Y)
	}
}

func TestComputeOffsets(t *testing.T) {
	tr := mustParse(t, "(A:0.1,B:0.2);")
	dendro.Compute(tr, dendro.Options{XScale: 10, YScale: 2, OffsetX: 100, OffsetY: 50})

	if !approx(tr.Find("A").X, 101) {
		t.Errorf("A.X = %v, want 101", tr.Find("A").X)
	}
	if !approx(tr.Find("A").Y, 50) {
		t.Errorf("A.Y = %v, want 50", tr.Find("A").Y)
	}
}

func TestComputeCollapsed(t *testing.T) {
	tr := mustParse(t, "((A:0.1,B:0.2):0.3,C:0.4);")
	inner := tr.Root.Children[0]
	inner.Collapsed = true

	opts := dendro.Options{XScale: 10, YScale: 2, MinCollapsed: 1}
	dendro.Compute(tr, opts)

	// Collapsed node extends by its max leaf distance: 0.3*10 + 0.2*10.
	if !approx(inner.X, 5) {
		t.Errorf("collapsed X = %v, want 5", inner.X)
	}

	// The collapsed subtree occupies one row; C moves up to row 1.
	if !approx(inner.Y, 0) {
		t.Errorf("collapsed Y = %v, want row 0", inner.Y)
	}
	if !approx(tr.Find("C").Y, 2) {
		t.Errorf("C.Y = %v, want row 1 at YScale 2", tr.Find("C").Y)
	}
}

func TestComputeCollapsedMinimumExtent(t *testing.T) {
	// Zero-length collapsed clusters stay visible at the minimum extent.
	tr := mustParse(t, "((A:0.0,B:0.0):0.0,C:0.4);")
	inner := tr.Root.Children[0]
	inner.Collapsed = true

	dendro.Compute(tr, dendro.Options{XScale: 10, YScale: 2, MinCollapsed: 6})
	if !approx(inner.X, 6) {
		t.Errorf("collapsed X = %v, want minimum 6", inner.X)
	}
}

func TestBounds(t *testing.T) {
	tr := mustParse(t, "((A:0.1,B:0.2):0.3,C:0.4);")
	opts := dendro.Options{XScale: 10, YScale: 2}
	dendro.Compute(tr, opts)

	width, height := dendro.Bounds(tr, opts)
	if !approx(width, 5) {
		t.Errorf("width = %v, want 5 (B is rightmost)", width)
	}
	if !approx(height, 6) {
		t.Errorf("height = %v, want 3 rows * 2", height)
	}
}

func TestComputeDefaults(t *testing.T) {
	tr := mustParse(t, "(A:0.1,B:0.2);")
	dendro.Compute(tr, dendro.Options{})

	if !approx(tr.Find("A").X, 0.1*dendro.DefaultXScale) {
		t.Errorf("A.X = %v, want default-scaled %v", tr.Find("A").X, 0.1*dendro.DefaultXScale)
	}
	if !approx(tr.Find("B").Y, dendro.DefaultYScale) {
		t.Errorf("B.Y = %v, want one default row", tr.Find("B").Y)
	}
}
