package pipeline

import (
	"encoding/json"

	"github.com/cladeviz/clade/pkg/render/dendro"
	"github.com/cladeviz/clade/pkg/tree"
)

// Layout is the serializable form of a computed layout, used for the JSON
// output format and for cache storage.
type Layout struct {
	Viz    string       `json:"viz"`
	Width  float64      `json:"width,omitempty"`
	Height float64      `json:"height,omitempty"`
	Nodes  []LayoutNode `json:"nodes,omitempty"`
	DOT    string       `json:"dot,omitempty"`
}

// LayoutNode is one positioned node in a dendrogram layout. Collapsed
// subtrees appear as a single terminal node.
type LayoutNode struct {
	Name      string  `json:"name,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Dist      float64 `json:"dist"`
	Leaf      bool    `json:"leaf,omitempty"`
	Collapsed bool    `json:"collapsed,omitempty"`
	Outgroup  bool    `json:"outgroup,omitempty"`
}

// ExportLayout computes dendrogram coordinates for t and returns them in
// serializable form. Node order is the deterministic depth-first paint order.
func ExportLayout(t *tree.Tree, opts dendro.Options) Layout {
	dendro.Compute(t, opts)
	width, height := dendro.Bounds(t, opts)

	l := Layout{Viz: VizDendro, Width: width, Height: height}
	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		l.Nodes = append(l.Nodes, LayoutNode{
			Name:      n.Name,
			X:         n.X,
			Y:         n.Y,
			Dist:      n.Dist,
			Leaf:      n.IsLeaf(),
			Collapsed: n.Collapsed,
			Outgroup:  n.Outgroup,
		})
		if n.Collapsed {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if t != nil && t.Root != nil {
		walk(t.Root)
	}
	return l
}

// MarshalLayout serializes a layout to JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes a layout from JSON.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	err := json.Unmarshal(data, &l)
	return l, err
}
