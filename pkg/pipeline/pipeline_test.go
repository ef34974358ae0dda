package pipeline_test

import (
	"context"
	"strings"
	"testing"

	"github.com/cladeviz/clade/pkg/cache"
	"github.com/cladeviz/clade/pkg/errors"
	"github.com/cladeviz/clade/pkg/newick"
	"github.com/cladeviz/clade/pkg/pipeline"
	"github.com/cladeviz/clade/pkg/render/dendro"
	"github.com/cladeviz/clade/pkg/tree"
)

const baseTree = "(((A:0.1,B:0.2):0.1,(C:0.1,D:0.1):0.2):0.3,E:0.5):0.0;"

func mustParse(t *testing.T, s string) *tree.Tree {
	t.Helper()
	tr, err := newick.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", s, err)
	}
	return tr
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := pipeline.Options{Newick: baseTree}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if got, want := opts.Viz, pipeline.VizDendro; got != want {
		t.Errorf("Viz = %q, want default %q", got, want)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != pipeline.FormatSVG {
		t.Errorf("Formats = %v, want default [svg]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name string
		opts pipeline.Options
	}{
		{"empty newick", pipeline.Options{}},
		{"bad format", pipeline.Options{Newick: baseTree, Formats: []string{"gif"}}},
		{"bad viz", pipeline.Options{Newick: baseTree, Viz: "radial"}},
		{"dot without nodelink", pipeline.Options{Newick: baseTree, Formats: []string{"dot"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}

	ok := pipeline.Options{Newick: baseTree, Viz: pipeline.VizNodelink, Formats: []string{"dot"}}
	if err := ok.ValidateAndSetDefaults(); err != nil {
		t.Errorf("dot with nodelink should validate, got %v", err)
	}
}

func TestTransform(t *testing.T) {
	tr := mustParse(t, baseTree)
	err := pipeline.Transform(tr, pipeline.Options{
		Reroot:   "B",
		Prune:    []string{"A"},
		Collapse: []string{"C"},
	})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if tr.Find("A") != nil {
		t.Error("pruned leaf A still present")
	}
	if !tr.Find("B").Outgroup {
		t.Error("reroot target should carry the outgroup flag")
	}
	if !tr.Find("C").Collapsed {
		t.Error("collapse target should be marked collapsed")
	}
}

func TestTransformMissingTargets(t *testing.T) {
	tests := []struct {
		name string
		opts pipeline.Options
	}{
		{"reroot", pipeline.Options{Reroot: "Z"}},
		{"prune", pipeline.Options{Prune: []string{"Z"}}},
		{"collapse", pipeline.Options{Collapse: []string{"Z"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := mustParse(t, baseTree)
			err := pipeline.Transform(tr, tt.opts)
			if !errors.Is(err, errors.ErrCodeNotFound) {
				t.Errorf("Transform = %v, want not-found", err)
			}
		})
	}
}

func TestTransformBinary(t *testing.T) {
	tr := mustParse(t, "(A:0.1,B:0.2,C:0.3);")
	if err := pipeline.Transform(tr, pipeline.Options{Binary: true}); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	tr.Root.Walk(func(n *tree.Node) {
		if len(n.Children) > 2 {
			t.Errorf("node with %d children after binary normalization", len(n.Children))
		}
	})
}

func TestExecute(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil)
	result, err := runner.Execute(context.Background(), pipeline.Options{
		Newick:  baseTree,
		Formats: []string{"svg", "json"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got, want := result.Newick, "(((A:0.10000,B:0.20000):0.10000,(C:0.10000,D:0.10000):0.20000):0.30000,E:0.50000):0.00000;"; got != want {
		t.Errorf("Newick = %q, want canonical form %q", got, want)
	}
	if got, want := result.TreeHash, cache.Hash([]byte(result.Newick)); got != want {
		t.Errorf("TreeHash = %q, want hash of canonical newick", got)
	}
	if got := result.Stats.LeafCount; got != 5 {
		t.Errorf("LeafCount = %d, want 5", got)
	}

	svg, ok := result.Artifacts["svg"]
	if !ok || !strings.HasPrefix(string(svg), "<svg") {
		t.Errorf("svg artifact = %.40q, want an SVG document", svg)
	}
	js, ok := result.Artifacts["json"]
	if !ok || !strings.Contains(string(js), `"nodes"`) {
		t.Errorf("json artifact = %.60q, want a layout document", js)
	}
	if result.CacheInfo.RenderHit {
		t.Error("first run through a null cache should not report a cache hit")
	}
}

func TestExecuteMalformed(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil)
	_, err := runner.Execute(context.Background(), pipeline.Options{Newick: "(A:0.1,B:0.2;"})
	if !errors.Is(err, errors.ErrCodeMalformedTree) {
		t.Errorf("Execute(malformed) = %v, want malformed-tree", err)
	}
}

func TestExecuteArtifactCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := pipeline.NewRunner(c, nil)
	ctx := context.Background()
	opts := pipeline.Options{Newick: baseTree, Formats: []string{"svg"}}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should render fresh")
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should be served from cache")
	}
	if string(first.Artifacts["svg"]) != string(second.Artifacts["svg"]) {
		t.Error("cached artifact differs from the fresh render")
	}

	refreshed, err := runner.Execute(ctx, pipeline.Options{Newick: baseTree, Formats: []string{"svg"}, Refresh: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if refreshed.CacheInfo.RenderHit {
		t.Error("Refresh should bypass the artifact cache")
	}
}

func TestExecuteLayoutOptionsChangeArtifacts(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := pipeline.NewRunner(c, nil)
	ctx := context.Background()

	if _, err := runner.Execute(ctx, pipeline.Options{Newick: baseTree, XScale: 10}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	// Same tree, different layout scale: must not hit the previous artifact.
	result, err := runner.Execute(ctx, pipeline.Options{Newick: baseTree, XScale: 20})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.CacheInfo.RenderHit {
		t.Error("changed layout options should invalidate cached artifacts")
	}
}

func TestRenderNodelinkDOT(t *testing.T) {
	tr := mustParse(t, baseTree)
	opts := pipeline.Options{
		Newick:  baseTree,
		Viz:     pipeline.VizNodelink,
		Formats: []string{"dot"},
	}
	artifacts, err := pipeline.Render(tr, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	dot := string(artifacts["dot"])
	if !strings.Contains(dot, "digraph") || !strings.Contains(dot, `label="E"`) {
		t.Errorf("dot artifact = %.60q, want a digraph with leaf labels", dot)
	}
}

func TestExportLayout(t *testing.T) {
	tr := mustParse(t, "((A:0.1,B:0.2):0.3,C:0.4);")
	layout := pipeline.ExportLayout(tr, dendro.Options{XScale: 10, YScale: 2})

	if got, want := layout.Viz, pipeline.VizDendro; got != want {
		t.Errorf("Viz = %q, want %q", got, want)
	}
	if got := len(layout.Nodes); got != 5 {
		t.Errorf("len(Nodes) = %d, want 5", got)
	}
	leaves := 0
	for _, n := range layout.Nodes {
		if n.Leaf {
			leaves++
		}
	}
	if leaves != 3 {
		t.Errorf("leaf nodes = %d, want 3", leaves)
	}

	data, err := pipeline.MarshalLayout(layout)
	if err != nil {
		t.Fatalf("MarshalLayout: %v", err)
	}
	back, err := pipeline.UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if len(back.Nodes) != len(layout.Nodes) {
		t.Errorf("round-trip node count = %d, want %d", len(back.Nodes), len(layout.Nodes))
	}
}
