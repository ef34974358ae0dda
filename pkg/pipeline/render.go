package pipeline

import (
	"fmt"

	"github.com/cladeviz/clade/pkg/render"
	"github.com/cladeviz/clade/pkg/render/canvas"
	"github.com/cladeviz/clade/pkg/render/dendro"
	"github.com/cladeviz/clade/pkg/render/nodelink"
	"github.com/cladeviz/clade/pkg/tree"
)

// Render generates output artifacts for the tree in the requested formats.
// The tree must already be transformed; Render never mutates topology, only
// the coordinate fields touched by layout.
func Render(t *tree.Tree, opts Options) (map[string][]byte, error) {
	if opts.IsNodelink() {
		return renderNodelink(t, opts)
	}
	return renderDendro(t, opts)
}

// renderDendro paints the rectangular dendrogram view.
func renderDendro(t *tree.Tree, opts Options) (map[string][]byte, error) {
	layoutOpts := dendro.Options{
		XScale:       opts.XScale,
		YScale:       opts.YScale,
		MinCollapsed: opts.MinCollapsed,
	}

	// SVG is the base artifact; PNG and PDF are conversions of it.
	var svg []byte
	needSVG := func() []byte {
		if svg == nil {
			c := canvas.NewSVG()
			dendro.Paint(t, c, layoutOpts)
			svg = c.Bytes()
		}
		return svg
	}

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = needSVG()
		case FormatPNG:
			data, err = render.ToPNG(needSVG(), DefaultPNGScale)
		case FormatPDF:
			data, err = render.ToPDF(needSVG())
		case FormatJSON:
			data, err = MarshalLayout(ExportLayout(t, layoutOpts))
		default:
			return nil, fmt.Errorf("unsupported dendro format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderNodelink generates the Graphviz node-link view.
func renderNodelink(t *tree.Tree, opts Options) (map[string][]byte, error) {
	dot := nodelink.ToDOT(t, nodelink.Options{ShowLengths: opts.ShowLengths})

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(dot, DefaultPNGScale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(dot)
		case FormatJSON:
			data, err = MarshalLayout(Layout{Viz: VizNodelink, DOT: dot})
		default:
			return nil, fmt.Errorf("unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
