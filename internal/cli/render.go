package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cladeviz/clade/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output       string   // output file path (or base path for multiple formats)
	viz          string   // visualization type: "dendro" or "nodelink"
	formats      []string // output formats: "svg", "png", "pdf", "dot", "json"
	reroot       string   // reroot on this leaf before drawing
	prune        []string // leaves to remove before drawing
	collapse     []string // nodes to draw as collapsed clusters
	binary       bool     // normalize polytomies to binary
	xScale       float64  // horizontal units per branch-length unit
	yScale       float64  // vertical units per leaf row
	minCollapsed float64  // minimum extent of collapsed clusters
	showLengths  bool     // label nodelink edges with branch lengths
	noCache      bool     // disable the artifact cache
	refresh      bool     // recompute even when cached
}

// newRenderCmd creates the render command for generating visualizations.
// It supports the dendrogram and node-link views and five output formats.
func newRenderCmd() *cobra.Command {
	var formatsStr, pruneStr, collapseStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a tree as a dendrogram or node-link diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseList(formatsStr, pipeline.FormatSVG)
			opts.prune = parseList(pruneStr, "")
			opts.collapse = parseList(collapseStr, "")
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.viz, "viz", "t", pipeline.VizDendro, "visualization type: dendro (default), nodelink")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.reroot, "reroot", "", "reroot on this leaf before drawing")
	cmd.Flags().StringVar(&pruneStr, "prune", "", "leaves to remove before drawing (comma-separated)")
	cmd.Flags().StringVar(&collapseStr, "collapse", "", "nodes to draw as collapsed clusters (comma-separated)")
	cmd.Flags().BoolVar(&opts.binary, "binary", false, "normalize polytomies to binary before drawing")
	cmd.Flags().Float64Var(&opts.xScale, "x-scale", 0, "horizontal units per branch-length unit")
	cmd.Flags().Float64Var(&opts.yScale, "y-scale", 0, "vertical units per leaf row")
	cmd.Flags().Float64Var(&opts.minCollapsed, "min-collapsed", 0, "minimum extent of collapsed clusters")
	cmd.Flags().BoolVar(&opts.showLengths, "lengths", false, "label nodelink edges with branch lengths")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

// parseList parses a comma-separated flag value into a slice. An empty value
// yields the fallback, or nil when the fallback is empty.
func parseList(s, fallback string) []string {
	if s == "" {
		if fallback == "" {
			return nil
		}
		return []string{fallback}
	}
	return strings.Split(s, ",")
}

// runRender reads the input, runs the pipeline, and writes one file per
// requested format.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	text, err := readNewick(input)
	if err != nil {
		return err
	}

	runner := newRunner(opts.noCache, logger)
	defer runner.Close()

	pipeOpts := pipeline.Options{
		Newick:       text,
		Reroot:       opts.reroot,
		Prune:        opts.prune,
		Collapse:     opts.collapse,
		Binary:       opts.binary,
		Viz:          opts.viz,
		XScale:       opts.xScale,
		YScale:       opts.yScale,
		MinCollapsed: opts.minCollapsed,
		Formats:      opts.formats,
		ShowLengths:  opts.showLengths,
		Refresh:      opts.refresh,
		Logger:       logger,
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s", input))
	spinner.Start()
	result, err := runner.Execute(ctx, pipeOpts)
	if err != nil {
		spinner.Stop()
		if spinner.Cancelled() {
			return ctx.Err()
		}
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s", input))
	printStats(result.Stats.LeafCount, result.CacheInfo.RenderHit)

	if input == "-" && opts.output == "" && len(opts.formats) == 1 {
		return writeOutput("", result.Artifacts[opts.formats[0]])
	}

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := opts.output
		if path == "" || len(opts.formats) > 1 {
			path = base + "." + format
		}
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}

	if opts.viz == pipeline.VizDendro {
		printNextStep("Try the node-link view", fmt.Sprintf("clade render %s -t nodelink", input))
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output carries
// a known format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
