// Package pipeline provides the core visualization pipeline for clade.
//
// This package implements the complete parse → transform → layout → render
// pipeline shared by the CLI and the HTTP server. Centralizing it here keeps
// caching, validation, and stage ordering identical across entry points.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Parse: Read Newick text into a tree
//  2. Transform: Apply reroot, prune, collapse, and binary normalization
//  3. Layout: Compute drawing coordinates for the transformed tree
//  4. Render: Generate output in various formats (SVG, PNG, PDF, DOT, JSON)
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Newick:  "((A:0.1,B:0.2):0.1,C:0.3):0.0;",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cladeviz/clade/pkg/cache"
)

// Viz type constants for the two tree views.
const (
	VizDendro   = "dendro"
	VizNodelink = "nodelink"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizDendro:   true,
	VizNodelink: true,
}

// DefaultPNGScale is the resolution multiplier for PNG export.
const DefaultPNGScale = 2.0

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Newick string `json:"newick"`

	// Transform options
	Reroot   string   `json:"reroot,omitempty"`   // reroot on this leaf before drawing
	Prune    []string `json:"prune,omitempty"`    // leaves to remove, in order
	Collapse []string `json:"collapse,omitempty"` // nodes to draw as collapsed clusters
	Binary   bool     `json:"binary,omitempty"`   // normalize polytomies to binary

	// Layout options
	Viz          string  `json:"viz,omitempty"`
	XScale       float64 `json:"x_scale,omitempty"`
	YScale       float64 `json:"y_scale,omitempty"`
	MinCollapsed float64 `json:"min_collapsed,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	ShowLengths bool     `json:"show_lengths,omitempty"` // label nodelink edges with branch lengths
	Refresh     bool     `json:"refresh,omitempty"`      // bypass the artifact cache

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Newick is the canonical serialization of the transformed tree.
	Newick string

	// TreeHash is the content hash of the canonical Newick text.
	TreeHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains size and timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LeafCount  int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(viz string) error {
	if !ValidVizTypes[viz] {
		return fmt.Errorf("invalid viz: %q (must be one of: dendro, nodelink)", viz)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Newick == "" {
		return fmt.Errorf("newick input is required")
	}
	o.SetDefaults()
	if err := ValidateVizType(o.Viz); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Viz == VizDendro && slices.Contains(o.Formats, FormatDOT) {
		return fmt.Errorf("dot output requires --viz nodelink")
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields with pipeline defaults.
func (o *Options) SetDefaults() {
	if o.Viz == "" {
		o.Viz = VizDendro
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.Viz == VizNodelink
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		XScale:       o.XScale,
		YScale:       o.YScale,
		MinCollapsed: o.MinCollapsed,
		Reroot:       o.Reroot,
		Prune:        o.Prune,
		Binary:       o.Binary,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Style:       o.Viz,
		ShowLengths: o.ShowLengths,
	}
}
