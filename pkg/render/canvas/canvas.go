// Package canvas defines the drawing capability consumed by the dendrogram
// paint pass, plus an SVG implementation.
//
// The tree engine never draws directly: it drives a Canvas injected at call
// time. Two paint passes over the same tree with the same Canvas
// implementation produce identical output, which keeps rendering
// deterministic and testable (tests inject a recording canvas).
package canvas

// Canvas is the capability interface the paint pass draws into.
//
// Implementations are stateful collaborators owned by the caller; the tree
// engine only calls them between Init and Finish.
type Canvas interface {
	// Init prepares a drawing surface of the given size in user units.
	Init(width, height float64)
	// Finish completes the drawing. No draw calls follow it.
	Finish()
	// Line draws a straight line between two endpoints with the given
	// stroke width.
	Line(x1, y1, x2, y2, stroke float64)
	// Text draws s with its baseline starting at (x, y).
	Text(s string, x, y float64)
	// FontWidth returns the advance width of a single character.
	FontWidth() float64
	// FontHeight returns the line height of the canvas font.
	FontHeight() float64
	// StringWidth returns the rendered width of s.
	StringWidth(s string) float64
}
