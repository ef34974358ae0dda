package canvas

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const (
	// defaultFontSize is the label font size in user units.
	defaultFontSize = 12.0
	// charWidthRatio approximates the advance width of one character as a
	// fraction of the font size, tuned for common sans-serif fonts.
	charWidthRatio = 0.55

	fontFamily = "Helvetica, Arial, sans-serif"
	lineColor  = "#1a1a1a"
	textColor  = "#1a1a1a"
)

// SVG is a Canvas that renders into an in-memory SVG document.
// Call [SVG.Bytes] after the paint pass finished.
type SVG struct {
	buf      bytes.Buffer
	fontSize float64
	finished bool
}

// NewSVG creates an empty SVG canvas with the default font size.
func NewSVG() *SVG {
	return &SVG{fontSize: defaultFontSize}
}

// Init writes the opening svg element sized to the given frame.
func (c *SVG) Init(width, height float64) {
	c.buf.Reset()
	c.finished = false
	fmt.Fprintf(&c.buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
}

// Finish closes the svg element.
func (c *SVG) Finish() {
	if c.finished {
		return
	}
	c.buf.WriteString("</svg>\n")
	c.finished = true
}

// Line draws a stroked line segment.
func (c *SVG) Line(x1, y1, x2, y2, stroke float64) {
	fmt.Fprintf(&c.buf,
		`  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f"/>`+"\n",
		x1, y1, x2, y2, lineColor, stroke)
}

// Text draws a label with its baseline starting at (x, y).
func (c *SVG) Text(s string, x, y float64) {
	fmt.Fprintf(&c.buf,
		`  <text x="%.2f" y="%.2f" font-family="%s" font-size="%.0f" fill="%s">%s</text>`+"\n",
		x, y, fontFamily, c.fontSize, textColor, escapeXML(s))
}

// FontWidth returns the approximate advance width of one character.
func (c *SVG) FontWidth() float64 { return c.fontSize * charWidthRatio }

// FontHeight returns the line height of the canvas font.
func (c *SVG) FontHeight() float64 { return c.fontSize }

// StringWidth returns the approximate rendered width of s.
func (c *SVG) StringWidth(s string) float64 {
	return float64(len(s)) * c.FontWidth()
}

// Bytes returns the rendered document. It closes the svg element if Finish
// has not been called yet.
func (c *SVG) Bytes() []byte {
	c.Finish()
	return c.buf.Bytes()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Ensure SVG implements Canvas.
var _ Canvas = (*SVG)(nil)
