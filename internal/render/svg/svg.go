// Package svg renders the timeline as an SVG document. Text widths come
// from the same embedded face the raster backend uses.
package svg

import (
	"fmt"
	"strings"

	"timeline/internal/model"
	"timeline/internal/render"
	"timeline/internal/render/font"
)

// Canvas implements render.Canvas by accumulating SVG elements.
type Canvas struct {
	measure  func(string) float64
	fontSize float64
	body     strings.Builder
	bg       string
}

// New returns an SVG canvas whose labels use the given font size.
func New(fontSize float64) (*Canvas, error) {
	if fontSize <= 0 {
		fontSize = render.DefaultFontSize
	}
	measure, err := font.Measurer(fontSize)
	if err != nil {
		return nil, fmt.Errorf("svg: load font: %w", err)
	}
	return &Canvas{measure: measure, fontSize: fontSize, bg: "#ffffff"}, nil
}

func (c *Canvas) Clear(background string) {
	c.body.Reset()
	c.bg = background
}

func (c *Canvas) Line(x1, y1, x2, y2, width float64, color string) {
	fmt.Fprintf(&c.body, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"/>`+"\n",
		num(x1), num(y1), num(x2), num(y2), escapeXML(color), num(width))
}

func (c *Canvas) Circle(x, y, r float64, color string) {
	fmt.Fprintf(&c.body, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n",
		num(x), num(y), num(r), escapeXML(color))
}

func (c *Canvas) Text(s string, x, y float64, color string) {
	fmt.Fprintf(&c.body, `<text x="%s" y="%s" fill="%s">%s</text>`+"\n",
		num(x), num(y), escapeXML(color), escapeXML(s))
}

func (c *Canvas) MeasureText(s string) float64 {
	return c.measure(s)
}

// String returns the complete SVG document.
func (c *Canvas) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">
<style>text { font-family: %s; font-size: %spx; }</style>
<rect width="100%%" height="100%%" fill="%s"/>
`, render.Width, render.Height, render.Width, render.Height, font.Family, num(c.fontSize), escapeXML(c.bg))
	b.WriteString(c.body.String())
	b.WriteString("</svg>\n")
	return b.String()
}

// Render draws events with style and returns the SVG document.
func Render(events []model.Event, style render.Style) ([]byte, error) {
	c, err := New(style.FontSize)
	if err != nil {
		return nil, err
	}
	render.Draw(c, events, style)
	return []byte(c.String()), nil
}

func num(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
