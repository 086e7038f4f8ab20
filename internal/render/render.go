// Package render lays out an ordered event list on the fixed 800x200
// timeline canvas and projects that layout onto a Canvas backend.
//
// Geometry:
//
//	baseline  (50,100) -> (750,100), width 2
//	marker i  x = 50 + i * 700/max(n-1,1), y = 100, radius 5
//	labels    even i above the line (title baseline y=70, date y=85)
//	          odd i below the line  (title baseline y=130, date y=145)
//
// Titles and dates are centred on their marker using the canvas' own text
// measurement.
package render

import (
	"timeline/internal/config"
	"timeline/internal/model"
)

// Canvas geometry in logical units.
const (
	Width         = 800
	Height        = 200
	MarginLeft    = 50.0
	MarginRight   = 750.0
	Span          = MarginRight - MarginLeft
	BaselineY     = 100.0
	BaselineWidth = 2.0
	MarkerRadius  = 5.0
	LabelOffset   = 30.0
	DateGap       = 15.0
)

// DefaultFontSize is the label size in logical units.
const DefaultFontSize = 12.0

// Canvas is a 2D drawing surface. Colours are hex strings ("#rrggbb").
type Canvas interface {
	Clear(background string)
	Line(x1, y1, x2, y2, width float64, color string)
	Circle(x, y, r float64, color string)
	// Text draws s with its left edge at x and its baseline at y.
	Text(s string, x, y float64, color string)
	// MeasureText returns the horizontal advance of s.
	MeasureText(s string) float64
}

// Style holds the colours and font size used by Draw.
type Style struct {
	Background string  `json:"background"`
	Baseline   string  `json:"baseline"`
	Marker     string  `json:"marker"`
	Text       string  `json:"text"`
	FontSize   float64 `json:"font_size"`
}

// DefaultStyle is a white background with black line and text, red
// markers and 12 unit labels.
func DefaultStyle() Style {
	return Style{
		Background: "#ffffff",
		Baseline:   "#000000",
		Marker:     "#ff0000",
		Text:       "#000000",
		FontSize:   DefaultFontSize,
	}
}

// StyleFromConfig converts the configured style, filling gaps from
// DefaultStyle.
func StyleFromConfig(c config.StyleConfig) Style {
	s := DefaultStyle()
	if c.Background != "" {
		s.Background = c.Background
	}
	if c.Baseline != "" {
		s.Baseline = c.Baseline
	}
	if c.Marker != "" {
		s.Marker = c.Marker
	}
	if c.Text != "" {
		s.Text = c.Text
	}
	if c.FontSize > 0 {
		s.FontSize = c.FontSize
	}
	return s
}

// Label is a piece of text positioned by its left edge and baseline.
type Label struct {
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Width float64 `json:"width"`
}

// Placement is the computed position of one event.
type Placement struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Above bool    `json:"above"`
	Title Label   `json:"title"`
	Date  Label   `json:"date"`
}

// Spacing returns the horizontal distance between consecutive markers for
// n events. It is never derived from a zero divisor.
func Spacing(n int) float64 {
	return Span / float64(max(n-1, 1))
}

// MarkerX returns the x coordinate of marker i out of n.
func MarkerX(i, n int) float64 {
	return MarginLeft + float64(i)*Spacing(n)
}

// LabelAbove reports whether the labels of index i sit above the baseline.
func LabelAbove(i int) bool {
	return i%2 == 0
}

// Layout computes marker and label positions. measure returns the width of
// a string; a nil measure centres on zero width.
func Layout(events []model.Event, measure func(string) float64) []Placement {
	if measure == nil {
		measure = func(string) float64 { return 0 }
	}

	n := len(events)
	out := make([]Placement, 0, n)
	for i, ev := range events {
		x := MarkerX(i, n)
		above := LabelAbove(i)
		offset := LabelOffset
		if above {
			offset = -LabelOffset
		}
		titleY := BaselineY + offset

		tw := measure(ev.Title)
		dw := measure(ev.Display)
		out = append(out, Placement{
			Index: i,
			X:     x,
			Y:     BaselineY,
			Above: above,
			Title: Label{Text: ev.Title, X: x - tw/2, Y: titleY, Width: tw},
			Date:  Label{Text: ev.Display, X: x - dw/2, Y: titleY + DateGap, Width: dw},
		})
	}
	return out
}

// Draw clears c and draws the baseline, one marker per event and the
// alternating labels. It returns the layout it drew.
func Draw(c Canvas, events []model.Event, style Style) []Placement {
	c.Clear(style.Background)
	c.Line(MarginLeft, BaselineY, MarginRight, BaselineY, BaselineWidth, style.Baseline)

	placements := Layout(events, c.MeasureText)
	for _, p := range placements {
		c.Circle(p.X, p.Y, MarkerRadius, style.Marker)
		c.Text(p.Title.Text, p.Title.X, p.Title.Y, style.Text)
		c.Text(p.Date.Text, p.Date.X, p.Date.Y, style.Text)
	}
	return placements
}
