package render

import "unicode/utf8"

// OpKind identifies a recorded drawing operation.
type OpKind string

const (
	OpClear  OpKind = "clear"
	OpLine   OpKind = "line"
	OpCircle OpKind = "circle"
	OpText   OpKind = "text"
)

// Op is one recorded call against a Recorder.
type Op struct {
	Kind   OpKind
	X1, Y1 float64
	X2, Y2 float64
	R      float64
	Width  float64
	Text   string
	Color  string
}

// Recorder is a Canvas that records operations instead of drawing them.
// Text is measured as CharWidth per rune.
type Recorder struct {
	CharWidth float64
	Ops       []Op
}

// NewRecorder returns a Recorder that measures each rune as charWidth.
func NewRecorder(charWidth float64) *Recorder {
	return &Recorder{CharWidth: charWidth}
}

func (r *Recorder) Clear(background string) {
	r.Ops = append(r.Ops[:0], Op{Kind: OpClear, Color: background})
}

func (r *Recorder) Line(x1, y1, x2, y2, width float64, color string) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, X1: x1, Y1: y1, X2: x2, Y2: y2, Width: width, Color: color})
}

func (r *Recorder) Circle(x, y, radius float64, color string) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, X1: x, Y1: y, R: radius, Color: color})
}

func (r *Recorder) Text(s string, x, y float64, color string) {
	r.Ops = append(r.Ops, Op{Kind: OpText, X1: x, Y1: y, Text: s, Color: color})
}

func (r *Recorder) MeasureText(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * r.CharWidth
}

// Of returns the recorded operations of kind k, in order.
func (r *Recorder) Of(k OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == k {
			out = append(out, op)
		}
	}
	return out
}
