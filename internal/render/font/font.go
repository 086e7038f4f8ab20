// Package font provides the label font used by every render backend, so
// raster output, SVG output and the browser layout all centre labels with
// the same measurements.
package font

import (
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// Family is the CSS font-family matching the embedded face.
const Family = "'Go', 'Go Regular', Arial, sans-serif"

var (
	source     *text.FontSource
	sourceErr  error
	sourceOnce sync.Once
)

// Source returns the shared Go Regular font source.
func Source() (*text.FontSource, error) {
	sourceOnce.Do(func() {
		source, sourceErr = text.NewFontSource(goregular.TTF)
	})
	return source, sourceErr
}

// Face returns a face of the given size.
func Face(size float64) (text.Face, error) {
	src, err := Source()
	if err != nil {
		return nil, err
	}
	return src.Face(size), nil
}

// Measurer returns a width function for layout at the given size.
func Measurer(size float64) (func(string) float64, error) {
	face, err := Face(size)
	if err != nil {
		return nil, err
	}
	return func(s string) float64 {
		w, _ := text.Measure(s, face)
		return w
	}, nil
}
