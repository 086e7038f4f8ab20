// Package raster draws the timeline onto a software gg canvas and encodes
// it as JPEG or PNG.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"timeline/internal/model"
	"timeline/internal/render"
	"timeline/internal/render/font"
)

// Format is an output image encoding.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// DefaultQuality is the JPEG quality used when none is given.
const DefaultQuality = 90

// FormatFromName picks an encoding from a file name's extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("raster: unsupported image extension %q", filepath.Ext(name))
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/jpeg"
}

// Canvas implements render.Canvas on top of a gg.Context.
type Canvas struct {
	dc   *gg.Context
	face text.Face
	err  error
}

// New returns an 800x200 canvas with a label face of the given size.
func New(fontSize float64) (*Canvas, error) {
	if fontSize <= 0 {
		fontSize = render.DefaultFontSize
	}
	face, err := font.Face(fontSize)
	if err != nil {
		return nil, fmt.Errorf("raster: load font: %w", err)
	}
	dc := gg.NewContext(render.Width, render.Height)
	dc.SetFont(face)
	return &Canvas{dc: dc, face: face}, nil
}

func (c *Canvas) Clear(background string) {
	c.dc.ClearWithColor(gg.Hex(background))
}

func (c *Canvas) Line(x1, y1, x2, y2, width float64, color string) {
	c.dc.SetHexColor(color)
	c.dc.SetLineWidth(width)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.keep(c.dc.Stroke())
}

func (c *Canvas) Circle(x, y, r float64, color string) {
	c.dc.SetHexColor(color)
	c.dc.DrawCircle(x, y, r)
	c.keep(c.dc.Fill())
}

func (c *Canvas) Text(s string, x, y float64, color string) {
	c.dc.SetHexColor(color)
	c.dc.DrawString(s, x, y)
}

func (c *Canvas) MeasureText(s string) float64 {
	w, _ := c.dc.MeasureString(s)
	return w
}

// Err returns the first drawing error, if any.
func (c *Canvas) Err() error {
	return c.err
}

// Image returns the rendered pixels.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// Encode writes the canvas in the given format. quality applies to JPEG.
func (c *Canvas) Encode(w io.Writer, f Format, quality int) error {
	if c.err != nil {
		return c.err
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	switch f {
	case FormatPNG:
		return c.dc.EncodePNG(w)
	case FormatJPEG, "":
		return c.dc.EncodeJPEG(w, quality)
	default:
		return fmt.Errorf("raster: unsupported format %q", f)
	}
}

// Close releases the drawing context.
func (c *Canvas) Close() error {
	return c.dc.Close()
}

func (c *Canvas) keep(err error) {
	if err != nil && c.err == nil {
		c.err = err
	}
}

// Render draws events with style and returns the encoded image.
func Render(events []model.Event, style render.Style, f Format, quality int) ([]byte, error) {
	c, err := New(style.FontSize)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	render.Draw(c, events, style)

	var buf bytes.Buffer
	if err := c.Encode(&buf, f, quality); err != nil {
		return nil, fmt.Errorf("raster: encode %s: %w", f, err)
	}
	return buf.Bytes(), nil
}
