// Package export implements "Save Timeline as Image": it renders the
// current events onto a fresh raster canvas and writes a fixed-name image
// file.
package export

import (
	"context"
	"path/filepath"
	"time"

	"timeline/internal/config"
	apperrors "timeline/internal/errors"
	appLog "timeline/internal/log"
	"timeline/internal/model"
	"timeline/internal/render"
	"timeline/internal/render/raster"
)

// Exporter writes timeline images.
type Exporter struct {
	dir      string
	filename string
	format   raster.Format
	quality  int
	style    render.Style
}

// New builds an Exporter from the export and style configuration.
func New(cfg config.ExportConfig, style render.Style) (*Exporter, error) {
	filename := cfg.Filename
	if filename == "" {
		filename = "timeline.jpg"
	}
	format, err := raster.FormatFromName(filename)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "export filename %q", filename)
	}
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	return &Exporter{
		dir:      dir,
		filename: filepath.Base(filename),
		format:   format,
		quality:  cfg.Quality,
		style:    style,
	}, nil
}

// Filename is the fixed download name (e.g. "timeline.jpg").
func (e *Exporter) Filename() string { return e.filename }

// Path is where SaveAsImage writes.
func (e *Exporter) Path() string { return filepath.Join(e.dir, e.filename) }

// ContentType is the MIME type of the encoded image.
func (e *Exporter) ContentType() string { return e.format.ContentType() }

// Encode renders events and returns the encoded image bytes.
func (e *Exporter) Encode(events []model.Event) ([]byte, error) {
	data, err := raster.Render(events, e.style, e.format, e.quality)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeExportFailed, err, "render %d events", len(events))
	}
	return data, nil
}

// SaveAsImage renders events and writes them to Path, replacing any
// previous file atomically. It returns the written path.
func (e *Exporter) SaveAsImage(ctx context.Context, events []model.Event) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	start := time.Now()

	data, err := e.Encode(events)
	if err != nil {
		return "", err
	}
	path := e.Path()
	if err := config.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeExportFailed, err, "write %s", path)
	}

	appLog.Info("timeline image saved",
		"path", path,
		"events", len(events),
		"bytes", len(data),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return path, nil
}

// SaveAsync runs SaveAsImage in the background. The returned channel
// yields the save's error (nil on success) and is then closed; callers
// that fire and forget can ignore it. Failures are also logged.
func (e *Exporter) SaveAsync(ctx context.Context, events []model.Event) <-chan error {
	done := make(chan error, 1)
	snapshot := append([]model.Event(nil), events...)
	go func() {
		defer close(done)
		_, err := e.SaveAsImage(ctx, snapshot)
		if err != nil {
			appLog.Error("timeline image save failed", err, "path", e.Path())
		}
		done <- err
	}()
	return done
}
