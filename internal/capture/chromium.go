package capture

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"timeline/internal/config"
	apperrors "timeline/internal/errors"
	appLog "timeline/internal/log"
)

// Default capture parameters for the editor page. The viewport only has
// to be large enough to lay out the 800x200 canvas.
const (
	DefaultWidth      = 1024
	DefaultHeight     = 768
	DefaultTimeoutSec = 30
	DefaultSelector   = `#timeline`
)

// CaptureOptions defines parameters for a Chromium-based screenshot capture.
type CaptureOptions struct {
	// URL of the editor page, e.g. "http://127.0.0.1:8080/".
	URL string

	// OutputPath is where the PNG screenshot will be written.
	OutputPath string

	// Selector is the element to capture. Defaults to the timeline canvas.
	Selector string

	// Width and Height are the viewport dimensions in pixels. If zero,
	// DefaultWidth / DefaultHeight are used.
	Width  int
	Height int

	// Timeout bounds the entire capture operation. If zero, a sane default
	// (DefaultTimeoutSec) is used.
	Timeout time.Duration
}

func (o *CaptureOptions) normalize() error {
	if o.URL == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "capture: URL is required")
	}
	if o.OutputPath == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "capture: OutputPath is required")
	}
	if o.Selector == "" {
		o.Selector = DefaultSelector
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}
	return nil
}

// CaptureTimeline launches a headless Chromium instance via chromedp,
// navigates to opts.URL, waits for the timeline canvas to signal that it
// has drawn the current events, and screenshots that element as PNG.
//
// Rendering-complete condition:
//   - The editor page sets data-ready="true" on the canvas after each
//     redraw.
//   - This function waits until `<selector>[data-ready="true"]` is visible.
func CaptureTimeline(parentCtx context.Context, opts CaptureOptions) error {
	if err := opts.normalize(); err != nil {
		return err
	}

	// Create a new chromedp context.
	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	// Apply timeout to the entire capture sequence.
	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(opts.Selector+`[data-ready="true"]`, chromedp.ByQuery),
		chromedp.Screenshot(opts.Selector, &png, chromedp.NodeVisible, chromedp.ByQuery),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeCaptureFailed, err, "chromedp run failed")
	}

	if err := config.WriteFileAtomic(opts.OutputPath, png, 0o644); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeCaptureFailed, err, "failed to write PNG")
	}

	appLog.Info("timeline captured", "url", opts.URL, "path", opts.OutputPath, "bytes", len(png))
	return nil
}
