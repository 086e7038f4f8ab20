package capture

import (
	"context"
	"testing"
	"time"

	apperrors "timeline/internal/errors"
)

func TestCaptureTimelineValidates(t *testing.T) {
	tests := []struct {
		name string
		opts CaptureOptions
	}{
		{"missing url", CaptureOptions{OutputPath: "out.png"}},
		{"missing output", CaptureOptions{URL: "http://127.0.0.1:8080/"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CaptureTimeline(context.Background(), tt.opts)
			if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	o := CaptureOptions{URL: "http://x/", OutputPath: "out.png"}
	if err := o.normalize(); err != nil {
		t.Fatal(err)
	}
	if o.Selector != DefaultSelector || o.Width != DefaultWidth || o.Height != DefaultHeight {
		t.Errorf("defaults not applied: %+v", o)
	}
	if o.Timeout != DefaultTimeoutSec*time.Second {
		t.Errorf("Timeout = %v", o.Timeout)
	}
}
