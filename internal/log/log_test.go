package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		logFunc func()
		wantLog bool
	}{
		{"info at info level", LevelInfo, func() { Info("test") }, true},
		{"debug at info level", LevelInfo, func() { Debug("test") }, false},
		{"debug at debug level", LevelDebug, func() { Debug("test") }, true},
		{"info at error level", LevelError, func() { Info("test") }, false},
		{"error at error level", LevelError, func() { Error("test", errors.New("boom")) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetOutput(&buf)
			SetLevel(tt.level)
			t.Cleanup(func() { SetLevel(LevelInfo) })

			tt.logFunc()

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestErrorIncludesErrAndPairs(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelInfo)

	Error("export failed", errors.New("disk full"), "path", "timeline.jpg")

	out := buf.String()
	for _, want := range []string{"export failed", "disk full", "timeline.jpg"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
