package model

import (
	"testing"
	"time"

	apperrors "timeline/internal/errors"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw     string
		want    time.Time
		wantErr bool
	}{
		{"2024-01-10", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), false},
		{" 2023-05-01 ", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"10/1/2024", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), false},
		{"", time.Time{}, true},
		{"2024-13-01", time.Time{}, true},
		{"2023-02-29", time.Time{}, true},
		{"yesterday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDate(tt.raw)
			if tt.wantErr {
				if !apperrors.Is(err, apperrors.ErrCodeInvalidDate) {
					t.Fatalf("ParseDate(%q) error = %v, want INVALID_DATE", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tt.raw, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDateFormatFormat(t *testing.T) {
	d := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	if got := FormatISO.Format(d); got != "2024-01-10" {
		t.Errorf("iso = %q", got)
	}
	if got := FormatLocale.Format(d); got != "10/1/2024" {
		t.Errorf("european = %q", got)
	}
}

func TestParseDateFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    DateFormat
		wantErr bool
	}{
		{"", FormatISO, false},
		{"european", FormatLocale, false},
		{"ISO", FormatISO, false},
		{"dmy", FormatLocale, false},
		{"american", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDateFormat(tt.in, FormatISO)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDateFormat(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewEventTruncatesToDay(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	ev := NewEvent("Launch", time.Date(2024, 1, 10, 23, 30, 0, 0, loc), FormatISO)

	if ev.Display != "2024-01-10" {
		t.Errorf("Display = %q", ev.Display)
	}
	if !ev.Date.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v", ev.Date)
	}
}

func TestNextCycles(t *testing.T) {
	if FormatLocale.Next() != FormatISO || FormatISO.Next() != FormatLocale {
		t.Error("Next() should cycle between the two formats")
	}
}
