package model

import (
	"strings"
	"time"

	apperrors "timeline/internal/errors"
)

// DateFormat selects how an event's date is rendered as text. It affects
// only the display string, never ordering.
type DateFormat string

const (
	// FormatLocale renders day/month/year without zero padding, the way
	// the it-IT locale prints dates (e.g. "10/1/2024").
	FormatLocale DateFormat = "european"
	// FormatISO renders year-month-day (e.g. "2024-01-10").
	FormatISO DateFormat = "iso"
)

const (
	layoutISO    = "2006-01-02"
	layoutLocale = "2/1/2006"
)

// Formats lists the selector options in display order.
var Formats = []DateFormat{FormatLocale, FormatISO}

// Label is the human-friendly name shown by the format selector.
func (f DateFormat) Label() string {
	switch f {
	case FormatISO:
		return "ISO (yyyy-mm-dd)"
	default:
		return "European (dd/mm/yyyy)"
	}
}

// Format renders d according to f.
func (f DateFormat) Format(d time.Time) string {
	if f == FormatISO {
		return d.Format(layoutISO)
	}
	return d.Format(layoutLocale)
}

// Next returns the selector option after f, wrapping around.
func (f DateFormat) Next() DateFormat {
	for i, cand := range Formats {
		if cand == f {
			return Formats[(i+1)%len(Formats)]
		}
	}
	return Formats[0]
}

// ParseDateFormat maps a selector value to a DateFormat. An empty value
// yields def.
func ParseDateFormat(s string, def DateFormat) (DateFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "european", "locale", "dmy":
		return FormatLocale, nil
	case "iso", "ymd":
		return FormatISO, nil
	default:
		return "", apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown date format %q (want european or iso)", s)
	}
}

// ParseDate parses the date picker value (YYYY-MM-DD). It also accepts
// D/M/YYYY so a previously displayed European date can be re-entered.
// The result is midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperrors.New(apperrors.ErrCodeInvalidDate, "date is required")
	}
	for _, layout := range []string{layoutISO, layoutLocale} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.New(apperrors.ErrCodeInvalidDate, "cannot parse date %q (want YYYY-MM-DD)", raw)
}

// DateOf truncates t to its calendar day in t's own location and returns
// that day at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Event is a titled point on the timeline.
type Event struct {
	Title string
	// Date is the calendar day at midnight UTC. Ordering uses this value.
	Date time.Time
	// Display is Date rendered with Format.
	Display string
	Format  DateFormat
}

// NewEvent builds an Event, computing its display string.
func NewEvent(title string, date time.Time, format DateFormat) Event {
	date = DateOf(date)
	return Event{
		Title:   title,
		Date:    date,
		Display: format.Format(date),
		Format:  format,
	}
}

// Occurrence represents a single concrete instance of an imported calendar
// event (after recurrence expansion and timezone normalization).
type Occurrence struct {
	SourceID string // calendar source ID
	UID      string // iCalendar UID

	// InstanceKey uniquely identifies a single occurrence of a recurring
	// event, typically derived from the local start time.
	InstanceKey string

	Summary  string
	Location string

	AllDay bool

	// Start / End are in the configured display timezone.
	Start time.Time
	End   time.Time
}
