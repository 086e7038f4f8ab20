package ics

import (
	"context"
	"os"
	"strings"
	"time"

	apperrors "timeline/internal/errors"
	appLog "timeline/internal/log"
	"timeline/internal/model"
)

// Window returns an expansion config covering backfillDays before now and
// horizonDays after it, in loc.
func Window(now time.Time, loc *time.Location, backfillDays, horizonDays int) ExpandConfig {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return ExpandConfig{
		DisplayLocation: loc,
		RangeStart:      day.AddDate(0, 0, -backfillDays),
		RangeEnd:        day.AddDate(0, 0, horizonDays+1),
	}
}

// ToEvents maps occurrences to timeline events, one per occurrence, dated
// by the day the occurrence starts. Occurrences without a summary are
// skipped since a timeline event needs a title.
func ToEvents(occs []model.Occurrence, format model.DateFormat) []model.Event {
	out := make([]model.Event, 0, len(occs))
	for _, o := range occs {
		title := strings.TrimSpace(o.Summary)
		if title == "" {
			continue
		}
		out = append(out, model.NewEvent(title, model.DateOf(o.Start), format))
	}
	return out
}

// Decode parses and expands an ICS payload into timeline events.
func Decode(src Source, body []byte, cfg ExpandConfig, format model.DateFormat) ([]model.Event, error) {
	parsed, err := ParseICS(src, body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "cannot parse calendar")
	}
	res, err := ExpandOccurrences(parsed, cfg)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "cannot expand calendar")
	}
	events := ToEvents(res.Occurrences, format)
	appLog.Info("ics decoded", "id", src.ID, "vevents", len(parsed), "events", len(events))
	return events, nil
}

// Importer loads calendars from a URL (through the Fetcher cache) or a
// local file.
type Importer struct {
	Fetcher *Fetcher
	Window  ExpandConfig
	Format  model.DateFormat
}

// FromURL fetches and decodes a remote calendar.
func (im *Importer) FromURL(ctx context.Context, rawURL string) ([]model.Event, error) {
	src := Source{ID: "url", URL: rawURL}
	res, err := im.Fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "cannot fetch calendar")
	}
	return Decode(src, res.Body, im.Window, im.Format)
}

// FromFile reads and decodes a calendar file.
func (im *Importer) FromFile(path string) ([]model.Event, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "cannot read %s", path)
	}
	return Decode(Source{ID: "file"}, body, im.Window, im.Format)
}
