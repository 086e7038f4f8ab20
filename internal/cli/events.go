package cli

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"timeline/internal/config"
	apperrors "timeline/internal/errors"
	"timeline/internal/model"
	"timeline/internal/render"
	"timeline/internal/render/raster"
	"timeline/internal/render/svg"
	"timeline/internal/timeline"
)

// eventEntry is one item of an events file:
//
//   - title: Kickoff
//     date: 2024-01-10
//     format: iso
type eventEntry struct {
	Title  string `yaml:"title"`
	Date   string `yaml:"date"`
	Format string `yaml:"format,omitempty"`
}

func readEventsFile(path string) ([]eventEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read events file")
	}
	var entries []eventEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "parse events file %s", path)
	}
	return entries, nil
}

func writeEventsFile(path string, events []model.Event) error {
	entries := make([]eventEntry, 0, len(events))
	for _, ev := range events {
		entries = append(entries, eventEntry{
			Title:  ev.Title,
			Date:   ev.Date.Format("2006-01-02"),
			Format: string(ev.Format),
		})
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return err
	}
	return config.WriteFileAtomic(path, data, 0o644)
}

// addEntries adds entries through the editor's validation. The first
// invalid entry stops the load.
func addEntries(editor *timeline.Editor, entries []eventEntry) error {
	for i, e := range entries {
		if _, err := editor.Add(e.Title, e.Date, e.Format); err != nil {
			return apperrors.Wrap(apperrors.GetCode(err), err, "event %d", i+1)
		}
	}
	return nil
}

// writeImage renders events to path; the extension picks svg, png or jpeg.
func writeImage(path string, events []model.Event, style render.Style, quality int) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		data, err = svg.Render(events, style)
	} else {
		var f raster.Format
		f, err = raster.FormatFromName(path)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "output %s", path)
		}
		data, err = raster.Render(events, style, f, quality)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeExportFailed, err, "render %s", path)
	}
	if err := config.WriteFileAtomic(path, data, 0o644); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeExportFailed, err, "write %s", path)
	}
	return nil
}
