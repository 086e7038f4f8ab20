// Package timeline holds the editable, chronologically ordered list of
// events together with the user's pending input.
//
// Every mutating operation re-sorts the list (stable, by date) and calls
// the registered change listeners with a fresh snapshot before returning,
// so a renderer attached with OnChange always sees the current list.
package timeline

import (
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	apperrors "timeline/internal/errors"
	appLog "timeline/internal/log"
	"timeline/internal/model"
)

// Input is the pending content of the title field, date picker and format
// selector.
type Input struct {
	Title  string
	Date   string
	Format model.DateFormat
}

// Listener receives the event list after each mutation.
type Listener func(events []model.Event)

// Editor is the in-memory record behind both front ends. It is safe for
// concurrent use.
type Editor struct {
	mu        sync.RWMutex
	events    []model.Event
	input     Input
	defFormat model.DateFormat
	listeners []Listener
}

// NewEditor returns an empty editor whose format selector starts at def.
func NewEditor(def model.DateFormat) *Editor {
	if def == "" {
		def = model.FormatLocale
	}
	return &Editor{
		defFormat: def,
		input:     Input{Format: def},
	}
}

// OnChange registers l to be called after every mutation.
func (e *Editor) OnChange(l Listener) {
	e.mu.Lock()
	e.listeners = append(e.listeners, l)
	e.mu.Unlock()
}

// Events returns a copy of the ordered list.
func (e *Editor) Events() []model.Event {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.events)
}

// Len returns the number of events.
func (e *Editor) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.events)
}

// Input returns the pending input.
func (e *Editor) Input() Input {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.input
}

// SetInput replaces the pending input. An empty format keeps the current
// selector value.
func (e *Editor) SetInput(in Input) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if in.Format == "" {
		in.Format = e.input.Format
	}
	e.input = in
}

// Submit adds an event from the pending input.
func (e *Editor) Submit() (model.Event, error) {
	in := e.Input()
	return e.Add(in.Title, in.Date, string(in.Format))
}

// Add validates the input, inserts the event and re-sorts by date.
// On success the title and date inputs are cleared; the format selector
// keeps its value. On failure nothing changes.
func (e *Editor) Add(title, rawDate, format string) (model.Event, error) {
	ev, err := e.validate(title, rawDate, format)
	if err != nil {
		appLog.Debug("add rejected", "title", title, "date", rawDate, "code", apperrors.GetCode(err))
		return model.Event{}, err
	}

	e.mu.Lock()
	e.events = append(e.events, ev)
	sortByDate(e.events)
	e.input = Input{Format: ev.Format}
	snapshot, listeners := e.snapshotLocked()
	e.mu.Unlock()

	appLog.Info("event added", "title", ev.Title, "date", ev.Display, "count", len(snapshot))
	notify(listeners, snapshot)
	return ev, nil
}

// AddEvents inserts already-built events, validating titles, and notifies
// once. Events with an empty title are rejected and the list is untouched.
func (e *Editor) AddEvents(evs []model.Event) error {
	if len(evs) == 0 {
		return nil
	}
	clean := make([]model.Event, 0, len(evs))
	for _, ev := range evs {
		title, err := normalizeTitle(ev.Title)
		if err != nil {
			return err
		}
		if ev.Format == "" {
			ev.Format = e.defFormat
		}
		clean = append(clean, model.NewEvent(title, ev.Date, ev.Format))
	}

	e.mu.Lock()
	e.events = append(e.events, clean...)
	sortByDate(e.events)
	snapshot, listeners := e.snapshotLocked()
	e.mu.Unlock()

	appLog.Info("events added", "added", len(clean), "count", len(snapshot))
	notify(listeners, snapshot)
	return nil
}

// Delete removes the event at position. An out-of-range position returns
// an OUT_OF_RANGE error and leaves the list untouched.
func (e *Editor) Delete(position int) error {
	e.mu.Lock()
	if position < 0 || position >= len(e.events) {
		n := len(e.events)
		e.mu.Unlock()
		appLog.Debug("delete ignored", "position", position, "count", n)
		return apperrors.New(apperrors.ErrCodeOutOfRange, "position %d out of range [0,%d)", position, n)
	}
	removed := e.events[position]
	e.events = slices.Delete(e.events, position, position+1)
	snapshot, listeners := e.snapshotLocked()
	e.mu.Unlock()

	appLog.Info("event deleted", "position", position, "title", removed.Title, "count", len(snapshot))
	notify(listeners, snapshot)
	return nil
}

// Clear removes every event.
func (e *Editor) Clear() {
	e.mu.Lock()
	e.events = nil
	snapshot, listeners := e.snapshotLocked()
	e.mu.Unlock()

	appLog.Info("events cleared")
	notify(listeners, snapshot)
}

func (e *Editor) validate(title, rawDate, format string) (model.Event, error) {
	clean, err := normalizeTitle(title)
	if err != nil {
		return model.Event{}, err
	}
	date, err := model.ParseDate(rawDate)
	if err != nil {
		return model.Event{}, err
	}
	e.mu.RLock()
	def := e.input.Format
	e.mu.RUnlock()
	f, err := model.ParseDateFormat(format, def)
	if err != nil {
		return model.Event{}, err
	}
	return model.NewEvent(clean, date, f), nil
}

func (e *Editor) snapshotLocked() ([]model.Event, []Listener) {
	return slices.Clone(e.events), slices.Clone(e.listeners)
}

func notify(listeners []Listener, events []model.Event) {
	for _, l := range listeners {
		l(events)
	}
}

func normalizeTitle(title string) (string, error) {
	clean := norm.NFC.String(strings.TrimSpace(title))
	if clean == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "title is required")
	}
	return clean, nil
}

// sortByDate orders events ascending by date; equal dates keep insertion
// order.
func sortByDate(events []model.Event) {
	slices.SortStableFunc(events, func(a, b model.Event) int {
		return a.Date.Compare(b.Date)
	})
}
