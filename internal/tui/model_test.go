package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"timeline/internal/config"
	apperrors "timeline/internal/errors"
	"timeline/internal/export"
	"timeline/internal/model"
	"timeline/internal/render"
	"timeline/internal/timeline"
)

type fakeSaver struct {
	mu    sync.Mutex
	saved [][]model.Event
	err   error
}

func (f *fakeSaver) SaveAsync(_ context.Context, events []model.Event) <-chan error {
	f.mu.Lock()
	f.saved = append(f.saved, events)
	f.mu.Unlock()
	done := make(chan error, 1)
	done <- f.err
	close(done)
	return done
}

func (f *fakeSaver) Path() string { return "timeline.jpg" }

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// send feeds msgs through Update and returns the final model and the last
// command.
func send(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func newModel(t *testing.T) (Model, *timeline.Editor, *fakeSaver) {
	t.Helper()
	editor := timeline.NewEditor(model.FormatLocale)
	saver := &fakeSaver{}
	return New(context.Background(), editor, saver), editor, saver
}

func TestTypingAndSubmit(t *testing.T) {
	m, editor, _ := newModel(t)
	m, _ = send(m,
		runes("Launch day"),
		key(tea.KeyTab),
		runes("2024-05-01"),
		key(tea.KeyEnter),
	)

	events := editor.Events()
	if len(events) != 1 || events[0].Title != "Launch day" || events[0].Display != "1/5/2024" {
		t.Fatalf("events = %+v", events)
	}
	in := editor.Input()
	if in.Title != "" || in.Date != "" || in.Format != model.FormatLocale {
		t.Errorf("input after add = %+v", in)
	}
	if m.failed || !strings.Contains(m.status, "Launch day") {
		t.Errorf("status = %q (failed %v)", m.status, m.failed)
	}
	if m.focus != focusTitle {
		t.Errorf("focus = %v, want title", m.focus)
	}
}

func TestSubmitInvalidShowsError(t *testing.T) {
	m, editor, _ := newModel(t)
	m, _ = send(m, key(tea.KeyTab), runes("2024-05-01"), key(tea.KeyEnter))

	if editor.Len() != 0 {
		t.Fatalf("len = %d, want 0", editor.Len())
	}
	if !m.failed || m.status == "" {
		t.Errorf("expected an error status, got %q", m.status)
	}
	if editor.Input().Date != "2024-05-01" {
		t.Error("rejected input should be kept")
	}
}

func TestBackspaceAndLettersInTextFields(t *testing.T) {
	m, editor, _ := newModel(t)
	// q and d are text while a text field has focus.
	_, _ = send(m, runes("dq"), key(tea.KeyBackspace), runes("x"))
	if got := editor.Input().Title; got != "dx" {
		t.Errorf("title = %q, want dx", got)
	}
}

func TestFormatCycling(t *testing.T) {
	m, editor, _ := newModel(t)
	m, _ = send(m, key(tea.KeyTab), key(tea.KeyTab), key(tea.KeyRight))
	if editor.Input().Format != model.FormatISO {
		t.Fatalf("format = %q, want iso", editor.Input().Format)
	}
	_, _ = send(m, key(tea.KeySpace))
	if editor.Input().Format != model.FormatLocale {
		t.Errorf("format = %q, want european", editor.Input().Format)
	}
}

func TestSelectAndDelete(t *testing.T) {
	m, editor, _ := newModel(t)
	for _, d := range []string{"2024-01-01", "2024-02-01", "2024-03-01"} {
		if _, err := editor.Add("E"+d, d, ""); err != nil {
			t.Fatal(err)
		}
	}

	m, _ = send(m, key(tea.KeyShiftTab), key(tea.KeyDown), key(tea.KeyDown), key(tea.KeyDown))
	if m.focus != focusList || m.cursor != 2 {
		t.Fatalf("focus %v cursor %d", m.focus, m.cursor)
	}
	m, _ = send(m, runes("d"))
	if editor.Len() != 2 || m.cursor != 1 {
		t.Fatalf("len %d cursor %d", editor.Len(), m.cursor)
	}
	got := editor.Events()
	if got[0].Title != "E2024-01-01" || got[1].Title != "E2024-02-01" {
		t.Errorf("remaining = %+v", got)
	}
}

func TestDeleteOnEmptyListReportsError(t *testing.T) {
	m, _, _ := newModel(t)
	m, _ = send(m, key(tea.KeyShiftTab), runes("d"))
	if !m.failed {
		t.Error("expected error status for empty delete")
	}
}

func TestSaveRunsInBackground(t *testing.T) {
	m, editor, saver := newModel(t)
	_, _ = editor.Add("A", "2024-01-01", "")

	m, cmd := send(m, key(tea.KeyCtrlS))
	if cmd == nil || !m.saving {
		t.Fatal("ctrl+s should start a save")
	}
	if _, again := send(m, key(tea.KeyCtrlS)); again != nil {
		t.Error("second ctrl+s while saving should be ignored")
	}

	m, _ = send(m, cmd())
	if m.saving || !strings.Contains(m.status, "timeline.jpg") {
		t.Errorf("after save: saving %v status %q", m.saving, m.status)
	}
	if len(saver.saved) != 1 || len(saver.saved[0]) != 1 {
		t.Errorf("saved = %+v", saver.saved)
	}
}

func TestSaveFailureShownInStatus(t *testing.T) {
	m, editor, saver := newModel(t)
	saver.err = apperrors.New(apperrors.ErrCodeExportFailed, "write timeline.jpg: not a directory")
	_, _ = editor.Add("A", "2024-01-01", "")

	m, cmd := send(m, key(tea.KeyCtrlS))
	m, _ = send(m, cmd())
	if m.saving {
		t.Error("saving should be cleared after a failed save")
	}
	if !m.failed {
		t.Error("failed save should set the error status")
	}
	if strings.HasPrefix(m.status, "saved") || !strings.Contains(m.status, "not a directory") {
		t.Errorf("status = %q", m.status)
	}

	// A later successful save clears the error.
	saver.err = nil
	m, cmd = send(m, key(tea.KeyCtrlS))
	m, _ = send(m, cmd())
	if m.failed || m.status != "saved timeline.jpg" {
		t.Errorf("after retry: failed %v status %q", m.failed, m.status)
	}
}

func TestSaveWithExporterFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	exp, err := export.New(config.ExportConfig{Dir: filepath.Join(blocker, "sub")}, render.DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}
	editor := timeline.NewEditor(model.FormatLocale)
	_, _ = editor.Add("A", "2024-01-01", "")
	m := New(context.Background(), editor, exp)

	m, cmd := send(m, key(tea.KeyCtrlS))
	m, _ = send(m, cmd())
	if !m.failed || strings.HasPrefix(m.status, "saved") {
		t.Errorf("failed %v status %q", m.failed, m.status)
	}
	if _, err := os.Stat(exp.Path()); err == nil {
		t.Error("no image should exist")
	}
}

func TestQuit(t *testing.T) {
	m, _, _ := newModel(t)
	if _, cmd := send(m, key(tea.KeyCtrlC)); cmd == nil {
		t.Error("ctrl+c should quit")
	}
	if _, cmd := send(m, key(tea.KeyShiftTab), runes("q")); cmd == nil {
		t.Error("q outside text fields should quit")
	}
}

func TestPreview(t *testing.T) {
	editor := timeline.NewEditor(model.FormatISO)
	_, _ = editor.Add("First", "2024-01-01", "")
	_, _ = editor.Add("Second", "2024-02-01", "")

	out := Preview(editor.Events())
	if strings.Count(out, iconMarker) != 2 {
		t.Errorf("want 2 markers in preview:\n%s", out)
	}
	for _, want := range []string{"x=50.0", "x=750.0", "above", "below", "First", "2024-02-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("preview missing %q:\n%s", want, out)
		}
	}
}

func TestViewRenders(t *testing.T) {
	m, editor, _ := newModel(t)
	if !strings.Contains(m.View(), "no events yet") {
		t.Error("empty view should say so")
	}
	_, _ = editor.Add("Launch", "2024-05-01", "")
	if !strings.Contains(m.View(), "Launch") {
		t.Error("view should list the event")
	}
}
