package timeline

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	apperrors "timeline/internal/errors"
	"timeline/internal/model"
)

func titles(events []model.Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Title
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAddSortsChronologically(t *testing.T) {
	e := NewEditor(model.FormatISO)

	if _, err := e.Add("Launch", "2024-01-10", "iso"); err != nil {
		t.Fatalf("Add(Launch) error = %v", err)
	}
	if _, err := e.Add("Review", "2023-05-01", "iso"); err != nil {
		t.Fatalf("Add(Review) error = %v", err)
	}

	got := e.Events()
	if !equalStrings(titles(got), []string{"Review", "Launch"}) {
		t.Fatalf("order = %v, want [Review Launch]", titles(got))
	}
	if got[0].Display != "2023-05-01" || got[1].Display != "2024-01-10" {
		t.Errorf("displays = %q, %q", got[0].Display, got[1].Display)
	}
}

func TestAddSortsByDateNotDisplay(t *testing.T) {
	e := NewEditor(model.FormatLocale)

	// Lexicographically "2/1/2024" < "9/12/2023", chronologically it is later.
	mustAdd(t, e, "New year", "2024-01-02", "european")
	mustAdd(t, e, "December", "2023-12-09", "european")

	if got := titles(e.Events()); !equalStrings(got, []string{"December", "New year"}) {
		t.Errorf("order = %v", got)
	}
}

func TestAddIsStableForEqualDates(t *testing.T) {
	e := NewEditor(model.FormatISO)
	mustAdd(t, e, "first", "2024-03-01", "")
	mustAdd(t, e, "earlier", "2024-02-01", "")
	mustAdd(t, e, "second", "2024-03-01", "")
	mustAdd(t, e, "third", "2024-03-01", "european")

	want := []string{"earlier", "first", "second", "third"}
	if got := titles(e.Events()); !equalStrings(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestAddAnyOrderStaysSorted(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e := NewEditor(model.FormatISO)
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 200; i++ {
		d := base.AddDate(0, 0, rng.Intn(20000))
		mustAdd(t, e, "ev", d.Format("2006-01-02"), "iso")

		evs := e.Events()
		for j := 1; j < len(evs); j++ {
			if evs[j].Date.Before(evs[j-1].Date) {
				t.Fatalf("after %d adds, index %d (%s) before %d (%s)", i+1, j, evs[j].Display, j-1, evs[j-1].Display)
			}
		}
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		date   string
		format string
		code   apperrors.Code
	}{
		{"empty title", "", "2024-01-10", "iso", apperrors.ErrCodeInvalidInput},
		{"blank title", "   \t", "2024-01-10", "iso", apperrors.ErrCodeInvalidInput},
		{"empty date", "Launch", "", "iso", apperrors.ErrCodeInvalidDate},
		{"bad date", "Launch", "2024-02-30", "iso", apperrors.ErrCodeInvalidDate},
		{"bad format", "Launch", "2024-01-10", "klingon", apperrors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEditor(model.FormatISO)
			mustAdd(t, e, "existing", "2020-01-01", "iso")

			calls := 0
			e.OnChange(func([]model.Event) { calls++ })
			e.SetInput(Input{Title: tt.title, Date: tt.date})

			_, err := e.Add(tt.title, tt.date, tt.format)
			if !apperrors.Is(err, tt.code) {
				t.Fatalf("Add() error = %v, want %s", err, tt.code)
			}
			if e.Len() != 1 {
				t.Errorf("Len() = %d, want 1", e.Len())
			}
			if calls != 0 {
				t.Errorf("listeners called %d times on rejection", calls)
			}
			if in := e.Input(); in.Title != tt.title || in.Date != tt.date {
				t.Errorf("input was cleared on rejection: %+v", in)
			}
		})
	}
}

func TestAddClearsInputKeepsFormat(t *testing.T) {
	e := NewEditor(model.FormatLocale)
	e.SetInput(Input{Title: "Launch", Date: "2024-01-10", Format: model.FormatISO})

	ev, err := e.Submit()
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if ev.Display != "2024-01-10" {
		t.Errorf("Display = %q", ev.Display)
	}

	in := e.Input()
	if in.Title != "" || in.Date != "" {
		t.Errorf("input not cleared: %+v", in)
	}
	if in.Format != model.FormatISO {
		t.Errorf("format = %q, want iso kept", in.Format)
	}
}

func TestAddNormalizesTitle(t *testing.T) {
	e := NewEditor(model.FormatISO)
	// "e" + combining acute accent should become the precomposed form.
	ev := mustAdd(t, e, "  Cafe\u0301  ", "2024-01-10", "iso")
	if ev.Title != "Caf\u00e9" {
		t.Errorf("Title = %q, want NFC %q", ev.Title, "Caf\u00e9")
	}
}

func TestDelete(t *testing.T) {
	e := NewEditor(model.FormatISO)
	mustAdd(t, e, "a", "2024-01-01", "")
	mustAdd(t, e, "b", "2024-01-02", "")
	mustAdd(t, e, "c", "2024-01-03", "")
	mustAdd(t, e, "d", "2024-01-04", "")

	if err := e.Delete(1); err != nil {
		t.Fatalf("Delete(1) error = %v", err)
	}
	if got := titles(e.Events()); !equalStrings(got, []string{"a", "c", "d"}) {
		t.Errorf("after delete = %v", got)
	}
}

func TestDeleteOutOfRange(t *testing.T) {
	e := NewEditor(model.FormatISO)
	mustAdd(t, e, "a", "2024-01-01", "")
	calls := 0
	e.OnChange(func([]model.Event) { calls++ })

	for _, pos := range []int{-1, 1, 99} {
		err := e.Delete(pos)
		if !apperrors.Is(err, apperrors.ErrCodeOutOfRange) {
			t.Errorf("Delete(%d) error = %v, want OUT_OF_RANGE", pos, err)
		}
		if e.Len() != 1 {
			t.Errorf("Delete(%d) changed length to %d", pos, e.Len())
		}
	}
	if calls != 0 {
		t.Errorf("listeners called %d times", calls)
	}
}

func TestAddThenDeleteLeavesEmpty(t *testing.T) {
	e := NewEditor(model.FormatISO)
	mustAdd(t, e, "only", "2024-01-01", "")

	var last []model.Event
	e.OnChange(func(evs []model.Event) { last = evs })

	if err := e.Delete(0); err != nil {
		t.Fatal(err)
	}
	if e.Len() != 0 {
		t.Errorf("Len() = %d", e.Len())
	}
	if last == nil || len(last) != 0 {
		t.Errorf("listener saw %v, want empty snapshot", last)
	}
}

func TestListenersSeeEveryMutation(t *testing.T) {
	e := NewEditor(model.FormatISO)
	var sizes []int
	e.OnChange(func(evs []model.Event) { sizes = append(sizes, len(evs)) })

	mustAdd(t, e, "a", "2024-01-01", "")
	mustAdd(t, e, "b", "2023-01-01", "")
	if err := e.AddEvents([]model.Event{
		model.NewEvent("c", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), ""),
		model.NewEvent("d", time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), model.FormatISO),
	}); err != nil {
		t.Fatal(err)
	}
	if err := e.Delete(0); err != nil {
		t.Fatal(err)
	}
	e.Clear()

	want := []int{1, 2, 4, 3, 0}
	if len(sizes) != len(want) {
		t.Fatalf("sizes = %v, want %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Fatalf("sizes = %v, want %v", sizes, want)
		}
	}
}

func TestAddEventsRejectsEmptyTitle(t *testing.T) {
	e := NewEditor(model.FormatISO)
	err := e.AddEvents([]model.Event{
		model.NewEvent("ok", time.Now(), model.FormatISO),
		model.NewEvent(" ", time.Now(), model.FormatISO),
	})
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Fatalf("AddEvents() error = %v", err)
	}
	if e.Len() != 0 {
		t.Errorf("Len() = %d, want 0", e.Len())
	}
}

func TestAddEventsUsesDefaultFormat(t *testing.T) {
	e := NewEditor(model.FormatLocale)
	if err := e.AddEvents([]model.Event{{Title: "x", Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)}}); err != nil {
		t.Fatal(err)
	}
	if got := e.Events()[0].Display; got != "10/1/2024" {
		t.Errorf("Display = %q", got)
	}
}

func TestEventsReturnsCopy(t *testing.T) {
	e := NewEditor(model.FormatISO)
	mustAdd(t, e, "a", "2024-01-01", "")

	evs := e.Events()
	evs[0].Title = "mutated"

	if e.Events()[0].Title != "a" {
		t.Error("Events() exposed internal storage")
	}
}

func TestConcurrentAddDelete(t *testing.T) {
	e := NewEditor(model.FormatISO)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = e.Add("x", "2024-01-01", "")
		}()
		go func() {
			defer wg.Done()
			_ = e.Delete(0)
			_ = e.Events()
		}()
	}
	wg.Wait()
	if n := e.Len(); n < 0 || n > 20 {
		t.Errorf("Len() = %d", n)
	}
}

func mustAdd(t *testing.T, e *Editor, title, date, format string) model.Event {
	t.Helper()
	ev, err := e.Add(title, date, format)
	if err != nil {
		t.Fatalf("Add(%q, %q) error = %v", title, date, err)
	}
	return ev
}
