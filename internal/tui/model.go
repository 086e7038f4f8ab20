// Package tui is the terminal front end: a form for new events, the
// ordered list with delete, and a text preview of the rendered layout.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	apperrors "timeline/internal/errors"
	"timeline/internal/model"
	"timeline/internal/render"
	"timeline/internal/timeline"
)

// previewCols is the width of the text preview baseline. Each column
// covers render.Span/(previewCols-1) logical units.
const previewCols = 71

// Saver writes the timeline image in the background.
type Saver interface {
	SaveAsync(ctx context.Context, events []model.Event) <-chan error
	Path() string
}

type focus int

const (
	focusTitle focus = iota
	focusDate
	focusFormat
	focusList
	focusCount
)

// savedMsg is delivered when a background save finishes.
type savedMsg struct {
	path string
	err  error
}

// Model is the bubbletea model of the terminal editor.
type Model struct {
	ctx    context.Context
	editor *timeline.Editor
	saver  Saver

	focus  focus
	cursor int
	status string
	failed bool
	saving bool
}

// New creates a terminal editor over editor. Saves run with ctx.
func New(ctx context.Context, editor *timeline.Editor, saver Saver) Model {
	return Model{ctx: ctx, editor: editor, saver: saver}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.setStatus(true, "save failed: %s", apperrors.UserMessage(msg.err))
			return m, nil
		}
		m.setStatus(false, "saved %s", msg.path)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyTab:
		m.focus = (m.focus + 1) % focusCount
		return m, nil
	case tea.KeyShiftTab:
		m.focus = (m.focus + focusCount - 1) % focusCount
		return m, nil
	case tea.KeyEnter:
		m.submit()
		return m, nil
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case tea.KeyDown:
		if m.cursor < m.editor.Len()-1 {
			m.cursor++
		}
		return m, nil
	case tea.KeyCtrlS:
		return m, m.save()
	case tea.KeyBackspace:
		m.editInput(func(s string) string {
			r := []rune(s)
			if len(r) == 0 {
				return s
			}
			return string(r[:len(r)-1])
		})
		return m, nil
	case tea.KeyLeft, tea.KeyRight:
		if m.focus == focusFormat {
			m.cycleFormat()
		}
		return m, nil
	case tea.KeySpace:
		if m.focus == focusFormat {
			m.cycleFormat()
			return m, nil
		}
		m.editInput(func(s string) string { return s + " " })
		return m, nil
	case tea.KeyRunes:
		if m.focus == focusTitle || m.focus == focusDate {
			text := string(msg.Runes)
			m.editInput(func(s string) string { return s + text })
			return m, nil
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "d":
			m.deleteSelected()
		}
	}
	return m, nil
}

// editInput applies f to the focused text field.
func (m *Model) editInput(f func(string) string) {
	in := m.editor.Input()
	switch m.focus {
	case focusTitle:
		in.Title = f(in.Title)
	case focusDate:
		in.Date = f(in.Date)
	default:
		return
	}
	m.editor.SetInput(in)
}

func (m *Model) cycleFormat() {
	in := m.editor.Input()
	in.Format = in.Format.Next()
	m.editor.SetInput(in)
}

func (m *Model) submit() {
	ev, err := m.editor.Submit()
	if err != nil {
		m.setStatus(true, "%s", apperrors.UserMessage(err))
		return
	}
	m.focus = focusTitle
	m.setStatus(false, "added %q on %s", ev.Title, ev.Display)
}

func (m *Model) deleteSelected() {
	if err := m.editor.Delete(m.cursor); err != nil {
		m.setStatus(true, "%s", apperrors.UserMessage(err))
		return
	}
	if n := m.editor.Len(); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
	m.setStatus(false, "deleted")
}

func (m *Model) save() tea.Cmd {
	if m.saving {
		return nil
	}
	m.saving = true
	m.setStatus(false, "saving %s…", m.saver.Path())
	done := m.saver.SaveAsync(m.ctx, m.editor.Events())
	path := m.saver.Path()
	return func() tea.Msg {
		return savedMsg{path: path, err: <-done}
	}
}

func (m *Model) setStatus(failed bool, format string, args ...any) {
	m.failed = failed
	m.status = fmt.Sprintf(format, args...)
}

func (m Model) View() string {
	var b strings.Builder
	in := m.editor.Input()
	events := m.editor.Events()

	b.WriteString(StyleTitle.Render("Timeline Editor"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("tab focus  ⏎ add  ↑/↓ select  d delete  ctrl+s save  q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.field("Title", in.Title, focusTitle))
	b.WriteString(m.field("Date", in.Date, focusDate))
	b.WriteString(m.field("Format", "‹ "+in.Format.Label()+" ›", focusFormat))
	b.WriteString("\n")

	if len(events) == 0 {
		b.WriteString(StyleDim.Render("  no events yet"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.eventTable(events))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(Preview(events))
	b.WriteString("\n")

	if m.status != "" {
		if m.failed {
			b.WriteString(StyleError.Render(iconError + " " + m.status))
		} else {
			b.WriteString(StyleSuccess.Render(iconSuccess + " " + m.status))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) field(label, value string, f focus) string {
	style := styleFieldBlurred
	if m.focus == f {
		style = styleFieldFocused
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, styleLabel.Render(label), style.Width(30).Render(value)) + "\n"
}

func (m Model) eventTable(events []model.Event) string {
	rows := make([][]string, 0, len(events))
	for i, ev := range events {
		cursor := "  "
		if i == m.cursor {
			cursor = iconCursor
		}
		rows = append(rows, []string{cursor, ev.Title, ev.Display})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	border := StyleDim
	if m.focus == focusList {
		border = lipgloss.NewStyle().Foreground(colorCyan)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(border).
		Headers("", "Title", "Date").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.cursor {
				return styleSelected
			}
			return StyleValue
		})
	return t.Render()
}

// Preview draws a scaled text rendition of the timeline: a baseline with
// one marker per event, followed by each event's marker x and label side.
func Preview(events []model.Event) string {
	placements := render.Layout(events, nil)

	line := make([]string, previewCols)
	for i := range line {
		line[i] = styleBaseline.Render(iconLine)
	}
	for _, p := range placements {
		col := int((p.X-render.MarginLeft)/render.Span*float64(previewCols-1) + 0.5)
		line[col] = styleMarker.Render(iconMarker)
	}

	var b strings.Builder
	b.WriteString(strings.Join(line, ""))
	b.WriteString("\n")
	for _, p := range placements {
		side := "below"
		if p.Above {
			side = "above"
		}
		b.WriteString(StyleDim.Render(fmt.Sprintf("  x=%-6.1f %s  ", p.X, side)))
		b.WriteString(StyleValue.Render(p.Title.Text))
		b.WriteString(StyleDim.Render(" " + p.Date.Text))
		b.WriteString("\n")
	}
	return b.String()
}
