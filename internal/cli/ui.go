package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"timeline/internal/tui"
)

const (
	iconSuccess = "✓"
	iconInfo    = "›"
	iconArrow   = "→"
)

var styleKey = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)

// printSuccess prints a success message.
func (c *CLI) printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.out, tui.StyleSuccess.Render(iconSuccess)+" "+msg)
}

// printInfo prints an info/status message.
func (c *CLI) printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.out, tui.StyleDim.Render(iconInfo)+" "+msg)
}

// printFile prints a file output line.
func (c *CLI) printFile(path string) {
	fmt.Fprintln(c.out, "  "+tui.StyleDim.Render(iconArrow)+" "+tui.StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func (c *CLI) printKeyValue(key, value string) {
	fmt.Fprintln(c.out, styleKey.Render(key)+" "+tui.StyleValue.Render(value))
}
