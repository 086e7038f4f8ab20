package cli

import (
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	appLog "timeline/internal/log"
	"timeline/internal/tui"
)

func (c *CLI) editCommand() *cobra.Command {
	var (
		eventsPath string
		savePath   string
		logPath    string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a timeline in the terminal",
		Long:  `edit opens the terminal editor. Logs go to --log so they do not disturb the screen. With --save the final list is written back as a YAML events file on exit.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := c.newEditor(eventsPath)
			if err != nil {
				return err
			}
			exporter, err := c.newExporter()
			if err != nil {
				return err
			}

			f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err != nil {
				return err
			}
			defer f.Close()
			appLog.SetOutput(f)
			defer appLog.SetOutput(os.Stderr)

			m := tui.New(cmd.Context(), editor, exporter)
			if _, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run(); err != nil {
				return err
			}

			if savePath != "" {
				if err := writeEventsFile(savePath, editor.Events()); err != nil {
					return err
				}
				c.printSuccess("saved %d events", editor.Len())
				c.printFile(savePath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&eventsPath, "events", "e", "", "YAML events file to preload")
	cmd.Flags().StringVarP(&savePath, "save", "s", "", "write the final list to this YAML events file")
	cmd.Flags().StringVar(&logPath, "log", filepath.Join(os.TempDir(), "timeline-edit.log"), "log file while the editor is open")
	return cmd
}
