package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	appLog "timeline/internal/log"
)

func (c *CLI) renderCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render [events.yaml]",
		Short: "Render a YAML events file to jpg, png or svg",
		Long: `render reads a YAML list of {title, date, format} entries, adds each
through the same validation as the editors and draws the timeline.
The output extension picks the encoder. The default is the configured
export path (timeline.jpg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := c.newEditor(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = filepath.Join(c.cfg.Export.Dir, c.cfg.Export.Filename)
			}
			events := editor.Events()
			if err := writeImage(output, events, c.style(), c.cfg.Export.Quality); err != nil {
				return err
			}
			appLog.Info("timeline rendered", "input", args[0], "output", output, "events", len(events))
			c.printSuccess("rendered %d events", len(events))
			c.printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.jpg, .png or .svg)")
	return cmd
}
