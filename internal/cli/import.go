package cli

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	apperrors "timeline/internal/errors"
	"timeline/internal/ics"
	"timeline/internal/model"
)

func (c *CLI) importCommand() *cobra.Command {
	var (
		url        string
		file       string
		output     string
		eventsPath string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Build a timeline from an iCalendar feed or file",
		Long: `import reads VEVENTs from --url (cached with ETag/Last-Modified) or
--file, expands recurrences inside the configured window and draws one
marker per occurrence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (url == "") == (file == "") {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "exactly one of --url or --file is required")
			}

			im := &ics.Importer{
				Fetcher: ics.NewFetcher(c.cfg.Import.CacheDir),
				Window:  ics.Window(time.Now(), c.location(), c.cfg.Import.BackfillDays, c.cfg.Import.HorizonDays),
				Format:  c.dateFormat(),
			}
			var (
				imported []model.Event
				err      error
			)
			if url != "" {
				imported, err = im.FromURL(cmd.Context(), url)
			} else {
				imported, err = im.FromFile(file)
			}
			if err != nil {
				return err
			}

			editor, err := c.newEditor("")
			if err != nil {
				return err
			}
			if err := editor.AddEvents(imported); err != nil {
				return err
			}
			events := editor.Events()

			if output == "" {
				output = filepath.Join(c.cfg.Export.Dir, c.cfg.Export.Filename)
			}
			if err := writeImage(output, events, c.style(), c.cfg.Export.Quality); err != nil {
				return err
			}
			c.printSuccess("imported %d events", len(events))
			c.printFile(output)

			if eventsPath != "" {
				if err := writeEventsFile(eventsPath, events); err != nil {
					return err
				}
				c.printFile(eventsPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "ICS feed URL")
	cmd.Flags().StringVar(&file, "file", "", "ICS file path")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output image (.jpg, .png or .svg)")
	cmd.Flags().StringVarP(&eventsPath, "events", "e", "", "also write the imported list as a YAML events file")
	return cmd
}
