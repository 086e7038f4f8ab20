// Package cli implements the timeline command-line interface.
//
// # Commands
//
//   - serve: browser editor and JSON API, plus scheduled snapshots
//   - edit: terminal editor
//   - render: draw an events file to jpg, png or svg
//   - import: turn an iCalendar feed or file into a timeline image
//   - capture: screenshot the browser canvas of a running server
//   - hash-password: create a Basic Auth password hash
//
// All commands accept --config (YAML, or TOML for *.toml paths) and
// --verbose for debug logging.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"timeline/internal/config"
	apperrors "timeline/internal/errors"
	"timeline/internal/export"
	appLog "timeline/internal/log"
	"timeline/internal/model"
	"timeline/internal/render"
	"timeline/internal/timeline"
)

const (
	// appName is the application name used for display and defaults.
	appName = "timeline"

	// defaultConfigPath is used when --config is not given.
	defaultConfigPath = "timeline.yaml"
)

// Version is reported by --version.
var Version = "0.1.0-dev"

// CLI holds shared state for all commands.
type CLI struct {
	out io.Writer
	in  *bufio.Reader

	configPath string
	verbose    bool
	cfg        *config.Config

	// readPassword prompts for a secret without echo.
	readPassword func(prompt string) (string, error)
}

// New creates a CLI writing user-facing output to out.
func New(out io.Writer) *CLI {
	c := &CLI{out: out, in: bufio.NewReader(os.Stdin)}
	c.readPassword = c.readPasswordMasked
	return c
}

// Execute builds the command tree and runs it with ctx.
func Execute(ctx context.Context) error {
	return New(os.Stdout).RootCommand().ExecuteContext(ctx)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Timeline editor: build, view and export dated event timelines",
		Long:         `timeline keeps an ordered list of titled, dated events and draws it as an 800x200 timeline with alternating labels. Edit it in the browser or the terminal and save it as timeline.jpg.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				appLog.SetLevel(appLog.LevelDebug)
			}
			return c.loadConfig()
		},
	}

	root.SetOut(c.out)
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", defaultConfigPath, "path to config file (.yaml or .toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.captureCommand())
	root.AddCommand(c.hashPasswordCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if cfg == nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "load %s", c.configPath)
	}
	if err != nil {
		appLog.Error("config file could not be written; using defaults", err, "config_path", c.configPath)
	}
	c.cfg = cfg

	appLog.Debug("effective config",
		"config_path", c.configPath,
		"listen", cfg.Listen,
		"date_format", cfg.DateFormat,
		"export_path", cfg.Export.Dir+"/"+cfg.Export.Filename,
		"snapshot_cron", cfg.Snapshot.Cron,
		"basic_auth", cfg.BasicAuth != nil,
	)
	return nil
}

// =============================================================================
// Shared construction
// =============================================================================

func (c *CLI) dateFormat() model.DateFormat {
	f, err := model.ParseDateFormat(c.cfg.DateFormat, model.FormatLocale)
	if err != nil {
		return model.FormatLocale
	}
	return f
}

func (c *CLI) style() render.Style {
	return render.StyleFromConfig(c.cfg.Style)
}

// newEditor returns an editor, preloaded from eventsPath when set.
func (c *CLI) newEditor(eventsPath string) (*timeline.Editor, error) {
	editor := timeline.NewEditor(c.dateFormat())
	if eventsPath == "" {
		return editor, nil
	}
	entries, err := readEventsFile(eventsPath)
	if err != nil {
		return nil, err
	}
	if err := addEntries(editor, entries); err != nil {
		return nil, err
	}
	return editor, nil
}

func (c *CLI) newExporter() (*export.Exporter, error) {
	return export.New(c.cfg.Export, c.style())
}

func (c *CLI) location() *time.Location {
	loc, err := time.LoadLocation(c.cfg.Import.Timezone)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to UTC", err, "name", c.cfg.Import.Timezone)
		return time.UTC
	}
	return loc
}
