package cli

import (
	"context"

	"github.com/spf13/cobra"

	appLog "timeline/internal/log"
	"timeline/internal/snapshot"
	"timeline/internal/web"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen     string
		eventsPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser editor and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				c.cfg.Listen = listen
			}
			return c.runServe(cmd.Context(), eventsPath)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "HTTP listen address (overrides config)")
	cmd.Flags().StringVarP(&eventsPath, "events", "e", "", "YAML events file to preload")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, eventsPath string) error {
	editor, err := c.newEditor(eventsPath)
	if err != nil {
		return err
	}
	exporter, err := c.newExporter()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var sched *snapshot.Scheduler
	if c.cfg.Snapshot.Cron != "" {
		sched, err = snapshot.New(c.cfg.Snapshot.Cron, c.location(), exporter, editor.Events)
		if err != nil {
			return err
		}
	}

	snapDone := make(chan struct{})
	go func() {
		defer close(snapDone)
		if sched != nil {
			sched.Run(ctx)
		}
	}()

	c.printInfo("serving on http://%s", c.cfg.Listen)
	srv := web.NewServer(c.cfg, editor, exporter)
	err = srv.Run(ctx)

	cancel()
	<-snapDone
	appLog.Info("timeline server exiting")
	return err
}
