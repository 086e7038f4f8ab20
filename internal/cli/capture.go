package cli

import (
	"time"

	"github.com/spf13/cobra"

	"timeline/internal/capture"
)

func (c *CLI) captureCommand() *cobra.Command {
	opts := capture.CaptureOptions{
		Selector: capture.DefaultSelector,
		Width:    capture.DefaultWidth,
		Height:   capture.DefaultHeight,
		Timeout:  capture.DefaultTimeoutSec * time.Second,
	}

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Screenshot the browser canvas of a running server",
		Long: `capture opens the editor page in headless Chromium, waits until the
canvas reports data-ready="true" and writes a PNG of the canvas element.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.URL == "" {
				opts.URL = "http://" + c.cfg.Listen + "/"
			}
			if err := capture.CaptureTimeline(cmd.Context(), opts); err != nil {
				return err
			}
			c.printSuccess("captured %s", opts.URL)
			c.printFile(opts.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "editor URL (default: the configured listen address)")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "timeline-capture.png", "PNG output path")
	cmd.Flags().StringVar(&opts.Selector, "selector", opts.Selector, "CSS selector of the element to capture")
	cmd.Flags().IntVar(&opts.Width, "width", opts.Width, "viewport width")
	cmd.Flags().IntVar(&opts.Height, "height", opts.Height, "viewport height")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout, "overall capture timeout")
	return cmd
}
