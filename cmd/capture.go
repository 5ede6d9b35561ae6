package cmd

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/mousebackend/api/schemas"
	"github.com/xkilldash9x/mousebackend/internal/browser/capture"
	"github.com/xkilldash9x/mousebackend/internal/observability"
	"github.com/xkilldash9x/mousebackend/internal/replay"
)

func newCaptureCmd() *cobra.Command {
	var (
		count    int
		x, y     float64
		headless bool
		timeout  time.Duration
	)

	captureCmd := &cobra.Command{
		Use:   "capture <url>",
		Short: "Records native drags in Chrome and prints them as replay steps",
		Long: `Opens the page in Chrome with drag interception enabled. Every drag started
in the page (including files dragged in from the desktop) is printed as the
dragenter, dragover and drop steps of a replay script.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := url.Parse(args[0])
			if err != nil || target.Scheme == "" {
				return fmt.Errorf("invalid url %q: a scheme such as https:// or file:// is required", args[0])
			}
			if count < 0 {
				return fmt.Errorf("--count must not be negative")
			}

			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("headless") {
				cfg.SetCaptureHeadless(headless)
			}
			if cmd.Flags().Changed("timeout") {
				if timeout <= 0 {
					return fmt.Errorf("--timeout must be positive")
				}
				cfg.SetCaptureTimeout(timeout)
			}

			at := schemas.Point{X: x, Y: y}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()

			c := capture.New(cfg.Capture(), observability.GetLogger())
			n, err := c.Run(cmd.Context(), target.String(), count, func(p capture.Payload) error {
				return enc.Encode(struct {
					Steps []replay.Step `yaml:"steps"`
				}{p.Steps(at)})
			})
			if err != nil {
				return fmt.Errorf("capture stopped after %d drags: %w", n, err)
			}
			return nil
		},
	}

	captureCmd.Flags().IntVarP(&count, "count", "n", 1, "number of drags to record (0 records until the timeout)")
	captureCmd.Flags().Float64Var(&x, "x", 0, "client x of the generated steps")
	captureCmd.Flags().Float64Var(&y, "y", 0, "client y of the generated steps")
	captureCmd.Flags().BoolVar(&headless, "headless", false, "run Chrome without a window")
	captureCmd.Flags().DurationVar(&timeout, "timeout", 0, "stop recording after this long")
	return captureCmd
}
