package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/mousebackend/internal/config"
	"github.com/xkilldash9x/mousebackend/internal/observability"
	"github.com/xkilldash9x/mousebackend/internal/replay"
)

func newReplayCmd() *cobra.Command {
	var (
		output    string
		format    string
		pretty    bool
		threshold float64
	)

	replayCmd := &cobra.Command{
		Use:   "replay [scripts...]",
		Short: "Replays scenario scripts and prints the drag actions they produce",
		Long: `Replays each YAML scenario script against a fresh backend and writes the
resulting action trace. Scripts with an expect block are checked, and the
command fails when any expectation does not hold.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}

			// Flags override the file and environment.
			if cmd.Flags().Changed("format") {
				cfg.SetReplayFormat(format)
			}
			if cmd.Flags().Changed("pretty") {
				cfg.SetReplayPretty(pretty)
			}
			if cmd.Flags().Changed("threshold") {
				cfg.SetBackendDragThreshold(threshold)
			}
			return runReplay(cmd, cfg, output, args)
		},
	}

	replayCmd.Flags().StringVarP(&output, "output", "o", "", "write results to this file instead of stdout")
	replayCmd.Flags().StringVarP(&format, "format", "f", config.FormatJSON, "output format (json or yaml)")
	replayCmd.Flags().BoolVar(&pretty, "pretty", true, "indent JSON output")
	replayCmd.Flags().Float64Var(&threshold, "threshold", config.DefaultDragThreshold, "drag threshold in pixels")
	return replayCmd
}

func runReplay(cmd *cobra.Command, cfg config.Interface, output string, paths []string) error {
	logger := observability.Component("replay")

	backendCfg := cfg.Backend()
	if err := backendCfg.Validate(); err != nil {
		return err
	}
	replayCfg := cfg.Replay()
	if err := replayCfg.Validate(); err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	results, err := replayAll(cmd.Context(), replay.NewRunner(backendCfg, logger), paths)
	if err != nil {
		return err
	}

	failed := 0
	for i, r := range results {
		if r.failure != nil {
			failed++
			logger.Error("Script expectation failed.", zap.String("script", paths[i]), zap.Error(r.failure))
			cmd.PrintErrf("FAIL %s\n%v\n", paths[i], r.failure)
		}
		if err := replay.Write(w, r.res, replayCfg.Format, replayCfg.Pretty); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scripts failed their expectations", failed, len(paths))
	}
	return nil
}

// scriptResult is the outcome of one script. failure is set when the script
// ran but an expectation did not hold.
type scriptResult struct {
	res     *replay.Result
	failure *replay.AssertionError
}

// replayAll runs the scripts concurrently, each against its own document and
// backend, and returns their results in argument order. Any error other than
// a failed expectation cancels the remaining scripts.
func replayAll(ctx context.Context, runner *replay.Runner, paths []string) ([]scriptResult, error) {
	results := make([]scriptResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			script, err := replay.LoadFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if script.Name == "" {
				script.Name = path
			}

			res, err := runner.Run(gctx, script)
			var assertion *replay.AssertionError
			switch {
			case errors.As(err, &assertion):
				results[i] = scriptResult{res: res, failure: assertion}
			case err != nil:
				return fmt.Errorf("%s: %w", path, err)
			default:
				results[i] = scriptResult{res: res}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
